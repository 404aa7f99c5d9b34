/*
 * Copyright 2026 The SOLV Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package coda

import (
	"net/url"
	"strings"
)

// docIDLength is the length of the document IDs Coda issues.
const docIDLength = 10

// ParseDocID returns the document ID of s. s is either a bare ID or a
// browser link such as https://coda.io/d/Title_dAbCdEf/Page_suXyz. The first
// path segment following "/d/" is the bare ID itself, "_d" plus the ID, or a
// hyphenated title slug followed by the first "_d" and the ID. An empty
// string is returned if a link carries no ID.
func ParseDocID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "/d/") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment != "d" || i+1 >= len(segments) {
			continue
		}
		return docIDOfSlug(segments[i+1])
	}

	return ""
}

func docIDOfSlug(slug string) string {
	if rest, ok := strings.CutPrefix(slug, "_d"); ok {
		return rest
	}
	if len(slug) == docIDLength {
		return slug
	}
	if idx := strings.Index(slug, "_d"); idx >= 0 {
		return slug[idx+2:]
	}
	return slug
}
