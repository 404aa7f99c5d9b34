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
	"fmt"
	"strconv"
	"strings"
)

// Row is a row of a Coda table.
type Row struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Index  int            `json:"index"`
	Values map[string]any `json:"values"`
}

// String returns the value of the given column as text. Missing and null
// values are empty. Numbers are formatted without a trailing ".0".
func (r Row) String(column string) string {
	v, ok := r.Values[column]
	if !ok || v == nil {
		return ""
	}

	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

// CellEdit is a single column value of a row update.
type CellEdit struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// MutationStatus is the acknowledgement of a queued row mutation.
type MutationStatus struct {
	RequestID string `json:"requestId"`
	ID        string `json:"id"`
}

type rowsPage struct {
	Items         []Row  `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type rowEdit struct {
	Cells []CellEdit `json:"cells"`
}

type rowUpdateRequest struct {
	Row rowEdit `json:"row"`
}

type apiError struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
}
