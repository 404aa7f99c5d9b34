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

// Package version provides the version information of the solv binary.
package version

// At build time, the versions is replaced with the current version using the -X linker flag
var (
	// Version is the main version number that is being run at the moment.
	Version = "0.1.0"

	// BuildDate is the date the executable was built.
	BuildDate string
)

// Info is the version information printed by the CLI and reported as a
// metric label.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}
