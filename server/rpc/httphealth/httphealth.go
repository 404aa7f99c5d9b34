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

// Package httphealth uses http GET to provide a health check for the server.
package httphealth

import (
	"encoding/json"
	"net/http"
)

// Path is the route of the health check.
const Path = "/health"

// StatusHealthy is reported while the server accepts requests.
const StatusHealthy = "healthy"

// CheckResponse represents the response structure for health checks.
type CheckResponse struct {
	Status string `json:"status"`
}

// NewHandler creates a new HTTP handler for health checks. The check never
// touches a remote service.
func NewHandler() (string, http.Handler) {
	check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		resp, err := json.Marshal(CheckResponse{Status: StatusHealthy})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(resp)
		}
	})
	return Path, check
}
