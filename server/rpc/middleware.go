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

package rpc

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/xid"

	"github.com/solv-team/solv/server/logging"
)

// statusRecorder captures the status and size of a response, and the error
// a handler failed with.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
	err     error
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

// withRecovery turns a panic of next into a 500 response.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logging.From(r.Context()).Errorw(
					"panic recovered",
					"error", fmt.Sprint(p),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// withLogging attaches a request logger to the context, then logs the
// request and counts it once handled.
func (s *Server) withLogging(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.New(xid.New().String())
		ctx := logging.With(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		keysAndValues := []interface{}{
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"bytes", rec.written,
			"duration", time.Since(start).String(),
		}
		if rec.err != nil {
			keysAndValues = append(keysAndValues, "error", rec.err.Error())
		}
		logging.Log(logger, logging.LevelOf(rec.status, rec.err), "HTTP request", keysAndValues...)
		s.metrics.AddServerHandledCounter(r.Method, route, rec.status)
	})
}
