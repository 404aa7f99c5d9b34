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

// Package errors provides status-coded errors shared by the Coda client,
// the sync procedure, the speech service and the HTTP layer.
package errors

import (
	"fmt"
	"net/http"
)

// StatusCode classifies an error by the kind of failure it represents.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller sent something the
	// remote side or a local validator rejected.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound indicates that a document, table or row does not exist.
	ErrCodeNotFound StatusCode = 5

	// ErrCodePermissionDenied indicates that the credential is valid but may
	// not access the resource.
	ErrCodePermissionDenied StatusCode = 7

	// ErrCodeResourceExhausted indicates rate limiting by the remote service.
	ErrCodeResourceExhausted StatusCode = 8

	// ErrCodeFailedPrecondition indicates that the system is not configured
	// for the operation, e.g. a speech provider without credentials.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeAborted indicates that the operation conflicted with one already
	// in progress, e.g. a sync that could not start in time.
	ErrCodeAborted StatusCode = 10

	// ErrCodeInternal indicates a broken invariant.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates a temporary failure: timeouts, connection
	// resets and 5xx responses.
	ErrCodeUnavailable StatusCode = 14

	// ErrCodeUnauthenticated indicates a missing or rejected credential.
	ErrCodeUnauthenticated StatusCode = 16
)

// String returns the snake_case name of the code.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodePermissionDenied:
		return "permission_denied"
	case ErrCodeResourceExhausted:
		return "resource_exhausted"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeAborted:
		return "aborted"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	case ErrCodeUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// IsTransient returns true if an operation failing with this code may
// succeed when retried later.
func (c StatusCode) IsTransient() bool {
	return c == ErrCodeUnavailable || c == ErrCodeResourceExhausted
}

// HTTPStatus maps the code to the status used by the HTTP API.
func (c StatusCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeResourceExhausted:
		return http.StatusTooManyRequests
	case ErrCodeFailedPrecondition:
		return http.StatusServiceUnavailable
	case ErrCodeAborted:
		return http.StatusConflict
	case ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTPStatus classifies a response status returned by a remote API.
func FromHTTPStatus(status int) StatusCode {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrCodeResourceExhausted
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthenticated
	case status == http.StatusForbidden:
		return ErrCodePermissionDenied
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusRequestTimeout:
		return ErrCodeUnavailable
	case status >= 500:
		return ErrCodeUnavailable
	case status >= 400:
		return ErrCodeInvalidArgument
	default:
		return ErrCodeInternal
	}
}
