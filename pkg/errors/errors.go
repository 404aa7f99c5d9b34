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

package errors

import (
	"errors"
)

// StatusError is an error that carries a StatusCode.
type StatusError interface {
	error
	Status() StatusCode
}

type errorWithStatus struct {
	err    error
	status StatusCode
}

func (e errorWithStatus) Error() string {
	return e.err.Error()
}

func (e errorWithStatus) Status() StatusCode {
	return e.status
}

func (e errorWithStatus) Unwrap() error {
	return e.err
}

// WithStatus attaches the given status to err. The message of err is kept
// as is so that callers printing the error see the original text.
func WithStatus(err error, status StatusCode) StatusError {
	return errorWithStatus{err: err, status: status}
}

// NotFound creates a new "not found" error.
func NotFound(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeNotFound)
}

// InvalidArgument creates a new "invalid argument" error.
func InvalidArgument(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeInvalidArgument)
}

// FailedPrecond creates a new "failed precondition" error.
func FailedPrecond(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeFailedPrecondition)
}

// Unauthenticated creates a new "unauthenticated" error.
func Unauthenticated(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeUnauthenticated)
}

// Unavailable creates a new "unavailable" error.
func Unavailable(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeUnavailable)
}

// Internal creates a new "internal" error.
func Internal(message string) StatusError {
	return WithStatus(errors.New(message), ErrCodeInternal)
}

// StatusOf returns the status of the first StatusError in the chain of err,
// or 0 if there is none.
func StatusOf(err error) StatusCode {
	if err == nil {
		return 0
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}

	return 0
}

// IsStatus checks if the given error has the specified status.
func IsStatus(err error, code StatusCode) bool {
	return StatusOf(err) == code
}

// IsTransient reports whether err is classified as temporary.
func IsTransient(err error) bool {
	return StatusOf(err).IsTransient()
}
