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
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code      StatusCode
		name      string
		transient bool
		http      int
	}{
		{ErrCodeInvalidArgument, "invalid_argument", false, http.StatusBadRequest},
		{ErrCodeNotFound, "not_found", false, http.StatusNotFound},
		{ErrCodePermissionDenied, "permission_denied", false, http.StatusForbidden},
		{ErrCodeResourceExhausted, "resource_exhausted", true, http.StatusTooManyRequests},
		{ErrCodeFailedPrecondition, "failed_precondition", false, http.StatusServiceUnavailable},
		{ErrCodeAborted, "aborted", false, http.StatusConflict},
		{ErrCodeInternal, "internal", false, http.StatusInternalServerError},
		{ErrCodeUnavailable, "unavailable", true, http.StatusBadGateway},
		{ErrCodeUnauthenticated, "unauthenticated", false, http.StatusUnauthorized},
		{StatusCode(999), "code_999", false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())
			assert.Equal(t, tt.transient, tt.code.IsTransient())
			assert.Equal(t, tt.http, tt.code.HTTPStatus())
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	assert.Equal(t, ErrCodeUnavailable, FromHTTPStatus(http.StatusInternalServerError))
	assert.Equal(t, ErrCodeUnavailable, FromHTTPStatus(http.StatusGatewayTimeout))
	assert.Equal(t, ErrCodeUnavailable, FromHTTPStatus(http.StatusRequestTimeout))
	assert.Equal(t, ErrCodeResourceExhausted, FromHTTPStatus(http.StatusTooManyRequests))
	assert.Equal(t, ErrCodeUnauthenticated, FromHTTPStatus(http.StatusUnauthorized))
	assert.Equal(t, ErrCodePermissionDenied, FromHTTPStatus(http.StatusForbidden))
	assert.Equal(t, ErrCodeNotFound, FromHTTPStatus(http.StatusNotFound))
	assert.Equal(t, ErrCodeInvalidArgument, FromHTTPStatus(http.StatusConflict))
}

func TestStatusOf(t *testing.T) {
	t.Run("status error test", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, StatusOf(NotFound("row not found")))
	})

	t.Run("wrapped status error test", func(t *testing.T) {
		wrapped := fmt.Errorf("list rows: %w", Unavailable("connection reset"))
		assert.Equal(t, ErrCodeUnavailable, StatusOf(wrapped))
		assert.True(t, IsTransient(wrapped))
	})

	t.Run("standard error test", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(errors.New("plain")))
		assert.False(t, IsTransient(errors.New("plain")))
	})

	t.Run("nil error test", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(nil))
		assert.False(t, IsStatus(nil, ErrCodeNotFound))
	})
}

func TestWithStatus(t *testing.T) {
	base := errors.New("coda: 503 service unavailable")
	err := WithStatus(base, ErrCodeUnavailable)

	assert.Equal(t, base.Error(), err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsStatus(err, ErrCodeUnavailable))
	assert.True(t, IsStatus(Unauthenticated("no token"), ErrCodeUnauthenticated))
	assert.True(t, IsStatus(FailedPrecond("not configured"), ErrCodeFailedPrecondition))
	assert.True(t, IsStatus(InvalidArgument("bad"), ErrCodeInvalidArgument))
	assert.True(t, IsStatus(Internal("broken"), ErrCodeInternal))
}
