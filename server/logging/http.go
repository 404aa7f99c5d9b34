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

package logging

import (
	"context"
	"errors"
	"net/http"

	solverrors "github.com/solv-team/solv/pkg/errors"
)

// Level is the severity used when logging a handled request or a failed
// remote call.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	}
	return "warn"
}

// LevelOf picks the severity for a response status and the error that
// produced it, if any.
func LevelOf(status int, err error) Level {
	if errors.Is(err, context.Canceled) {
		return LevelDebug
	}

	switch solverrors.StatusOf(err) {
	case solverrors.ErrCodeInvalidArgument, solverrors.ErrCodeNotFound:
		return LevelInfo
	case solverrors.ErrCodeUnauthenticated, solverrors.ErrCodePermissionDenied,
		solverrors.ErrCodeFailedPrecondition, solverrors.ErrCodeResourceExhausted:
		return LevelWarn
	case solverrors.ErrCodeInternal, solverrors.ErrCodeUnavailable:
		return LevelError
	}

	switch {
	case status >= http.StatusInternalServerError:
		return LevelError
	case status >= http.StatusBadRequest:
		return LevelWarn
	case err != nil:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// Log writes msg with keysAndValues at the given level.
func Log(logger Logger, level Level, msg string, keysAndValues ...interface{}) {
	switch level {
	case LevelDebug:
		logger.Debugw(msg, keysAndValues...)
	case LevelInfo:
		logger.Infow(msg, keysAndValues...)
	case LevelWarn:
		logger.Warnw(msg, keysAndValues...)
	default:
		logger.Errorw(msg, keysAndValues...)
	}
}
