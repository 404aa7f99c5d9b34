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

package rostersync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := newConfig()
		assert.NoError(t, validConf.Validate())

		conf1 := *validConf
		conf1.RunTimeout = "hour"
		assert.Error(t, conf1.Validate())

		conf2 := *validConf
		conf2.Retry.BaseDelay = ""
		assert.Error(t, conf2.Validate())

		conf3 := *validConf
		conf3.Retry.Mode = "sometimes"
		assert.Error(t, conf3.Validate())

		conf4 := *validConf
		conf4.Columns.Count = ""
		assert.Error(t, conf4.Validate())

		conf5 := *validConf
		conf5.TableID = "grid with spaces"
		assert.Error(t, conf5.Validate())

		conf6 := *validConf
		conf6.Concurrency = 0
		assert.Error(t, conf6.Validate())

		conf7 := *validConf
		conf7.Retry.MaxAttempts = 0
		assert.Error(t, conf7.Validate())

		conf8 := *validConf
		conf8.RunTimeout = "-1s"
		assert.Error(t, conf8.Validate())

		conf9 := *validConf
		conf9.WaitTimeout = ""
		assert.Error(t, conf9.Validate())

		conf10 := *validConf
		conf10.WaitTimeout = "0s"
		assert.Error(t, conf10.Validate())
	})

	t.Run("wait timeout test", func(t *testing.T) {
		conf := newConfig()
		conf.WaitTimeout = "45s"
		timeout, err := conf.ParseWaitTimeout()
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, timeout)
	})

	t.Run("retry policy test", func(t *testing.T) {
		conf := newConfig()
		conf.Retry.BaseDelay = "2s"
		policy, err := conf.RetryPolicy()
		require.NoError(t, err)
		assert.Equal(t, 3, policy.MaxAttempts)
		assert.Equal(t, 2*time.Second, policy.BaseDelay)
		assert.NotNil(t, policy.ShouldRetry)
	})
}
