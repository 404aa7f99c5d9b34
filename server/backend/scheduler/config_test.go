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

package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solv-team/solv/server/backend/scheduler"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := scheduler.Config{Interval: "1m"}
		assert.NoError(t, validConf.Validate())

		interval, err := validConf.ParseInterval()
		assert.NoError(t, err)
		assert.Equal(t, time.Minute, interval)

		conf1 := validConf
		conf1.Interval = "hour"
		assert.Error(t, conf1.Validate())

		conf2 := validConf
		conf2.Interval = "0s"
		assert.Error(t, conf2.Validate())

		conf3 := validConf
		conf3.Interval = ""
		conf3.Disabled = true
		assert.NoError(t, conf3.Validate())
	})
}
