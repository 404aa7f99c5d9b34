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

package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solv-team/solv/pkg/cache"
)

func TestExpireCache(t *testing.T) {
	t.Run("invalid size test", func(t *testing.T) {
		_, err := cache.NewExpireCache[string, int](0, time.Minute, "voices")
		assert.Error(t, err)
	})

	t.Run("get and stats test", func(t *testing.T) {
		c, err := cache.NewExpireCache[string, int](2, time.Minute, "voices")
		require.NoError(t, err)
		assert.Equal(t, "voices", c.Name())

		_, ok := c.Get("a")
		assert.False(t, ok)

		c.Add("a", 1)
		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		assert.Equal(t, int64(1), c.Stats().Hits())
		assert.Equal(t, int64(1), c.Stats().Misses())
		assert.Equal(t, 50.0, c.Stats().HitRate())
	})

	t.Run("evict oldest test", func(t *testing.T) {
		c, err := cache.NewExpireCache[string, int](2, time.Minute, "voices")
		require.NoError(t, err)

		c.Add("a", 1)
		c.Add("b", 2)
		c.Add("c", 3)
		assert.Equal(t, 2, c.Len())

		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("expire test", func(t *testing.T) {
		c, err := cache.NewExpireCache[string, int](2, 20*time.Millisecond, "voices")
		require.NoError(t, err)

		c.Add("a", 1)
		assert.Eventually(t, func() bool {
			_, ok := c.Get("a")
			return !ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("get or load test", func(t *testing.T) {
		c, err := cache.NewExpireCache[string, []string](1, time.Minute, "voices")
		require.NoError(t, err)

		loads := 0
		load := func() ([]string, error) {
			loads++
			return []string{"rachel"}, nil
		}

		v, err := c.GetOrLoad("en", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"rachel"}, v)

		_, err = c.GetOrLoad("en", load)
		require.NoError(t, err)
		assert.Equal(t, 1, loads)

		_, err = c.GetOrLoad("fr", func() ([]string, error) {
			return nil, errors.New("voices unavailable")
		})
		assert.Error(t, err)
		_, ok := c.Get("fr")
		assert.False(t, ok)
	})
}
