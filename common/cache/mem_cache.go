/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a key -> string store with per-entry TTL. Engines memoize
// forecast and rule results through this interface so that an external
// store can replace the in-memory default.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
	Delete(key string)
}

type MemCache struct {
	store *cache.Cache
}

func NewMemCache(defaultTTL time.Duration) *MemCache {
	mc := new(MemCache)
	mc.store = cache.New(defaultTTL, defaultTTL+time.Minute)
	return mc
}

func (mc *MemCache) Get(key string) (string, bool) {
	value, found := mc.store.Get(key)
	if !found {
		return "", false
	}
	valueStr, ok := value.(string)
	if !ok {
		return "", false
	}
	return valueStr, true
}

func (mc *MemCache) Set(key string, value string, ttl time.Duration) {
	mc.store.Set(key, value, ttl)
}

func (mc *MemCache) Delete(key string) {
	mc.store.Delete(key)
}
