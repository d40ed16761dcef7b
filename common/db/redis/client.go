/*******************************************************************************
 * Copyright 2018 Redis Labs Inc.
 * (c) Copyright 2020-2025 BMC Software, Inc.
 *
 * Contributors: BMC Software, Inc. - BMC Helix Edge
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License
 * is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
 * or implied. See the License for the specific language governing permissions and limitations under
 * the License.
 *******************************************************************************/
package redis

import (
	"fmt"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/redigo"
	"github.com/gomodule/redigo/redis"

	"foresight/common/db"
	foresightErrors "foresight/common/errors"
)

var currClient *DBClient // a singleton so callers share one pool
var once sync.Once

// DBClient represents a Redis client
type DBClient struct {
	Pool      *redis.Pool // A thread-safe pool of connections to Redis
	Logger    logger.LoggingClient
	RedisSync *redsync.Redsync
}

// Return a pointer to the Redis client
func NewDBClient(dbConfig *db.DatabaseConfig, lc logger.LoggingClient) *DBClient {
	once.Do(func() {
		connectionString := fmt.Sprintf("%s:%s", dbConfig.RedisHost, dbConfig.RedisPort)
		opts := []redis.DialOption{
			redis.DialConnectTimeout(time.Duration(9000) * time.Millisecond),
		}
		if dbConfig.RedisPassword != "" {
			opts = append(opts, redis.DialPassword(dbConfig.RedisPassword))
		}

		dialFunc := func() (redis.Conn, error) {
			conn, err := redis.Dial(
				"tcp", connectionString, opts...,
			)
			if err != nil {
				return nil, fmt.Errorf("could not dial Redis: %s", err)
			}
			return conn, nil
		}

		pool := &redis.Pool{
			IdleTimeout: 0,
			MaxIdle:     10,
			Dial:        dialFunc,
		}

		redsyncInstance := redsync.New(redigo.NewPool(pool))
		currClient = &DBClient{
			Pool:      pool,
			Logger:    lc,
			RedisSync: redsyncInstance,
		}
	})

	return currClient
}

// Do: Run a REDIS command
func (c *DBClient) Do(command string, args ...interface{}) (interface{}, error) {
	conn := c.Pool.Get()
	defer conn.Close()

	return conn.Do(command, args...)
}

// CloseSession closes the connections to Redis
func (c *DBClient) CloseSession() {
	_ = c.Pool.Close()
	currClient = nil
	once = sync.Once{}
}

func (c *DBClient) AcquireRedisLock(lockName string) (*redsync.Mutex, foresightErrors.ForesightError) {
	mutex := c.RedisSync.NewMutex(lockName, redsync.WithExpiry(5*time.Second))

	// Retry logic for acquiring the lock
	for retries := 0; retries < 5; retries++ {
		if err := mutex.Lock(); err != nil {
			if retries == 4 {
				c.Logger.Errorf("Failed to acquire lock %s in Redis after multiple attempts: %v", lockName, err)
				return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError, "Failed to acquire lock in Redis after multiple attempts")
			}
			time.Sleep(1 * time.Second) // wait and retry
			continue
		}
		return mutex, nil
	}

	return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError, "Failed to acquire lock in Redis")
}
