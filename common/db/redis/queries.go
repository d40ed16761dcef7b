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
	"encoding/json"

	"github.com/gomodule/redigo/redis"

	db2 "foresight/common/db"
)

func GetObjectById(conn redis.Conn, id string, out interface{}) error {
	object, err := redis.Bytes(conn.Do("GET", id))
	if err == redis.ErrNil {
		return db2.ErrNotFound
	} else if err != nil {
		return err
	}

	return json.Unmarshal(object, out)
}

func GetObjectsByValue(conn redis.Conn, v string) ([][]byte, error) {
	ids, err := redis.Values(conn.Do("SMEMBERS", v))
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	objects, err := redis.ByteSlices(conn.Do("MGET", ids...))
	if err != nil {
		return nil, err
	}

	return objects, nil
}
