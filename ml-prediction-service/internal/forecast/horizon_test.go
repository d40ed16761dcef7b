/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foresightErrors "foresight/common/errors"
)

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		raw   string
		count int
		unit  string
	}{
		{"7d", 7, "d"},
		{"24h", 24, "h"},
		{"3m", 3, "m"},
		{"1d", 1, "d"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			horizon, err := ParseHorizon(tt.raw)
			require.Nil(t, err)
			assert.Equal(t, tt.count, horizon.Count)
			assert.Equal(t, tt.unit, horizon.Unit)
		})
	}
}

func TestParseHorizon_Invalid(t *testing.T) {
	for _, raw := range []string{"7", "d7", "-1d", "", "7w", "0d", "1.5d"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseHorizon(raw)
			require.NotNil(t, err)
			assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeInvalidHorizon))
		})
	}
}

func TestHorizonSteps(t *testing.T) {
	tests := []struct {
		raw   string
		steps int
	}{
		{"7d", 7},
		{"24h", 1},
		{"36h", 2},
		{"1h", 1},
		{"3m", 1},
		{"45m", 2},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			horizon, err := ParseHorizon(tt.raw)
			require.Nil(t, err)
			assert.Equal(t, tt.steps, horizon.Steps())
		})
	}
}

func TestHorizonDuration(t *testing.T) {
	horizon, err := ParseHorizon("2d")
	require.Nil(t, err)
	assert.Equal(t, 48*time.Hour, horizon.Duration())

	horizon, err = ParseHorizon("6h")
	require.Nil(t, err)
	assert.Equal(t, 6*time.Hour, horizon.Duration())

	horizon, err = ParseHorizon("1m")
	require.Nil(t, err)
	assert.Equal(t, 30*24*time.Hour, horizon.Duration())
}

func TestHorizonString(t *testing.T) {
	horizon, err := ParseHorizon("12h")
	require.Nil(t, err)
	assert.Equal(t, "12h", horizon.String())
}
