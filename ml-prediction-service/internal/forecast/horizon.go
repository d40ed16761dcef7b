/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forecast

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/spf13/cast"

	foresightErrors "foresight/common/errors"
)

// A horizon is a positive integer followed by a unit: d(ays), h(ours) or
// m(onths). "7d", "24h", "3m".
var horizonPattern = regexp.MustCompile(`^(\d+)([dhm])$`)

type Horizon struct {
	Count int
	Unit  string
}

func ParseHorizon(raw string) (Horizon, foresightErrors.ForesightError) {
	match := horizonPattern.FindStringSubmatch(raw)
	if match == nil {
		return Horizon{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeInvalidHorizon,
			fmt.Sprintf("invalid horizon %q, expected <count><d|h|m>", raw))
	}
	count, err := cast.ToIntE(match[1])
	if err != nil || count <= 0 {
		return Horizon{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeInvalidHorizon,
			fmt.Sprintf("invalid horizon count in %q", raw))
	}
	return Horizon{Count: count, Unit: match[2]}, nil
}

// Steps converts the horizon into the number of daily forecast steps a
// timeseries model walks: days as given, hours and months rounded up to
// whole days.
func (h Horizon) Steps() int {
	switch h.Unit {
	case "h":
		return int(math.Ceil(float64(h.Count) / 24))
	case "m":
		return int(math.Ceil(float64(h.Count) / 30))
	default:
		return h.Count
	}
}

// Duration is the wall-clock span of the horizon, with months counted as
// 30 days.
func (h Horizon) Duration() time.Duration {
	switch h.Unit {
	case "h":
		return time.Duration(h.Count) * time.Hour
	case "m":
		return time.Duration(h.Count) * 30 * 24 * time.Hour
	default:
		return time.Duration(h.Count) * 24 * time.Hour
	}
}

func (h Horizon) String() string {
	return fmt.Sprintf("%d%s", h.Count, h.Unit)
}
