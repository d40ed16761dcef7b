/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package client

// Constants related to how services identify themselves in the Service Registry
const (
	ServiceKeyForesightPrefix = "app-foresight-"

	// ServiceNames
	ForesightMLPredictionServiceName = "foresight-ml-prediction"

	// ServiceKeys - the service key should start with app- for app services
	ForesightMLPredictionServiceKey = "app-foresight-ml-prediction"
)
