/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package service

import "net/http"

// DataStoreProvider abstracts the metric store endpoint so managed
// providers can plug in authentication without touching the callers.
type DataStoreProvider interface {
	GetDataURL() string
	SetAuthHeader(req *http.Request)
}

// DataStoreProvider default implementation that reads the local metric store
type DefaultDataStoreProvider struct {
	localDataStoreUrl string
}

func NewDefaultDataStoreProvider(localDataStoreUrl string) *DefaultDataStoreProvider {
	defaultDataStoreProvider := new(DefaultDataStoreProvider)
	defaultDataStoreProvider.localDataStoreUrl = localDataStoreUrl
	return defaultDataStoreProvider
}

func (ds *DefaultDataStoreProvider) GetDataURL() string {
	return ds.localDataStoreUrl
}

func (ds *DefaultDataStoreProvider) SetAuthHeader(req *http.Request) {
	// Do nothing
}
