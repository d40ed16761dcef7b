/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound          ErrorType = "NotFound"
	ErrorTypeServerError       ErrorType = "ServerError"
	ErrorTypeDBError           ErrorType = "DBError"
	ErrorTypeConflict          ErrorType = "Conflict"
	ErrorTypeBadRequest        ErrorType = "BadRequest"
	ErrorTypeMandatory         ErrorType = "Mandatory"
	ErrorTypeUnknown           ErrorType = "Unknown"
	ErrorTypeConfig            ErrorType = "ConfigurationError"
	ErrorTypeUnsupportedMetric ErrorType = "UnsupportedMetricError"
	ErrorTypeInvalidHorizon    ErrorType = "InvalidHorizonError"
	ErrorTypeInsufficientData  ErrorType = "InsufficientDataError"
	ErrorTypeTrainingFailed    ErrorType = "TrainingFailedError"
)

type CommonForesightError struct {
	errorType ErrorType
	message   string
}

type ForesightError interface {
	ErrorType() ErrorType
	Message() string
	IsErrorType(errorType ErrorType) bool
	Error() string
	ConvertToHTTPError() *echo.HTTPError
}

func (f CommonForesightError) ErrorType() ErrorType {
	return f.errorType
}

func (f CommonForesightError) Message() string {
	return f.message
}

func (f CommonForesightError) Error() string {
	return f.message
}

func (f CommonForesightError) IsErrorType(errorType ErrorType) bool {
	return errorType == f.errorType
}

func (f CommonForesightError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(f.ErrorType()), f.Message())
}

func NewCommonForesightError(errorType ErrorType, message string) CommonForesightError {
	return CommonForesightError{errorType, message}
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeServerError:
		return http.StatusInternalServerError
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeBadRequest, ErrorTypeConfig, ErrorTypeUnsupportedMetric, ErrorTypeInvalidHorizon, ErrorTypeMandatory:
		return http.StatusBadRequest
	case ErrorTypeInsufficientData:
		return http.StatusUnprocessableEntity
	case ErrorTypeTrainingFailed:
		return http.StatusFailedDependency
	case ErrorTypeDBError, ErrorTypeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
