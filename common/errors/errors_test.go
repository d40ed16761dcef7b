/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	"net/http"
	"reflect"
	"testing"
)

func TestForesightError_Error(t *testing.T) {
	type fields struct {
		errorType ErrorType
		message   string
	}
	tests := []struct {
		name   string
		fields fields
		want   string
	}{
		{
			name: "errorType and message is filled out", fields: fields{errorType: ErrorTypeConflict, message: "error message"}, want: "error message",
		},
		{
			name: "message is empty", fields: fields{errorType: ErrorTypeConflict, message: ""}, want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := CommonForesightError{
				errorType: tt.fields.errorType,
				message:   tt.fields.message,
			}
			if got := f.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewForesightError(t *testing.T) {
	type args struct {
		errorType ErrorType
		message   string
	}
	tests := []struct {
		name string
		args args
		want CommonForesightError
	}{
		{
			name: "error type and message are filled out",
			args: args{errorType: ErrorTypeNotFound, message: "model not found"},
			want: CommonForesightError{errorType: ErrorTypeNotFound, message: "model not found"},
		},
		{
			name: "message is empty",
			args: args{errorType: ErrorTypeConflict, message: ""},
			want: CommonForesightError{errorType: ErrorTypeConflict, message: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCommonForesightError(tt.args.errorType, tt.args.message); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewCommonForesightError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForesightError_ConvertToHTTPError(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		wantCode  int
	}{
		{name: "not found maps to 404", errorType: ErrorTypeNotFound, wantCode: http.StatusNotFound},
		{name: "config maps to 400", errorType: ErrorTypeConfig, wantCode: http.StatusBadRequest},
		{name: "invalid horizon maps to 400", errorType: ErrorTypeInvalidHorizon, wantCode: http.StatusBadRequest},
		{name: "unsupported metric maps to 400", errorType: ErrorTypeUnsupportedMetric, wantCode: http.StatusBadRequest},
		{name: "insufficient data maps to 422", errorType: ErrorTypeInsufficientData, wantCode: http.StatusUnprocessableEntity},
		{name: "training failed maps to 424", errorType: ErrorTypeTrainingFailed, wantCode: http.StatusFailedDependency},
		{name: "db error maps to 500", errorType: ErrorTypeDBError, wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := NewCommonForesightError(tt.errorType, "msg").ConvertToHTTPError()
			if httpErr.Code != tt.wantCode {
				t.Errorf("ConvertToHTTPError() code = %v, want %v", httpErr.Code, tt.wantCode)
			}
		})
	}
}
