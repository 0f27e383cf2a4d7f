// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCheckHTTPMethod_UnsupportedMethodIs404 verifies that hitting a known
// route with an unsupported HTTP method yields 404 rather than chi's default
// 405, so the route's existence is not revealed.
func TestCheckHTTPMethod_UnsupportedMethodIs404(t *testing.T) {
	h := newTestHandler(t, &mockAccountService{}, &mockAuthService{})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"GET on register", http.MethodGet, "/Account/Register"},
		{"POST on confirm", http.MethodPost, "/Account/ConfirmEmail"},
		{"DELETE on login", http.MethodDelete, "/Account/Login"},
		{"PUT on version", http.MethodPut, "/api/version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := doRequest(t, h, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestCheckHTTPMethod_UnknownRouteIs404(t *testing.T) {
	h := newTestHandler(t, &mockAccountService{}, &mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := doRequest(t, h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
