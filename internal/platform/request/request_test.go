// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	requestutil "github.com/linkgrove/linkgrove/internal/platform/request"
)

/*
TestClientIP verifies the proxy-header precedence and that only the first
X-Forwarded-For entry identifies the client, so the rate-limit key does not
change with proxy-chain length.
*/
func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		realIP       string
		forwardedFor string
		expected     string
	}{
		{"x-real-ip wins", "203.0.113.7", "198.51.100.1, 10.0.0.1", "203.0.113.7"},
		{"single forwarded entry", "", "198.51.100.1", "198.51.100.1"},
		{"forwarded chain keeps first hop only", "", "198.51.100.1, 10.0.0.1, 172.16.0.9", "198.51.100.1"},
		{"forwarded chain with padding", "", " 198.51.100.1 ,10.0.0.1", "198.51.100.1"},
		{"no proxy headers", "", "", "192.0.2.1:1234"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.realIP != "" {
				request.Header.Set("X-Real-IP", test.realIP)
			}
			if test.forwardedFor != "" {
				request.Header.Set("X-Forwarded-For", test.forwardedFor)
			}

			assert.Equal(t, test.expected, requestutil.ClientIP(request))
		})
	}
}
