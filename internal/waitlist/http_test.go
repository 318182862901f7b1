// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package waitlist_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/internal/waitlist"
)

func postJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Join verifies the signup acknowledgement, the webhook forward,
and that a dead webhook never fails the signup.
*/
func TestHandler_Join(t *testing.T) {
	t.Run("forwards signup to webhook", func(t *testing.T) {
		received := make(chan map[string]any, 1)
		webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var payload map[string]any
			_ = json.Unmarshal(body, &payload)
			received <- payload
			w.WriteHeader(http.StatusOK)
		}))
		defer webhook.Close()

		handler := waitlist.NewHandler(webhook.URL)
		recorder := postJSON(t, handler.Routes(), `{"email": "jane@example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		payload := <-received
		assert.Equal(t, "jane@example.com", payload["email"])
		assert.Equal(t, "landing", payload["source"])
		assert.NotEmpty(t, payload["timestamp"])
	})

	t.Run("succeeds without a configured webhook", func(t *testing.T) {
		handler := waitlist.NewHandler("")
		recorder := postJSON(t, handler.Routes(), `{"email": "jane@example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Success bool `json:"success"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
	})

	t.Run("succeeds when the webhook is down", func(t *testing.T) {
		webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		webhook.Close()

		handler := waitlist.NewHandler(webhook.URL)
		recorder := postJSON(t, handler.Routes(), `{"email": "jane@example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		handler := waitlist.NewHandler("")

		for _, body := range []string{`{"email": ""}`, `{"email": "not-an-email"}`, `{}`} {
			recorder := postJSON(t, handler.Routes(), body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code, "body: %s", body)
		}
	})
}
