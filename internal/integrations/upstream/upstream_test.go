package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecohubs/internal/integrations"
)

func TestSubmitApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/applications", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane", body["fullName"])
		assert.Equal(t, "2026-01-02T03:04:05Z", body["submittedAt"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", "k", srv.Client())
	require.NoError(t, err)
	err = c.SubmitApplication(context.Background(), map[string]any{"fullName": "Jane"},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
}

func TestSubmitApplicationRelaysStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"An application with this email already exists"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "k", srv.Client())
	require.NoError(t, err)
	err = c.SubmitApplication(context.Background(), nil, time.Now())
	require.Error(t, err)

	ie, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, ie.StatusCode)
	assert.Equal(t, "An application with this email already exists", ie.Message)
}
