package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	res, err := New("secret", srv.Client()).WithURL(srv.URL).Verify(context.Background(), "tok", "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestVerifyRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	res, err := New("secret", srv.Client()).WithURL(srv.URL).Verify(context.Background(), "bad", "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"invalid-input-response"}, res.ErrorCodes)
}

func TestVerifyNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := New("secret", http.DefaultClient).WithURL(url).Verify(context.Background(), "tok", "")
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"network-error"}, res.ErrorCodes)
}

func TestEnabled(t *testing.T) {
	assert.False(t, New("", http.DefaultClient).Enabled())
	assert.True(t, New("s", http.DefaultClient).Enabled())
	var v *Verifier
	assert.False(t, v.Enabled())
}
