package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLookup(t *testing.T) {
	var gotPath, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"8.8.8.8","city":"Mountain View","region":"California","country":"US","org":"AS15169 Google LLC"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, zap.NewNop())
	info, err := client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	assert.Equal(t, "/8.8.8.8", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "Mountain View", info.City)
	assert.Equal(t, "California", info.Region)
	assert.Equal(t, "US", info.Country)
	assert.Equal(t, "AS15169 Google LLC", info.ISP)
}

func TestLookupWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("token"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second, zap.NewNop())
	_, err := client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
}

func TestLookupNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, zap.NewNop())
	_, err := client.Lookup(context.Background(), "8.8.8.8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestLookupMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, zap.NewNop())
	_, err := client.Lookup(context.Background(), "8.8.8.8")
	require.Error(t, err)
}
