package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/pkg/logger"
)

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).WithRetry(3, time.Millisecond)

	var payload struct {
		OK bool `json:"ok"`
	}
	err := client.GetJSON(context.Background(), server.URL, &payload)

	require.NoError(t, err)
	assert.True(t, payload.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetJSON_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).WithRetry(3, time.Millisecond)

	err := client.GetJSON(context.Background(), server.URL, &struct{}{})

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).DisableRetry().WithUserAgent("scanner-test/1.0")

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "scanner-test/1.0", gotUA)
}

func TestGetJSON_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).DisableRetry()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.GetJSON(ctx, server.URL, &struct{}{})
	assert.Error(t, err)
}
