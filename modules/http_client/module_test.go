package http_client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_UsesParams(t *testing.T) {
	t.Parallel()

	m := New()
	p := &Params{}
	require.NoError(t, p.SetDefaults())
	p.Timeout = "5s"

	client, err := m.Client(p)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, client.Timeout)

	again, err := m.Client(nil)
	require.NoError(t, err)
	require.Same(t, client, again, "the client is shared")
}

func TestClient_InvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := New().Client(&Params{Timeout: "soon", IdleConnTimeout: "1s"})
	require.ErrorContains(t, err, "invalid timeout")
}

func TestGet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, "short and stout")
	}))
	t.Cleanup(srv.Close)

	m := New()
	t.Cleanup(m.Close)

	resp, err := m.Get(context.Background(), nil, srv.URL)

	require.NoError(t, err)
	require.Equal(t, &Response{StatusCode: http.StatusTeapot, Body: "short and stout"}, resp)
}
