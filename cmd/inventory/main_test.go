package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinilab/antibiogram-stock/internal/inventory"
	httpDelivery "github.com/clinilab/antibiogram-stock/internal/inventory/delivery/http"
)

func TestHTTPServer_GracefulShutdown(t *testing.T) {
	handler, err := inventory.InitializeHTTPHandler(nil)
	require.NoError(t, err)

	srv := newHTTPServer(handler, httpDelivery.DefaultMiddlewareConfig(), nil, "0")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	// The server must answer before shutdown is requested
	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	// Serve returns ErrServerClosed on a clean shutdown, anything else is a failure
	select {
	case err := <-served:
		assert.True(t, errors.Is(err, http.ErrServerClosed))
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after Shutdown")
	}
}
