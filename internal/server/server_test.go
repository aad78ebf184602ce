package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/internal/logger"
)

func testConfig(addr string) config.Server {
	return config.Server{
		Address:         addr,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func pong() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
}

func TestNewServer_NilHandler(t *testing.T) {
	_, err := NewServer(nil, testConfig("127.0.0.1:0"), logger.Nop())

	assert.ErrorIs(t, err, errNoHandler)
}

func TestRunServer_ServesUntilCancelled(t *testing.T) {
	srv, err := NewServer(pong(), testConfig("127.0.0.1:0"), logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunServer(ctx) }()

	select {
	case <-srv.Ready():
	case err = <-done:
		t.Fatalf("server stopped before listening: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + srv.Addr() + "/")
	assert.Error(t, err)
}

func TestRunServer_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv, err := NewServer(pong(), testConfig(ln.Addr().String()), logger.Nop())
	require.NoError(t, err)

	err = srv.RunServer(context.Background())

	assert.ErrorIs(t, err, ErrListen)
	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready stayed open after a failed bind")
	}
	assert.Empty(t, srv.Addr())
}
