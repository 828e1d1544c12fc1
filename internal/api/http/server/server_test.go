package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type securityLayerStub struct {
	listener net.Listener
}

func (s securityLayerStub) Listen(protocol, addr string) (net.Listener, error) {
	return s.listener, nil
}

type securityLayerErrStub struct{ err error }

func (s securityLayerErrStub) Listen(protocol, addr string) (net.Listener, error) {
	return nil, s.err
}

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_Stop(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":0")
	err := s.Stop(context.Background())
	assert.NoError(t, err)
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	t.Parallel()

	s := NewHTTPServer(http.NewServeMux(), ":0")
	err := s.Start(securityLayerErrStub{err: assert.AnError})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestHTTPServer_Start_ServesAndStops(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHTTPServer(mux, ln.Addr().String())

	done := make(chan error, 1)
	go func() { done <- srv.Start(securityLayerStub{listener: ln}) }()

	client := http.Client{Timeout: time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + ln.Addr().String() + "/ping")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))

	// Serve returns ErrServerClosed after Shutdown, which Start
	// swallows as a clean exit.
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
