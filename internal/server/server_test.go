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
	"go.uber.org/zap/zaptest"
)

func TestServer_Serve_CancelsActiveRequests(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		http.NewResponseController(w).Flush()
		close(started)
		<-r.Context().Done()
		close(cancelled)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(ln.Addr().String(), handler, zaptest.NewLogger(t))
	hookCalled := false
	srv.OnShutdown(func() { hookCalled = true })

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("запрос не дошел до обработчика")
	}

	cancel()

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("контекст запроса не был отменен")
	}

	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("сервер не остановился")
	}
	assert.True(t, hookCalled)
}

func TestServer_Run_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := New(ln.Addr().String(), http.NotFoundHandler(), zaptest.NewLogger(t))
	err = srv.Run(context.Background())
	assert.Error(t, err)
}
