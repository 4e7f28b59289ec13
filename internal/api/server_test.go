package api

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/pkg/config"
	"github.com/wonny/kscanner/pkg/logger"
)

func TestServer_ShutdownBeforeStart(t *testing.T) {
	s := New(&config.Config{Port: "0", Env: "development"}, logger.NewNop(), http.NotFoundHandler())
	assert.Equal(t, ":0", s.Addr())

	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.Start(), "a closed server is not a start failure")
}

func TestServer_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	s := New(&config.Config{Port: port, Env: "development"}, logger.NewNop(), http.NotFoundHandler())
	err = s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard listen")
}
