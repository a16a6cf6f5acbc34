// Package testserver spins up an in-memory mock upstream for tests: sqlite
// store, HTTP handler, and a gateway client pointed at it.
package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/sqlite"
	"github.com/cxy1818/temu-jit-skc-webui/internal/upstream"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	Store  *sqlite.Store
	Client *api.Client
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := sqlite.NewStore(db)
	server := httptest.NewServer(upstream.New(store, nil))
	client := api.NewClient(server.URL, 10*time.Second, nil)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server: server,
		Store:  store,
		Client: client,
	}
}
