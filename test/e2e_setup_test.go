package test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/game"
	"github.com/lguibr/paddlebounce/server"
	"github.com/lguibr/paddlebounce/utils"
)

const askTimeout = 2 * time.Second

// E2ESetupResult holds the results of the setup function.
type E2ESetupResult struct {
	Engine   *bollywood.Engine
	MatchPID *bollywood.PID
	Server   *httptest.Server
	WsURL    string
	Origin   string
	Cfg      utils.Config
}

// SetupE2ETest starts an engine, one match actor and an HTTP test server
// with every route mounted. Teardown is registered with t.Cleanup.
func SetupE2ETest(t *testing.T, cfg utils.Config, opts game.MatchOptions) E2ESetupResult {
	t.Helper()

	engine := bollywood.NewEngine()
	producer, err := game.NewMatchActorProducer(cfg, opts)
	require.NoError(t, err)
	matchPID := engine.Spawn(bollywood.NewProps(producer))
	require.NotNil(t, matchPID, "match PID should not be nil")

	s := httptest.NewServer(server.New(engine, matchPID, nil).Routes())
	t.Cleanup(func() {
		s.Close()
		engine.Shutdown(askTimeout)
	})

	return E2ESetupResult{
		Engine:   engine,
		MatchPID: matchPID,
		Server:   s,
		WsURL:    "ws" + strings.TrimPrefix(s.URL, "http") + "/subscribe",
		Origin:   "http://localhost/",
		Cfg:      cfg,
	}
}

// Step runs one manual tick and returns the resulting snapshot.
func (r E2ESetupResult) Step(t *testing.T) game.Snapshot {
	t.Helper()
	reply, err := r.Engine.Ask(r.MatchPID, game.StepCommand{}, askTimeout)
	require.NoError(t, err)
	snapshot, ok := reply.(game.Snapshot)
	require.True(t, ok, "unexpected reply %T", reply)
	return snapshot
}
