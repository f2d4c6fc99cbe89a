package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/farmstack/internal/application/session"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	os.Exit(m.Run())
}

func newRig(t *testing.T) (*Server, *session.Session, *httptest.Server) {
	t.Helper()
	cfg, err := config.NewDefaultLoader().LoadAll()
	require.NoError(t, err)
	sess := session.New(cfg, 1)

	srv := New("ignored")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/state", srv.handleState)
	mux.HandleFunc("/entities", srv.handleEntities)
	srv.registerControl(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return srv, sess, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Health(t *testing.T) {
	_, _, ts := newRig(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_StateReflectsPublish(t *testing.T) {
	srv, sess, ts := newRig(t)
	sess.SetScore(777)
	srv.Publish(sess)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 777.0, snap.Score)
	assert.Equal(t, 3, snap.Lives)
}

func TestServer_EntitiesEndpoint(t *testing.T) {
	srv, sess, ts := newRig(t)
	require.NoError(t, sess.ForceSpawn("chicken", 1))
	srv.Publish(sess)

	resp, err := http.Get(ts.URL + "/entities")
	require.NoError(t, err)
	defer resp.Body.Close()

	var ents []session.EntityView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ents))

	var found bool
	for _, e := range ents {
		if e.Subtype == "chicken" && e.State == "falling" {
			found = true
		}
	}
	assert.True(t, found, "the spawned chicken must appear in the entity dump")
}

func TestServer_ControlCommandsApplyOnDrain(t *testing.T) {
	srv, sess, ts := newRig(t)

	resp := postJSON(t, ts.URL+"/control/score", scoreRequest{Score: 123})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = postJSON(t, ts.URL+"/control/lives", livesRequest{Lives: 9})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = postJSON(t, ts.URL+"/control/spawn", spawnRequest{Subtype: "pig", X: 2})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// Nothing applies until the host loop drains.
	assert.Zero(t, sess.Snapshot().Score)

	srv.Drain(sess)
	snap := sess.Snapshot()
	assert.Equal(t, 123.0, snap.Score)
	assert.Equal(t, 9, snap.Lives)
}

func TestServer_SpawnValidation(t *testing.T) {
	_, _, ts := newRig(t)
	resp := postJSON(t, ts.URL+"/control/spawn", spawnRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ControlRejectsGet(t *testing.T) {
	_, _, ts := newRig(t)
	resp, err := http.Get(ts.URL + "/control/gameover")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_GameOverAndRestart(t *testing.T) {
	srv, sess, ts := newRig(t)

	postJSON(t, ts.URL+"/control/gameover", struct{}{})
	srv.Drain(sess)
	assert.True(t, sess.GameOver())

	postJSON(t, ts.URL+"/control/restart", struct{}{})
	srv.Drain(sess)
	assert.False(t, sess.GameOver())
}
