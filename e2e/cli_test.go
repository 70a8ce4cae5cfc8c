package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mtlobby/internal/api"
	"github.com/mcoot/mtlobby/internal/api/response"
	"github.com/mcoot/mtlobby/internal/cli"
	"github.com/mcoot/mtlobby/internal/dependencies/mocks"
	"github.com/mcoot/mtlobby/internal/factory"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/testutil"
)

const serviceToken = "e2e-token"

// cliRunner drives the CLI in-process against a live lobby
type cliRunner struct {
	app       *factory.TestApp
	serverURL string
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:       testutil.NopLogger(),
		Lobby:        app.Lobby,
		PushHandler:  app.WSServer,
		ServiceToken: serviceToken,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		_ = app.Shutdown()
		srv.Close()
	})

	return &cliRunner{app: app, serverURL: srv.URL}
}

func (r *cliRunner) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", serviceToken,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (r *cliRunner) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := r.run(context.Background(), args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

func (r *cliRunner) connect(t *testing.T, id string, tables ...string) *mocks.MockConn {
	t.Helper()
	conn := mocks.NewMockConn("conn-" + id)
	_, err := r.app.Lobby.Handshake(context.Background(), conn, r.app.SealIdentity(id, tables...), nil)
	require.NoError(t, err)
	return conn
}

func parseJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func TestCLIHealth(t *testing.T) {
	r := newCLIRunner(t)
	r.connect(t, "alice")

	health := parseJSON[response.Health](t, r.mustRun(t, "health"))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
}

func TestCLITableLifecycle(t *testing.T) {
	r := newCLIRunner(t)
	conn := r.connect(t, "alice", "t1")

	status := parseJSON[response.Status](t, r.mustRun(t,
		"add-table", "alice", "t2", "--table-server", "table-2", "--client-url", "https://t2.example/client"))
	assert.True(t, status.Status)

	status = parseJSON[response.Status](t, r.mustRun(t, "add-table", "alice", "t2"))
	assert.False(t, status.Status, "second add of the same table")

	status = parseJSON[response.Status](t, r.mustRun(t, "turn", "alice", "t2"))
	assert.True(t, status.Status)

	presence := parseJSON[response.Presence](t, r.mustRun(t, "status", "alice"))
	assert.True(t, presence.Online)
	assert.Equal(t, []string{"t1", "t2"}, presence.Tables)

	parseJSON[response.Status](t, r.mustRun(t, "leave", "alice", "t1", "--thread", "th-1"))

	presence = parseJSON[response.Presence](t, r.mustRun(t, "status", "alice"))
	assert.Equal(t, []string{"t2"}, presence.Tables)

	events := conn.Sent()
	require.Len(t, events, 3)
	assert.Equal(t, model.EventClientAdd, events[0].Event)
	assert.Equal(t, model.EventTurn, events[1].Event)
	assert.Equal(t, model.EventClientLeave, events[2].Event)
}

func TestCLIAddTableForOfflinePlayer(t *testing.T) {
	r := newCLIRunner(t)

	status := parseJSON[response.Status](t, r.mustRun(t, "add-table", "ghost", "t1"))
	assert.False(t, status.Status)
}

func TestCLIRejectsWrongServiceToken(t *testing.T) {
	r := newCLIRunner(t)

	out, err := r.run(context.Background(), "--token", "wrong", "turn", "alice", "t1")
	require.Error(t, err)
	assert.Contains(t, out, "UNAUTHORIZED")
}

func TestCLIIdentityRoundTrip(t *testing.T) {
	r := newCLIRunner(t)

	out := r.mustRun(t, "identity", "seal",
		"--key", factory.TestCipherKey,
		"--user-token", "bob",
		"--name", "Bob",
		"--rating", "1720",
		"--table", "t1",
		"--table", "t2")
	blob := strings.TrimSpace(out)

	opened := parseJSON[model.Identity](t, r.mustRun(t, "identity", "open", "--key", factory.TestCipherKey, blob))
	assert.Equal(t, model.PlayerID("bob"), opened.PlayerID)
	assert.Equal(t, "Bob", opened.Name)

	result, err := r.app.Lobby.Handshake(context.Background(), mocks.NewMockConn("conn-bob"), []byte(blob), nil)
	require.NoError(t, err)
	assert.Equal(t, model.PlayerID("bob"), result.PlayerID)
	assert.Equal(t, []model.TableID{"t1", "t2"}, result.Tables)
}

func TestCLIIdentityOpenWithWrongKey(t *testing.T) {
	r := newCLIRunner(t)

	blob := string(r.app.SealIdentity("alice"))
	_, err := r.run(context.Background(), "identity", "open", "--key", "another-key-0000", blob)
	assert.Error(t, err)
}

func TestCLIWatchReceivesPushes(t *testing.T) {
	r := newCLIRunner(t)
	blob := string(r.app.SealIdentity("alice", "t1"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := r.run(ctx, "watch", "--user-data", blob, "--count", "1")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		p, err := r.app.Lobby.Presence(context.Background(), "alice")
		return err == nil && p.Online
	}, 2*time.Second, 10*time.Millisecond)

	r.mustRun(t, "turn", "alice", "t1")

	select {
	case res := <-done:
		require.NoError(t, res.err, res.out)

		lines := strings.Split(strings.TrimSpace(res.out), "\n")
		last := parseJSON[cli.PushEvent](t, lines[len(lines)-1])
		assert.Equal(t, model.EventTurn, last.Event)
		assert.JSONEq(t, `{"table_token":"t1"}`, string(last.Data))
	case <-ctx.Done():
		t.Fatal("watch did not exit after one push")
	}
}

func TestCLIWatchRejectsBadIdentity(t *testing.T) {
	r := newCLIRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.run(ctx, "watch", "--user-data", "Zm9vYmFy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake rejected")
}
