package remotesync_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/remote"
	"github.com/yaklabco/mdinbox/pkg/remotesync"
)

//nolint:gochecknoglobals // Fixed test clock.
var saveTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

type putRequest struct {
	path    string
	message string
	content string
	auth    string
}

func configured(url string) *config.Config {
	cfg := config.NewConfig()
	cfg.Token = "secret"
	cfg.Repository = "alice/notes"
	cfg.APIURL = url
	return cfg
}

func quiet() *log.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func recorder(t *testing.T, status int, body string) (*httptest.Server, *[]putRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []putRequest
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Message string `json:"message"`
			Content string `json:"content"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, http.MethodPut, r.Method)

		mu.Lock()
		requests = append(requests, putRequest{
			path:    r.URL.Path,
			message: payload.Message,
			content: payload.Content,
			auth:    r.Header.Get("Authorization"),
		})
		mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	return srv, &requests
}

func TestSave_CreatesTimestampedFile(t *testing.T) {
	t.Parallel()

	srv, requests := recorder(t, http.StatusCreated, `{}`)
	client := remotesync.New(configured(srv.URL),
		remotesync.WithClock(func() time.Time { return saveTime }),
		remotesync.WithLogger(quiet()))

	outcome, err := client.Save(context.Background(), "# Héllo wörld ✓")
	require.NoError(t, err)
	assert.Equal(t, remotesync.OutcomeSaved, outcome)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/repos/alice/notes/contents/inbox/20240115103000.md", got.path)
	assert.Equal(t, "Add document 20240115103000.md", got.message)
	assert.Equal(t, "token secret", got.auth)

	decoded, err := remotesync.Decode(got.content)
	require.NoError(t, err)
	assert.Equal(t, "# Héllo wörld ✓", decoded)
}

func TestSave_NotConfigured(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newServer(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) })

	tests := []struct {
		name string
		edit func(cfg *config.Config)
	}{
		{name: "no token", edit: func(cfg *config.Config) { cfg.Token = "" }},
		{name: "no repository", edit: func(cfg *config.Config) { cfg.Repository = "" }},
		{name: "blank token", edit: func(cfg *config.Config) { cfg.Token = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := configured(srv.URL)
			tt.edit(cfg)
			client := remotesync.New(cfg, remotesync.WithLogger(quiet()))

			outcome, err := client.Save(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, remote.IsNotConfigured(err))
			assert.True(t, goerrors.IsValidation(err))
			assert.Zero(t, outcome)
		})
	}

	assert.Zero(t, hits.Load())
}

func TestSave_RemoteRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "unprocessable",
			status:  http.StatusUnprocessableEntity,
			body:    `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`,
			message: "Invalid request.\n\n\"sha\" wasn't supplied.",
		},
		{
			name:    "repository not visible",
			status:  http.StatusNotFound,
			body:    `{"message":"Not Found"}`,
			message: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := recorder(t, tt.status, tt.body)
			client := remotesync.New(configured(srv.URL), remotesync.WithLogger(quiet()))

			_, err := client.Save(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, remote.IsRemoteRejected(err))
			assert.False(t, remote.IsTransport(err))
			assert.False(t, remote.IsNotConfigured(err))
			assert.Equal(t, tt.message, remote.RejectionMessage(err))

			var classified *goerrors.Error
			require.ErrorAs(t, err, &classified)
			assert.Equal(t, goerrors.CategoryExternal, classified.Category)
			assert.Equal(t, remote.TextCodeRemoteRejected, classified.TextCode)
			assert.Equal(t, tt.status, classified.Code)
			assert.False(t, client.InFlight())
		})
	}
}

func TestSave_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := remotesync.New(configured(url), remotesync.WithLogger(quiet()))

	_, err := client.Save(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))
	assert.False(t, remote.IsRemoteRejected(err))
}

func TestSave_SingleInFlight(t *testing.T) {
	t.Parallel()

	received := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		close(received)
		<-release
		w.WriteHeader(http.StatusCreated)
	})

	client := remotesync.New(configured(srv.URL), remotesync.WithLogger(quiet()))

	first := make(chan remotesync.Outcome, 1)
	go func() {
		outcome, err := client.Save(context.Background(), "first")
		assert.NoError(t, err)
		first <- outcome
	}()

	<-received
	assert.True(t, client.InFlight())

	outcome, err := client.Save(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, remotesync.OutcomeDropped, outcome)

	close(release)
	assert.Equal(t, remotesync.OutcomeSaved, <-first)
	assert.Equal(t, int32(1), hits.Load())
	assert.False(t, client.InFlight())
}

func TestSubmit_HookOrder(t *testing.T) {
	t.Parallel()

	srv, _ := recorder(t, http.StatusCreated, `{}`)

	var events []string
	client := remotesync.New(configured(srv.URL),
		remotesync.WithClock(func() time.Time { return saveTime }),
		remotesync.WithLogger(quiet()),
		remotesync.OnLock(func() { events = append(events, "lock") }),
		remotesync.OnUnlock(func() { events = append(events, "unlock") }))

	result, err := client.Submit(context.Background(),
		func() string {
			events = append(events, "serialize")
			return "body"
		},
		func(r remotesync.Result) {
			events = append(events, "saved "+r.Path)
		})
	require.NoError(t, err)

	assert.Equal(t, remotesync.OutcomeSaved, result.Outcome)
	assert.Equal(t, 4, result.Bytes)
	assert.Equal(t, []string{"lock", "serialize", "saved inbox/20240115103000.md", "unlock"}, events)
}

func TestSubmit_FailureSkipsOnSaved(t *testing.T) {
	t.Parallel()

	srv, _ := recorder(t, http.StatusForbidden, `{"message":"Resource not accessible"}`)
	client := remotesync.New(configured(srv.URL), remotesync.WithLogger(quiet()))

	called := false
	_, err := client.Submit(context.Background(), func() string { return "x" }, func(remotesync.Result) { called = true })
	require.Error(t, err)
	assert.False(t, called)
}

func TestBuildPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		folder string
		want   string
	}{
		{folder: "/inbox", want: "inbox/20240115103000.md"},
		{folder: "inbox", want: "inbox/20240115103000.md"},
		{folder: "/notes/daily/", want: "notes/daily/20240115103000.md"},
		{folder: "", want: "20240115103000.md"},
		{folder: "/", want: "20240115103000.md"},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, remotesync.BuildPath(tt.folder, saveTime))
		})
	}
}

func TestEncodeDecode_UTF8(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "plain", "日本語のテキスト", "emoji 🎉 and ünïcödé", "line\nbreaks\r\n"} {
		decoded, err := remotesync.Decode(remotesync.Encode(text))
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "saved", remotesync.OutcomeSaved.String())
	assert.Equal(t, "dropped", remotesync.OutcomeDropped.String())
}
