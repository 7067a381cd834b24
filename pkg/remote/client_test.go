package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/pkg/remote"
)

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return remote.NewClient("octo/notes", "secret", remote.WithBaseURL(srv.URL+"/"))
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/octo/notes/contents/inbox/20240115103000.md", r.URL.Path)
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"name":"20240115103000.md"}}`))
	})

	err := client.CreateFile(context.Background(), "inbox/20240115103000.md", "Add document 20240115103000.md",
		remote.EncodeContent("héllo 世界"))
	require.NoError(t, err)
	assert.Equal(t, "Add document 20240115103000.md", gotBody["message"])

	decoded, err := remote.DecodeContent(gotBody["content"])
	require.NoError(t, err)
	assert.Equal(t, "héllo 世界", decoded)
}

func TestAPIErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		notFound bool
	}{
		{"json message", http.StatusUnprocessableEntity, `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`, "Invalid request.\n\n\"sha\" wasn't supplied.", false},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down", false},
		{"empty body", http.StatusUnauthorized, "", "Unauthorized", false},
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`, "Not Found", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetFile(context.Background(), "inbox/a.md")
			var apiErr *remote.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, remote.ErrNotFound))
			assert.False(t, remote.IsTransport(err))
		})
	}
}

func TestListDirectory(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/notes/contents/inbox", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name":"a.md","path":"inbox/a.md","type":"file","download_url":"https://raw/a.md"},
			{"name":"sub","path":"inbox/sub","type":"dir"}
		]`))
	})

	items, err := client.ListDirectory(context.Background(), "/inbox/")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsFile())
	assert.Equal(t, "https://raw/a.md", items[0].DownloadURL)
	assert.False(t, items[1].IsFile())
}

func TestListDirectoryRejectsFile(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"a.md","type":"file"}`))
	})

	_, err := client.ListDirectory(context.Background(), "inbox/a.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGetFileDecodesWrappedContent(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// The API wraps base64 content at 60 columns.
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":     "a.md",
			"encoding": "base64",
			"content":  "IyBUaXRs\nZQo=\n",
		})
	})

	file, err := client.GetFile(context.Background(), "inbox/a.md")
	require.NoError(t, err)
	text, err := file.Text()
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", text)
}

func TestListRepositories(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[{"full_name":"octo/notes","description":"inbox","private":true}]`))
	})

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, remote.Repository{FullName: "octo/notes", Description: "inbox", Private: true}, repos[0])
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := remote.NewClient("octo/notes", "secret",
		remote.WithBaseURL(srv.URL),
		remote.WithTimeout(20*time.Millisecond))

	err := client.CreateFile(context.Background(), "a.md", "m", "")
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))
}

func TestDecodeContentRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := remote.DecodeContent("not base64!")
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		category goerrors.Category
		textCode string
		code     int
	}{
		{
			name:     "not found",
			err:      &remote.APIError{Status: http.StatusNotFound, Message: "Not Found"},
			category: goerrors.CategoryNotFound,
			textCode: remote.TextCodeNotFound,
			code:     http.StatusNotFound,
		},
		{
			name:     "rejected",
			err:      &remote.APIError{Status: http.StatusUnprocessableEntity, Message: "sha wasn't supplied"},
			category: goerrors.CategoryExternal,
			textCode: remote.TextCodeRemoteRejected,
			code:     http.StatusUnprocessableEntity,
		},
		{
			name:     "transport",
			err:      &remote.TransportError{Op: "PUT /x", Err: errors.New("connection refused")},
			category: goerrors.CategoryOperation,
			textCode: remote.TextCodeTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := remote.Classify(tt.err, "save document")

			var classified *goerrors.Error
			require.ErrorAs(t, err, &classified)
			assert.Equal(t, tt.category, classified.Category)
			assert.Equal(t, tt.textCode, classified.TextCode)
			assert.Equal(t, tt.code, classified.Code)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyWrite(t *testing.T) {
	t.Parallel()

	err := remote.ClassifyWrite(&remote.APIError{Status: http.StatusNotFound, Message: "Not Found"}, "save document")

	var classified *goerrors.Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, goerrors.CategoryExternal, classified.Category)
	assert.Equal(t, remote.TextCodeRemoteRejected, classified.TextCode)
	assert.Equal(t, http.StatusNotFound, classified.Code)
	assert.True(t, remote.IsRemoteRejected(err))
	assert.Equal(t, "Not Found", remote.RejectionMessage(err))
}

func TestClassifyHelpers(t *testing.T) {
	t.Parallel()

	rejected := remote.Classify(&remote.APIError{Status: http.StatusConflict, Message: "is at 3f2a but expected 9c1b"}, "save")
	assert.True(t, remote.IsRemoteRejected(rejected))
	assert.False(t, remote.IsTransport(rejected))
	assert.Equal(t, "is at 3f2a but expected 9c1b", remote.RejectionMessage(rejected))
	assert.Equal(t, http.StatusConflict, remote.RejectionStatus(rejected))

	notConfigured := remote.NotConfigured("save document")
	assert.True(t, remote.IsNotConfigured(notConfigured))
	assert.True(t, goerrors.IsValidation(notConfigured))
	assert.Empty(t, remote.RejectionMessage(notConfigured))

	assert.NoError(t, remote.Classify(nil, "noop"))
	assert.Same(t, notConfigured, remote.Classify(notConfigured, "again"))
}
