package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/internal/cli"
	"github.com/yaklabco/mdinbox/pkg/remote"
)

const contentsPrefix = "/repos/alice/notes/contents/inbox"

// fakeInbox is an in-memory content API for alice/notes.
type fakeInbox struct {
	mu       sync.Mutex
	files    map[string]string
	reject   int
	rejectOn string
}

func newFakeInbox(files map[string]string) *fakeInbox {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeInbox{files: files}
}

func (f *fakeInbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/user/repos":
		_ = json.NewEncoder(w).Encode([]remote.Repository{
			{FullName: "alice/notes", Description: "inbox", Private: true},
			{FullName: "alice/site"},
		})

	case r.Method == http.MethodPut:
		if f.reject != 0 {
			w.WriteHeader(f.reject)
			_, _ = w.Write([]byte(`{"message":"` + f.rejectOn + `"}`))
			return
		}
		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		text, err := remote.DecodeContent(body.Content)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.files[strings.TrimPrefix(r.URL.Path, contentsPrefix+"/")] = text
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))

	case r.URL.Path == contentsPrefix:
		items := make([]remote.Item, 0, len(f.files))
		for name := range f.files {
			items = append(items, remote.Item{Name: name, Path: "inbox/" + name, Type: "file"})
		}
		_ = json.NewEncoder(w).Encode(items)

	default:
		name := strings.TrimPrefix(r.URL.Path, contentsPrefix+"/")
		text, ok := f.files[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name": name, "encoding": "base64", "content": remote.EncodeContent(text),
		})
	}
}

func (f *fakeInbox) saved() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.files))
	for k, v := range f.files {
		out[k] = v
	}
	return out
}

// testEnv is a config file pointing at a fake inbox and a private draft.
type testEnv struct {
	dir        string
	configPath string
	draftPath  string
	inbox      *fakeInbox
}

func newTestEnv(t *testing.T, inbox *fakeInbox, withToken bool) *testEnv {
	t.Helper()

	srv := httptest.NewServer(inbox)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		draftPath:  filepath.Join(dir, "state", "draft.md"),
		inbox:      inbox,
	}

	var cfg strings.Builder
	if withToken {
		cfg.WriteString("token: secret-token-1234\n")
	}
	cfg.WriteString("repository: alice/notes\n")
	cfg.WriteString("folder: /inbox\n")
	cfg.WriteString("api_url: " + srv.URL + "\n")
	cfg.WriteString("draft_path: " + env.draftPath + "\n")
	cfg.WriteString("log_level: error\n")
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg.String()), 0o600))

	return env
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--isolated", "--config", e.configPath, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) writeDraft(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(e.draftPath), 0o700))
	require.NoError(t, os.WriteFile(e.draftPath, []byte(content), 0o600))
}

func (e *testEnv) draft(t *testing.T) (string, bool) {
	t.Helper()
	data, err := os.ReadFile(e.draftPath)
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(t, err)
	return string(data), true
}

func TestIntegration_ConvertToJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "# Plan\n\nShip **it**", "convert")
	require.NoError(t, err)

	var shape struct {
		Root struct {
			Type     string `json:"type"`
			Children []struct {
				Type  string `json:"type"`
				Level int    `json:"level"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &shape))
	assert.Equal(t, "root", shape.Root.Type)
	require.Len(t, shape.Root.Children, 2)
	assert.Equal(t, "heading", shape.Root.Children[0].Type)
	assert.Equal(t, 1, shape.Root.Children[0].Level)
	assert.Equal(t, "paragraph", shape.Root.Children[1].Type)
}

func TestIntegration_ConvertRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	source := "## Tasks\n\n- one\n- _two_\n\n> quoted [link](https://example.com)"

	jsonOut, _, err := env.run(t, source, "convert", "--to", "json")
	require.NoError(t, err)

	mdOut, _, err := env.run(t, jsonOut, "convert", "--to", "markdown")
	require.NoError(t, err)
	assert.Equal(t, source+"\n", mdOut)

	checkOut, _, err := env.run(t, source, "convert", "--check")
	require.NoError(t, err)
	assert.Contains(t, checkOut, "stable")
}

func TestIntegration_ConvertWarnsOnDegraded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	_, stderr, err := env.run(t, "before\n\n---\n\nafter", "convert", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "<stdin>")
	assert.Contains(t, stderr, "(ThematicBreak)")
}

func TestIntegration_ConvertInvalidTarget(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	_, _, err := env.run(t, "x", "convert", "--to", "html")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_ConvertOutputFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	out := filepath.Join(env.dir, "note.json")

	stdout, _, err := env.run(t, "hello", "convert", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "hello"`)
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	notes := filepath.Join(env.dir, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(notes, "archive"), 0o755))
	for name, content := range map[string]string{
		"plan.md":         "# Plan\n\n- ship **it**",
		"rule.md":         "before\n\n---\n\nafter",
		"_template.md":    "skipped",
		"archive/old.md":  "excluded",
		"archive/keep.md": "kept",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(notes, name), []byte(content), 0o644))
	}

	stdout, stderr, err := env.run(t, "", "check", notes, "--exclude", "old.md", "-j", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 files checked: 3 stable")
	assert.Contains(t, stdout, "1 warning in 1 file")
	assert.NotContains(t, stdout, "old.md")
	assert.NotContains(t, stdout, "_template.md")
	assert.Contains(t, stderr, "(ThematicBreak)")

	stdout, stderr, err = env.run(t, "", "check", "--quiet", notes)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	note := filepath.Join(env.dir, "note.md")
	require.NoError(t, os.WriteFile(note, []byte("# Note\n\nplain *text*"), 0o644))

	stdout, _, err := env.run(t, "", "check", "--format", "json", note)
	require.NoError(t, err)

	var out struct {
		Files []struct {
			Path   string `json:"path"`
			Stable bool   `json:"stable"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Files, 1)
	assert.True(t, out.Files[0].Stable)
	assert.Equal(t, "note.md", filepath.Base(out.Files[0].Path))
}

func TestIntegration_CheckInvalidFormat(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	_, _, err := env.run(t, "", "check", "--format", "sarif", env.dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_CheckMissingPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	_, _, err := env.run(t, "", "check", filepath.Join(env.dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_ComposeWritesDraft(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "Call **Alice** about [the report](https://example.com)", "compose")
	require.NoError(t, err)

	want := "Call **Alice** about [the report](https://example.com)"
	assert.Equal(t, want+"\n", stdout)

	draft, ok := env.draft(t)
	require.True(t, ok)
	assert.Equal(t, want, draft)
}

func TestIntegration_ComposeKeepsBlockSyntaxLiteral(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "# Title", "compose")
	require.NoError(t, err)
	assert.Equal(t, "\\# Title\n", stdout)

	help, _, err := env.run(t, "", "compose", "--help")
	require.NoError(t, err)
	assert.Contains(t, help, "block syntax")
	assert.Contains(t, help, "mdinbox convert")
}

func TestIntegration_ComposeAppendsToDraft(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	env.writeDraft(t, "first thought")

	stdout, _, err := env.run(t, "\nsecond thought", "compose")
	require.NoError(t, err)
	assert.Equal(t, "first thought\n\nsecond thought\n", stdout)

	draft, _ := env.draft(t)
	assert.Equal(t, "first thought\n\nsecond thought", draft)
}

func TestIntegration_ComposeCodeAndImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)

	code := filepath.Join(env.dir, "main.go")
	require.NoError(t, os.WriteFile(code, []byte("package main\n\nfunc main() {}\n"), 0o600))

	// Smallest valid PNG header is enough for content sniffing.
	img := filepath.Join(env.dir, "shot.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), 0o600))

	stdout, _, err := env.run(t, "", "compose", "--code", code, "--paste-image", img)
	require.NoError(t, err)

	assert.Contains(t, stdout, "```go\npackage main\n\nfunc main() {}\n```")
	assert.Contains(t, stdout, "![Pasted image ")
	assert.Contains(t, stdout, "](data:image/png;base64,")
}

func TestIntegration_ComposeRejectsNonImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	txt := filepath.Join(env.dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0o600))

	_, _, err := env.run(t, "", "compose", "--paste-image", txt)
	require.Error(t, err)
	assert.Equal(t, cli.ExitDataError, cli.ExitCode(err))
}

func TestIntegration_ComposeInsertsReference(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(map[string]string{"20240115103000.md": "# Standup"})
	env := newTestEnv(t, inbox, true)

	stdout, _, err := env.run(t, "see ", "compose", "--ref", "20240115103000")
	require.NoError(t, err)
	assert.Equal(t, "see [[20240115103000]]\n", stdout)
}

func TestIntegration_PublishDraft(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(nil)
	env := newTestEnv(t, inbox, true)
	env.writeDraft(t, "# Idea\n\nWrite it down")

	stdout, _, err := env.run(t, "", "publish")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved alice/notes/inbox/")

	saved := inbox.saved()
	require.Len(t, saved, 1)
	for name, content := range saved {
		assert.Regexp(t, `^\d{14}\.md$`, name)
		assert.Equal(t, "# Idea\n\nWrite it down", content)
	}

	_, ok := env.draft(t)
	assert.False(t, ok, "draft must be cleared after a successful publish")
}

func TestIntegration_PublishRejectedKeepsDraft(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(nil)
	inbox.reject = http.StatusConflict
	inbox.rejectOn = "file already exists"
	env := newTestEnv(t, inbox, true)
	env.writeDraft(t, "keep me")

	_, stderr, err := env.run(t, "", "publish")
	require.Error(t, err)
	assert.Equal(t, cli.ExitRemoteError, cli.ExitCode(err))
	assert.True(t, cli.IsSilent(err))
	assert.Contains(t, stderr, "remote rejected the document (409): file already exists")

	draft, ok := env.draft(t)
	require.True(t, ok)
	assert.Equal(t, "keep me", draft)
}

func TestIntegration_PublishNotConfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), false)
	env.writeDraft(t, "note")

	_, stderr, err := env.run(t, "", "publish")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotConfigured, cli.ExitCode(err))
	assert.Contains(t, stderr, "token and repository are not configured")
}

func TestIntegration_PublishEmptyDraft(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	_, _, err := env.run(t, "", "publish")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_PublishFileLeavesDraft(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(nil)
	env := newTestEnv(t, inbox, true)
	env.writeDraft(t, "unfinished")

	note := filepath.Join(env.dir, "meeting.md")
	require.NoError(t, os.WriteFile(note, []byte("Meeting **notes**\n"), 0o600))

	_, _, err := env.run(t, "", "publish", note)
	require.NoError(t, err)

	saved := inbox.saved()
	require.Len(t, saved, 1)
	for _, content := range saved {
		assert.Equal(t, "Meeting **notes**", content)
	}

	draft, ok := env.draft(t)
	require.True(t, ok)
	assert.Equal(t, "unfinished", draft)
}

func TestIntegration_PublishDryRun(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(nil)
	env := newTestEnv(t, inbox, true)
	env.writeDraft(t, "draft body")

	stdout, _, err := env.run(t, "", "publish", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Would save alice/notes/inbox/")
	assert.Contains(t, stdout, "draft body")
	assert.Empty(t, inbox.saved())

	_, ok := env.draft(t)
	assert.True(t, ok)
}

func TestIntegration_PublishDryRunOverrides(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	env.writeDraft(t, "draft body")

	stdout, _, err := env.run(t, "", "--repo", "bob/journal", "--folder", "/archive", "publish", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Would save bob/journal/archive/")
}

func TestIntegration_List(t *testing.T) {
	t.Parallel()

	inbox := newFakeInbox(map[string]string{
		"20240115103000.md": "# Standup\n\nyesterday we shipped",
		"20240116090000.md": "Groceries: *milk*, eggs",
		"notes.txt":         "ignored",
	})
	env := newTestEnv(t, inbox, true)

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := env.run(t, "", "list")
		require.NoError(t, err)
		assert.Contains(t, stdout, "20240116090000")
		assert.Contains(t, stdout, "Groceries: milk, eggs")
		assert.Contains(t, stdout, "Standup yesterday we shipped")
		assert.NotContains(t, stdout, "notes.txt")
		assert.Contains(t, stdout, "2 documents in /inbox")
		assert.Less(t, strings.Index(stdout, "20240116090000"), strings.Index(stdout, "20240115103000"),
			"newest first")
	})

	t.Run("query", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := env.run(t, "", "list", "--query", "STANDUP")
		require.NoError(t, err)
		assert.Contains(t, stdout, "20240115103000")
		assert.NotContains(t, stdout, "Groceries")
		assert.Contains(t, stdout, "1 of 2 documents in /inbox match")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := env.run(t, "", "list", "--json")
		require.NoError(t, err)

		var entries []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "20240116090000.md", entries[0]["name"])
	})

	t.Run("link", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := env.run(t, "", "list", "--link", "20240115103000.md")
		require.NoError(t, err)
		assert.Equal(t, "[[20240115103000]]\n", stdout)
	})

	t.Run("negative preview length", func(t *testing.T) {
		t.Parallel()

		_, _, err := env.run(t, "", "list", "--preview-length", "-1")
		require.Error(t, err)
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
	})

	t.Run("link missing", func(t *testing.T) {
		t.Parallel()

		_, _, err := env.run(t, "", "list", "--link", "nope")
		require.Error(t, err)
		assert.Equal(t, cli.ExitRemoteError, cli.ExitCode(err))
	})
}

func TestIntegration_ListEmptyFolder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 documents in /inbox")
}

func TestIntegration_Draft(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	env.writeDraft(t, "half a thought")

	stdout, _, err := env.run(t, "", "draft", "show")
	require.NoError(t, err)
	assert.Equal(t, "half a thought\n", stdout)

	stdout, _, err = env.run(t, "", "draft", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, env.draftPath)
	assert.Contains(t, stdout, "(14 bytes)")

	_, _, err = env.run(t, "", "draft", "clear")
	require.NoError(t, err)
	_, ok := env.draft(t)
	assert.False(t, ok)

	stdout, _, err = env.run(t, "", "draft", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No draft")
}

func TestIntegration_ConfigSetAndShow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)

	_, _, err := env.run(t, "", "config", "set", "folder", "/journal")
	require.NoError(t, err)
	_, _, err = env.run(t, "", "config", "set", "token", "ghp_abcdefgh5678")
	require.NoError(t, err)

	info, err := os.Stat(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	stdout, _, err := env.run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "folder: /journal")
	assert.Contains(t, stdout, "5678")
	assert.NotContains(t, stdout, "ghp_abcdefgh5678")

	stdout, _, err = env.run(t, "", "config", "show", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ghp_abcdefgh5678")
}

func TestIntegration_ConfigSetRejectsInvalid(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)

	_, _, err := env.run(t, "", "config", "set", "repository", "not a repo")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))

	_, _, err = env.run(t, "", "config", "set", "flavor", "gfm")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_ConfigInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.yaml")

	run := func(args ...string) error {
		cmd := cli.NewRootCommand(testInfo())
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", path}, args...))
		return cmd.Execute()
	}

	require.NoError(t, run("config", "init"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "folder: /inbox")
	assert.NotContains(t, string(data), "token")

	err = run("config", "init")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	require.NoError(t, run("config", "init", "--force"))
}

func TestIntegration_ConfigEnv(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "", "config", "env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MDINBOX_TOKEN")
	assert.Contains(t, stdout, "MDINBOX_REPOSITORY")
}

func TestIntegration_Repos(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "", "repos")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* alice/notes")
	assert.Contains(t, stdout, "private")
	assert.Contains(t, stdout, "alice/site")
}

func TestIntegration_ReposNeedsToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), false)
	_, _, err := env.run(t, "", "repos")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotConfigured, cli.ExitCode(err))
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeInbox(nil), true)
	stdout, _, err := env.run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "Commands:")
	assert.Contains(t, stdout, "publish")
	assert.Contains(t, stdout, "--config string")
}
