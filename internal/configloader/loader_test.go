package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.DefaultFolder, result.Config.Folder)
	assert.Equal(t, config.DefaultAPIURL, result.Config.APIURL)
	assert.Equal(t, config.DefaultAutosaveInterval, result.Config.AutosaveInterval)
	assert.NotEmpty(t, result.Config.DraftPath)
	assert.False(t, result.Config.RemoteConfigured())
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), `
repository: alice/notes
folder: /journal
autosave_interval: 2s
`)
	subDir := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(subDir, 0o755))

	result, err := Load(context.Background(), isolated(subDir))
	require.NoError(t, err)

	assert.Equal(t, "alice/notes", result.Config.Repository)
	assert.Equal(t, "/journal", result.Config.Folder)
	assert.Equal(t, 2*time.Second, result.Config.AutosaveInterval)
	assert.Equal(t, config.DefaultPreviewLength, result.Config.PreviewLength)
	assert.Equal(t, []string{filepath.Join(tmpDir, ".mdinbox.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectTokenWarns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "token: abc\nrepository: alice/notes\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	require.NoError(t, err)

	assert.True(t, result.Config.RemoteConfigured())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "MDINBOX_TOKEN")
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "folder: /project\npreview_length: 40\n")
	explicit := filepath.Join(tmpDir, "custom.yaml")
	writeFile(t, explicit, "folder: /explicit\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "/explicit", result.Config.Folder)
	assert.Equal(t, 40, result.Config.PreviewLength)
	assert.Equal(t, explicit, result.Paths.Explicit)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "log_level: warn\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{LogLevel: "debug", Debug: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "debug", result.Config.LogLevel)
	assert.True(t, result.Config.Debug)
}

func TestLoad_Environment(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "repository: alice/notes\n")

	t.Setenv("MDINBOX_TOKEN", "secret")
	t.Setenv("MDINBOX_REPOSITORY", "bob/inbox")
	t.Setenv("MDINBOX_TIMEOUT", "5s")
	t.Setenv("MDINBOX_PREVIEW_LENGTH", "20")

	result, err := Load(context.Background(), LoadOptions{WorkingDir: tmpDir, IgnoreUserConfig: true})
	require.NoError(t, err)

	assert.Equal(t, "secret", result.Config.Token)
	assert.Equal(t, "bob/inbox", result.Config.Repository)
	assert.Equal(t, 5*time.Second, result.Config.Timeout)
	assert.Equal(t, 20, result.Config.PreviewLength)
}

func TestLoad_EnvironmentInvalid(t *testing.T) {
	t.Setenv("MDINBOX_AUTOSAVE_INTERVAL", "soon")

	_, err := Load(context.Background(), LoadOptions{WorkingDir: t.TempDir(), IgnoreUserConfig: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDINBOX_AUTOSAVE_INTERVAL")
}

func TestLoad_UserConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	userPath := filepath.Join(xdg, "mdinbox", "config.yaml")
	writeFile(t, userPath, "token: abc\nrepository: alice/notes\n")
	require.NoError(t, os.Chmod(userPath, 0o644))

	workDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(workDir, ".git"), 0o755))

	result, err := Load(context.Background(), LoadOptions{WorkingDir: workDir, IgnoreEnv: true})
	require.NoError(t, err)

	assert.Equal(t, userPath, result.Paths.User)
	assert.Equal(t, "abc", result.Config.Token)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "chmod 600")
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "repository: not-a-repo\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)
	assert.True(t, goerrors.IsValidation(err))
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".mdinbox.yml"), "folder: [unterminated\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".mdinbox.yml")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".mdinbox.yml"), "folder: /outer\n")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFindProjectConfig_PrefersYml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mdinbox.yaml"), "folder: /b\n")
	writeFile(t, filepath.Join(dir, ".mdinbox.yml"), "folder: /a\n")

	path, err := FindProjectConfig(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".mdinbox.yml"), path)
}

func TestDefaultDraftPath(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	assert.Equal(t, filepath.Join(state, "mdinbox", "draft.md"), DefaultDraftPath())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.NewConfig()
	cfg.Token = "abc"
	cfg.Repository = "alice/notes"

	saved, err := Save(context.Background(), cfg, path)
	require.NoError(t, err)
	assert.Equal(t, path, saved)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.Token)
	assert.Equal(t, "alice/notes", loaded.Repository)
	assert.Equal(t, cfg.AutosaveInterval, loaded.AutosaveInterval)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{Repository: "alice/notes", PreviewLength: 10},
		&config.Config{Repository: "bob/inbox"},
	)

	assert.Equal(t, "bob/inbox", merged.Repository)
	assert.Equal(t, 10, merged.PreviewLength)
	assert.Equal(t, config.DefaultFolder, merged.Folder)
	assert.Nil(t, MergeAll())
}

func TestSetField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   string
		value   string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name:  "string",
			field: "repository",
			value: "alice/notes",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "alice/notes", cfg.Repository)
			},
		},
		{
			name:  "duration",
			field: "autosave_interval",
			value: "3s",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, 3*time.Second, cfg.AutosaveInterval)
			},
		},
		{
			name:  "int",
			field: "preview_length",
			value: "50",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, 50, cfg.PreviewLength)
			},
		},
		{name: "bad int", field: "preview_length", value: "many", wantErr: true},
		{name: "unknown", field: "flavor", value: "gfm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			err := SetField(cfg, tt.field, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "MDINBOX_TOKEN")
	assert.Contains(t, vars, "MDINBOX_API_URL")
	assert.Equal(t, "MDINBOX_DRAFT_PATH", GetEnvVarName("draft_path"))
	assert.Empty(t, GetEnvVarName("nope"))
}
