package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"namestat/internal/config"
	"namestat/internal/model/naming"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestSources(t *testing.T) {
	cfg := config.Default()

	repos, err := sources(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []config.Repository{{Path: "."}}, repos)

	repos, err = sources(cfg, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []config.Repository{{Path: "a"}, {Path: "b"}}, repos)

	cfg.App.WorkDir = "/work"
	cfg.Source.Repositories = []config.Repository{
		{Name: "remote", URL: "https://example.com/r.git", Path: "r"},
		{Name: "local", Path: "src"},
	}
	repos, err = sources(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "r"), repos[0].Path)
	assert.Equal(t, "src", repos[1].Path)
	assert.Equal(t, "r", cfg.Source.Repositories[0].Path)
}

func TestSources_Git(t *testing.T) {
	t.Cleanup(func() { gitURL = "" })
	cfg := config.Default()
	target := filepath.Join(t.TempDir(), "clone")

	gitURL = "https://example.com/project.git"
	repos, err := sources(cfg, []string{target})
	require.NoError(t, err)
	assert.Equal(t, []config.Repository{{URL: gitURL, Path: target}}, repos)

	_, err = sources(cfg, nil)
	assert.Error(t, err)

	gitURL = "https://example.com/project"
	_, err = sources(cfg, []string{target})
	assert.ErrorIs(t, err, naming.ErrConfiguration)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

// execute runs the root command with fresh flag state and no config files
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		})
	}
	reset(rootCmd.Flags())
	reset(rootCmd.PersistentFlags())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", "", "--source", "", "--log-level", "error"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_ScansPathArgument(t *testing.T) {
	dir := t.TempDir()
	src := "def get_user():\n    pass\n\ndef set_user(value):\n    pass\n\nclass Account:\n    def __init__(self):\n        pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.py"), []byte(src), 0o644))

	out, err := execute(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "total 2 words, 2 is unique\n'get': 1 time(s)\n'set': 1 time(s)\n", out)
}

func TestRootCommand_Flags(t *testing.T) {
	dir := t.TempDir()
	src := "cfg.save_state()\ncfg.save_state()\nrepo.load_data()\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attrs.py"), []byte(src), 0o644))

	out, err := execute(t, "-n", "vars", "-w", "noun", "--order", "descending", dir)
	require.NoError(t, err)
	assert.Equal(t, "total 2 words, 2 is unique\n'state': 2 time(s)\n'data': 1 time(s)\n", out)
}

func TestRootCommand_GitRejectedBeforeScan(t *testing.T) {
	existing := t.TempDir()

	_, err := execute(t, "-g", "https://example.com/project", filepath.Join(t.TempDir(), "clone"))
	assert.ErrorIs(t, err, naming.ErrConfiguration)

	_, err = execute(t, "-g", "https://example.com/project.git", existing)
	assert.ErrorIs(t, err, naming.ErrConfiguration)

	_, err = execute(t, "-g", "https://example.com/project.git")
	assert.Error(t, err)
}

func TestRootCommand_UnknownOutput(t *testing.T) {
	out, err := execute(t, "-o", "xml", t.TempDir())
	assert.ErrorIs(t, err, naming.ErrConfiguration)
	assert.Empty(t, out)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["tagger"])
	assert.NotNil(t, rootCmd.Args)
	assert.NoError(t, cobra.ArbitraryArgs(rootCmd, []string{"a", "b"}))
}
