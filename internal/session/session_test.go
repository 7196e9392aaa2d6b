package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducktape.dev/pkg/ducktape/internal/adapter"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{"no previous session", "", "2024-03-05--001"},
		{"same day", "2024-03-05--007", "2024-03-05--008"},
		{"previous day", "2024-03-04--042", "2024-03-05--001"},
		{"garbage", "not-an-id", "2024-03-05--001"},
		{"bad counter", "2024-03-05--abc", "2024-03-05--001"},
		{"wide counter", "2024-03-05--999", "2024-03-05--1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.last, fixedNow))
		})
	}
}

func newTestManager() *Manager {
	mgr := NewManager(adapter.NewLocalSessionStore(), nil)
	mgr.now = func() time.Time { return fixedNow }

	return mgr
}

func TestManager_Start(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		WorkDir:     dir,
		ResultsRoot: filepath.Join(dir, "results"),
		MetadataDir: filepath.Join(dir, ".ducktape"),
		Args:        map[string]any{"format": "table"},
	}

	mgr := newTestManager()

	first, err := mgr.Start(cfg)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05--001", first.ID)
	assert.DirExists(t, first.ResultsDir)
	assert.Equal(t, "table", first.Args["format"])

	second, err := mgr.Start(cfg)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05--002", second.ID)

	stored, err := os.ReadFile(filepath.Join(cfg.MetadataDir, IDFileName))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05--002\n", string(stored))

	target, err := os.Readlink(filepath.Join(cfg.ResultsRoot, LatestLinkName))
	require.NoError(t, err)
	assert.Equal(t, second.ResultsDir, target)
}

func TestManager_StartRefusesExistingResults(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ResultsRoot: filepath.Join(dir, "results"),
		MetadataDir: filepath.Join(dir, ".ducktape"),
	}

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ResultsRoot, "2024-03-05--001"), 0o755))

	_, err := newTestManager().Start(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrResultsDirExists)
}

func TestManager_StartEphemeral(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ResultsRoot: filepath.Join(dir, "results"),
		MetadataDir: filepath.Join(dir, ".ducktape"),
		Ephemeral:   true,
		Debug:       true,
	}

	session, err := newTestManager().Start(cfg)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05--000", session.ID)
	assert.Empty(t, session.ResultsDir)
	assert.True(t, session.Debug)
	assert.NoDirExists(t, cfg.ResultsRoot)
	assert.NoDirExists(t, cfg.MetadataDir)
}

func TestManager_RecordAndManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ResultsRoot: filepath.Join(dir, "results"),
		MetadataDir: filepath.Join(dir, ".ducktape"),
	}

	mgr := newTestManager()

	session, err := mgr.Start(cfg)
	require.NoError(t, err)
	require.NoError(t, mgr.Record(session, []byte("total: 2\n")))

	latest, err := mgr.Manifest(cfg.ResultsRoot, "")
	require.NoError(t, err)
	assert.Equal(t, "total: 2\n", string(latest))

	byID, err := mgr.Manifest(cfg.ResultsRoot, session.ID)
	require.NoError(t, err)
	assert.Equal(t, latest, byID)

	_, err = mgr.Manifest(cfg.ResultsRoot, "2024-03-05--009")
	assert.ErrorIs(t, err, adapter.ErrNoManifest)
}

func TestManager_RecordEphemeral(t *testing.T) {
	mgr := newTestManager()

	session, err := mgr.Start(Config{Ephemeral: true})
	require.NoError(t, err)
	assert.NoError(t, mgr.Record(session, []byte("total: 0\n")))
}
