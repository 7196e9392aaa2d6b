// Package session creates the shared identity of a discovery run: a dated,
// monotonically numbered session id and the results directory it owns.
package session

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	m "ducktape.dev/pkg/ducktape/internal/model"
	"ducktape.dev/pkg/ducktape/pkg/test"
)

const (
	// IDFileName is the file below the metadata dir holding the last session id.
	IDFileName = "session_id"
	// LatestLinkName is the link below the results root pointing at the newest session.
	LatestLinkName = "latest"
	// ManifestFileName is the file below a results directory listing the session's tests.
	ManifestFileName = "tests.yaml"

	dateLayout  = "2006-01-02"
	idSeparator = "--"
)

// Config selects where sessions keep their state.
type Config struct {
	WorkDir     string
	ResultsRoot string
	MetadataDir string
	// Ephemeral skips the id counter and the results directory.
	Ephemeral bool
	Debug     bool
	Args      test.Args
}

// Manager issues sessions.
type Manager struct {
	store  adapter.SessionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewManager constructs a Manager persisting through store.
func NewManager(store adapter.SessionStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{store: store, logger: logger, now: time.Now}
}

// Start issues the next session id, creates its results directory and
// repoints the latest link.
func (mgr *Manager) Start(cfg Config) (*test.Session, error) {
	if cfg.Ephemeral {
		session := test.NewSession(mgr.now().Format(dateLayout)+idSeparator+"000", cfg.WorkDir, mgr.logger, cfg.Args)
		session.Debug = cfg.Debug

		return session, nil
	}

	idFile := m.Path(filepath.Join(cfg.MetadataDir, IDFileName))

	last, err := mgr.store.LoadLastID(idFile)
	if err != nil {
		return nil, err
	}

	id := NextID(last, mgr.now())

	resultsDir := m.Path(filepath.Join(cfg.ResultsRoot, id))
	if err := mgr.store.CreateResultsDir(resultsDir); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	if err := mgr.store.SaveLastID(idFile, id); err != nil {
		return nil, err
	}

	absResults, err := filepath.Abs(string(resultsDir))
	if err != nil {
		return nil, err
	}

	if err := mgr.store.LinkLatest(m.Path(filepath.Join(cfg.ResultsRoot, LatestLinkName)), m.Path(absResults)); err != nil {
		mgr.logger.Warn("could not update latest results link", "error", err)
	}

	session := test.NewSession(id, cfg.WorkDir, mgr.logger, cfg.Args)
	session.ResultsDir = absResults
	session.Debug = cfg.Debug

	mgr.logger.Info("session started", "session", id, "results", absResults)

	return session, nil
}

// Record stores manifest in the results directory of session. Ephemeral
// sessions own no directory and record nothing.
func (mgr *Manager) Record(session *test.Session, manifest []byte) error {
	if session.ResultsDir == "" {
		return nil
	}

	file := m.Path(filepath.Join(session.ResultsDir, ManifestFileName))
	if err := mgr.store.WriteManifest(file, manifest); err != nil {
		return err
	}

	mgr.logger.Debug("recorded tests", "session", session.ID, "file", file)

	return nil
}

// Manifest loads what session id recorded below resultsRoot. LatestLinkName
// selects the newest session.
func (mgr *Manager) Manifest(resultsRoot, id string) ([]byte, error) {
	if id == "" {
		id = LatestLinkName
	}

	return mgr.store.ReadManifest(m.Path(filepath.Join(resultsRoot, id, ManifestFileName)))
}

// NextID returns the id following last on the day of now. The counter
// restarts at 1 every day; an unparseable last id is treated as absent.
func NextID(last string, now time.Time) string {
	date := now.Format(dateLayout)
	counter := 1

	if prefix, suffix, ok := strings.Cut(last, idSeparator); ok && prefix == date {
		if n, err := strconv.Atoi(suffix); err == nil && n >= 1 {
			counter = n + 1
		}
	}

	return fmt.Sprintf("%s%s%03d", date, idSeparator, counter)
}
