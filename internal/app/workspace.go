package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/notify"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"go.uber.org/zap"
)

func catalogManager() *catalog.Manager {
	return catalog.NewManager(cfg.CatalogDir(), cfg.CatalogColumns())
}

// loadIndex returns the imported catalog. Without one, an empty index is
// returned so scans still classify as not found.
func loadIndex() (*catalog.Index, *catalog.Meta, error) {
	idx, meta, err := catalogManager().Load()
	if errors.Is(err, catalog.ErrNoCatalog) {
		warn("No catalog imported yet. Run: shelfcount catalog import FILE")
		return catalog.Build(nil), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return idx, meta, nil
}

func loadRefs() (*reference.Set, error) {
	return reference.Load(cfg.ReferencesPath())
}

func openStore() (store.Port, error) {
	return store.Open(cfg.Store.Backend, cfg.DataDir, cfg.Store.SQLitePath)
}

// sessionName resolves --session or the current session.
func sessionName() (string, error) {
	if flagSession != "" {
		return flagSession, nil
	}
	name, err := store.Current(cfg.DataDir)
	if err != nil {
		return "", fmt.Errorf("reading current session: %w", err)
	}
	if name == "" {
		return "", errors.New("no session selected. Run: shelfcount session new NAME")
	}
	return name, nil
}

// workspace is a restored session with everything it was loaded with.
type workspace struct {
	session *session.Session
	store   store.Port
	journal *store.Journal
	index   *catalog.Index
	meta    *catalog.Meta
	refs    *reference.Set
	// catalogSHA is the catalog fingerprint the session was started with.
	catalogSHA string
}

// openWorkspace restores the selected session. The caller must close it.
func openWorkspace(ctx context.Context, notifier notify.Port) (*workspace, error) {
	name, err := sessionName()
	if err != nil {
		return nil, err
	}
	idx, meta, err := loadIndex()
	if err != nil {
		return nil, err
	}
	refs, err := loadRefs()
	if err != nil {
		return nil, err
	}
	// Owners found in the catalog are known libraries even without a name.
	refs.Libraries = refs.Libraries.WithCodes(idx.LibraryCodes())
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	snap, err := st.Load(ctx, name)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	journal, err := store.OpenJournal(cfg.DataDir, name, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := session.Restore(snap, session.Options{
		Index:     idx,
		Libraries: refs.Libraries,
		Locations: refs.Locations,
		Policy:    cfg.ClassifyPolicy(),
		Notifier:  notifier,
		Observers: []session.Observer{journal},
		Logger:    logger,
	})
	logger.Debug("session restored",
		zap.String("session", name),
		zap.Int("events", s.Len()),
		zap.Int("catalog_records", idx.Len()))

	return &workspace{
		session:    s,
		store:      st,
		journal:    journal,
		index:      idx,
		meta:       meta,
		refs:       refs,
		catalogSHA: snap.CatalogSHA,
	}, nil
}

func (w *workspace) snapshot() store.Snapshot {
	snap := w.session.Snapshot()
	snap.CatalogSHA = w.catalogSHA
	return snap
}

// save persists the session. It still runs after ctx is cancelled so an
// interrupted ingest keeps its completed chunks. A failure is reported but
// the in-memory session stays usable.
func (w *workspace) save(ctx context.Context) {
	if err := w.store.Save(context.WithoutCancel(ctx), w.snapshot()); err != nil {
		logger.Error("session save failed", zap.String("session", w.session.Name()), zap.Error(err))
		warn("Session not saved: %v", err)
	}
}

func (w *workspace) reportInput() report.Input {
	return report.Input{State: w.snapshot(), Index: w.index, Refs: w.refs}
}

// catalogChanged reports whether the imported catalog differs from the one
// the session was started with.
func (w *workspace) catalogChanged() bool {
	return w.meta != nil && w.catalogSHA != "" && w.meta.SHA256 != w.catalogSHA
}

func (w *workspace) close() {
	_ = w.store.Close()
}
