// Package app is the composition root: it builds every adapter and service
// from the config directory and hands them to the driving adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/leadsheet/internal/adapters/driven/auth"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/keywords"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/sanitize"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/sheets"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadsheet/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/core/services"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Options configures Bootstrap.
type Options struct {
	// ConfigDir holds config.toml. Empty means ~/.leadsheet.
	ConfigDir string

	// DataDir holds the sqlite database. Empty means ~/.leadsheet/data.
	DataDir string

	// InMemory skips sqlite and keeps snapshots and task state in memory.
	InMemory bool
}

// App holds the wired services.
type App struct {
	Config    driven.ConfigStore
	Settings  *services.SettingsService
	Records   *services.RecordService
	Activity  *services.ActivityService
	Billing   *services.BillingService
	Auth      *services.AuthService
	Scheduler *services.Scheduler
	// Watcher is nil when configuration came from the environment.
	Watcher *file.Watcher

	store *sqlite.Store
}

// Bootstrap builds the application. A missing or unreadable spreadsheet
// configuration does not fail startup; reads report ErrSourceUnavailable
// until the config is fixed and the process restarted.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	logger.Section("Bootstrap")

	cfg, fileCfg, err := openConfig(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsSvc := services.NewSettingsService(cfg)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	logger.Debug("config: %s, %d sheet(s)", cfg.Path(), len(settings.Sheets))

	a := &App{Config: cfg, Settings: settingsSvc}

	snapshots, tasks := a.openStorage(opts)

	classifier, err := buildClassifier(settings.Classifier)
	if err != nil {
		a.Close()
		return nil, err
	}

	source := openSource(ctx, settings)

	a.Activity = services.NewActivityService(settingsSvc, source, snapshots)
	a.Records = services.NewRecordService(settingsSvc, source, snapshots, classifier)
	a.Records.SetActivityService(a.Activity)
	a.Records.SetSanitizer(sanitize.NewStrict())
	a.Billing = services.NewBillingService(a.Records)
	a.Scheduler = services.NewScheduler(settings.Scheduler, tasks, a.Records)

	a.Auth, err = buildAuth(ctx, settings.Server)
	if err != nil {
		a.Close()
		return nil, err
	}

	if fileCfg != nil {
		a.Watcher = file.NewWatcher(fileCfg, func() {
			if _, err := settingsSvc.Reload(); err != nil {
				logger.Warn("config reload failed, keeping previous settings: %v", err)
				return
			}
			logger.Info("config reloaded")
		})
	}

	return a, nil
}

// openConfig opens config.toml. When the config directory cannot be used
// it falls back to LEADSHEET_* environment variables; the second return
// is then nil.
func openConfig(dir string) (driven.ConfigStore, *file.ConfigStore, error) {
	cfg, err := file.NewConfigStore(dir)
	if err == nil {
		return cfg, cfg, nil
	}
	if !errors.Is(err, file.ErrConfigDir) {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	logger.Warn("config: %v; using %s* environment", err, memory.EnvPrefix)
	return memory.NewConfigStore(memory.ConfigFromEnv(os.Environ())), nil, nil
}

// openStorage opens sqlite, falling back to memory stores when the
// database cannot be opened.
func (a *App) openStorage(opts Options) (driven.SnapshotStore, driven.SchedulerStore) {
	if !opts.InMemory {
		store, err := sqlite.NewStore(opts.DataDir)
		if err == nil {
			a.store = store
			logger.Debug("storage: %s", store.Path())
			return store.SnapshotStore(), store.SchedulerStore()
		}
		logger.Warn("storage: %v; using in-memory cache", err)
	}
	return memory.NewSnapshotStore(), memory.NewSchedulerStore()
}

// buildClassifier loads the keyword file when configured.
func buildClassifier(cfg domain.ClassifierSettings) (*services.Classifier, error) {
	words := services.DefaultKeywords
	if cfg.KeywordsFile != "" {
		var src driven.KeywordSource = keywords.NewFile(cfg.KeywordsFile, services.DefaultKeywords)
		loaded, err := src.Keywords()
		if err != nil {
			return nil, fmt.Errorf("load classifier keywords: %w", err)
		}
		words = loaded
		logger.Debug("classifier: %d keywords from %s", len(words), cfg.KeywordsFile)
	}
	return services.NewClassifier(words, cfg.Match), nil
}

// openSource connects to Google Sheets, or returns a source that fails
// every call with the connection error.
func openSource(ctx context.Context, settings domain.Settings) driven.SheetSource {
	if settings.SpreadsheetID == "" {
		return unavailableSource{err: fmt.Errorf("spreadsheet.id is not set: %w", domain.ErrSourceUnavailable)}
	}
	provider, err := auth.NewServiceAccountProvider(ctx, settings.CredentialsFile)
	if err != nil {
		logger.Warn("sheets: %v", err)
		return unavailableSource{err: err}
	}
	src, err := sheets.NewFromProvider(ctx, provider, settings.SpreadsheetID)
	if err != nil {
		logger.Warn("sheets: %v", err)
		return unavailableSource{err: fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)}
	}
	if p := provider.Principal(); p != "" {
		logger.Debug("sheets: authenticating as %s", p)
	}
	return src
}

// buildAuth wires the session and Google verifiers that are configured.
func buildAuth(ctx context.Context, cfg domain.ServerSettings) (*services.AuthService, error) {
	var (
		issuer    driven.TokenIssuer
		verifiers []driven.TokenVerifier
	)

	if cfg.SessionSecret != "" {
		session, err := auth.NewSessionTokens(cfg.SessionSecret)
		if err != nil {
			return nil, fmt.Errorf("server.session_secret: %w", err)
		}
		issuer = session
		verifiers = append(verifiers, session)
	}

	if cfg.GoogleClientID != "" {
		google, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			return nil, fmt.Errorf("server.google_client_id: %w", err)
		}
		verifiers = append(verifiers, google)
	}

	if len(verifiers) == 0 {
		logger.Debug("auth: no verifiers configured, write routes will reject every request")
	}
	return services.NewAuthService(issuer, cfg.SessionTTL, verifiers...), nil
}

// Close releases the database.
func (a *App) Close() error {
	var errs []error
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
		a.store = nil
	}
	return errors.Join(errs...)
}
