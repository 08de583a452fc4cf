package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySpreadsheetID       = "spreadsheet.id"
	keyCredentialsFile     = "spreadsheet.credentials_file"
	keyCacheTTL            = "cache.ttl"
	keyPageSize            = "ui.page_size"
	keyClassifierMatch     = "classifier.match"
	keyClassifierKeywords  = "classifier.keywords_file"
	keyServerAddr          = "server.addr"
	keyServerSessionSecret = "server.session_secret"
	keyServerSessionTTL    = "server.session_ttl"
	keyServerGoogleClient  = "server.google_client_id"
	keyActivitySheet       = "activity.sheet"
	keySchedulerEnabled    = "scheduler.enabled"
	sheetsPrefix           = "sheets."
)

// SettingsService resolves domain.Settings from the config store and caches
// the result until Reload is called.
type SettingsService struct {
	configStore driven.ConfigStore

	mu       sync.RWMutex
	resolved *domain.Settings
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the current settings, resolving them on first use.
func (s *SettingsService) Get() (domain.Settings, error) {
	s.mu.RLock()
	if s.resolved != nil {
		out := *s.resolved
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	return s.resolve()
}

// Reload re-reads the config file and resolves settings again. On error the
// previous settings stay in effect.
func (s *SettingsService) Reload() (domain.Settings, error) {
	if err := s.configStore.Load(); err != nil {
		return domain.Settings{}, fmt.Errorf("reload config: %w", err)
	}
	return s.resolve()
}

// Sheets returns the configured sheets ordered by key.
func (s *SettingsService) Sheets() ([]domain.SheetRef, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return settings.Sheets, nil
}

// SetSpreadsheet stores the spreadsheet ID and credentials file.
func (s *SettingsService) SetSpreadsheet(id, credentialsFile string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("spreadsheet id: %w", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keySpreadsheetID, id); err != nil {
		return fmt.Errorf("save spreadsheet id: %w", err)
	}
	if credentialsFile != "" {
		if err := s.configStore.Set(keyCredentialsFile, credentialsFile); err != nil {
			return fmt.Errorf("save credentials file: %w", err)
		}
	}
	_, err := s.resolve()
	return err
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) resolve() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		SpreadsheetID:   s.configStore.GetString(keySpreadsheetID),
		CredentialsFile: s.configStore.GetString(keyCredentialsFile),
		Sheets:          s.getSheets(),
		ActivitySheet:   s.configStore.GetString(keyActivitySheet),
		CacheTTL:        s.getDuration(keyCacheTTL, defaults.CacheTTL),
		PageSize:        s.getInt(keyPageSize, defaults.PageSize),
		Classifier: domain.ClassifierSettings{
			Match:        domain.MatchMode(s.getString(keyClassifierMatch, string(defaults.Classifier.Match))),
			KeywordsFile: s.configStore.GetString(keyClassifierKeywords),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, defaults.Server.Addr),
			SessionSecret:  s.configStore.GetString(keyServerSessionSecret),
			SessionTTL:     s.getDuration(keyServerSessionTTL, defaults.Server.SessionTTL),
			GoogleClientID: s.configStore.GetString(keyServerGoogleClient),
		},
		Scheduler: s.getSchedulerConfig(),
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	s.mu.Lock()
	s.resolved = &settings
	s.mu.Unlock()

	logger.Debug("settings: %d sheets, cache ttl %s", len(settings.Sheets), settings.CacheTTL)
	return settings, nil
}

// getSheets collects [sheets.<key>] tables. Keys are discovered from the
// flattened config keys, so a sheet needs at least one field set.
func (s *SettingsService) getSheets() []domain.SheetRef {
	keys := make(map[string]bool)
	for _, k := range s.configStore.Keys() {
		if !strings.HasPrefix(k, sheetsPrefix) {
			continue
		}
		rest := strings.TrimPrefix(k, sheetsPrefix)
		if i := strings.Index(rest, "."); i > 0 {
			keys[rest[:i]] = true
		}
	}

	refs := make([]domain.SheetRef, 0, len(keys))
	for key := range keys {
		prefix := sheetsPrefix + key + "."
		refs = append(refs, domain.SheetRef{
			Key:       key,
			Kind:      domain.SheetKind(s.getString(prefix+"kind", string(domain.SheetKindLeads))),
			Range:     s.configStore.GetString(prefix + "range"),
			NameField: s.configStore.GetString(prefix + "name_field"),
			Title:     s.configStore.GetString(prefix + "title"),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Key < refs[j].Key })
	return refs
}

// getSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) getSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	// Master switch
	if _, exists := s.configStore.Get(keySchedulerEnabled); exists {
		defaults.Enabled = s.configStore.GetBool(keySchedulerEnabled)
	}

	// Map from task ID to config key (underscore version for TOML)
	taskKeys := map[string]string{
		domain.TaskIDSnapshotRefresh: "snapshot_refresh",
	}

	for taskID, configKey := range taskKeys {
		prefix := "scheduler." + configKey + "."

		taskCfg := defaults.TaskConfigs[taskID]

		if _, exists := s.configStore.Get(prefix + "enabled"); exists {
			taskCfg.Enabled = s.configStore.GetBool(prefix + "enabled")
		}
		taskCfg.Interval = s.getDuration(prefix+"interval", taskCfg.Interval)

		defaults.TaskConfigs[taskID] = taskCfg
	}

	return defaults
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getDuration accepts duration strings ("5m") and whole seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Warn("config %s: invalid duration %q, using %s", key, v, defaultVal)
			return defaultVal
		}
		return d
	case int64, int, float64:
		return time.Duration(s.configStore.GetInt(key)) * time.Second
	default:
		return defaultVal
	}
}
