// Package cli provides the cobra command tree for leadsheet.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	verbose   bool
	configDir string
)

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "leadsheet/no-services"

var rootCmd = &cobra.Command{
	Use:   "leadsheet",
	Short: "Browse and edit lead spreadsheets",
	Long: `leadsheet reads customer, lead and billing sheets from Google Sheets,
classifies names as schools or other businesses, and lets you filter,
page through and edit the records from the terminal, an HTTP API or an
MCP client.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Services are the driving ports the commands use.
type Services struct {
	Records   driving.RecordService
	Activity  driving.ActivityService
	Billing   driving.BillingService
	Settings  driving.SettingsService
	Auth      driving.AuthService
	Scheduler driving.Scheduler

	// Watcher reloads settings when the config file changes. Optional.
	Watcher Runner

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Runner is a long-running background component.
type Runner interface {
	Run(ctx context.Context) error
}

// Bootstrap builds the services for a config directory.
type Bootstrap func(ctx context.Context, configDir string) (*Services, error)

var (
	recordService   driving.RecordService
	activityService driving.ActivityService
	billingService  driving.BillingService
	settingsService driving.SettingsService
	authService     driving.AuthService
	scheduler       driving.Scheduler
	configWatcher   Runner
	closeServices   func() error

	bootstrap Bootstrap
)

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	recordService = s.Records
	activityService = s.Activity
	billingService = s.Billing
	settingsService = s.Settings
	authService = s.Auth
	scheduler = s.Scheduler
	configWatcher = s.Watcher
	closeServices = s.Close
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.leadsheet)")
}

// Execute runs the root command. Command output goes to stdout so it can
// be piped; logs and prompts stay on stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	if recordService != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// Shutdown releases bootstrapped services and flushes the logger.
func Shutdown() {
	if closeServices != nil {
		if err := closeServices(); err != nil {
			logger.Warn("closing services: %v", err)
		}
		closeServices = nil
	}
	_ = logger.Sync()
}

// operator is the identity CLI writes are attributed to.
func operator() *domain.Identity {
	name := os.Getenv("USER")
	if name == "" {
		name = os.Getenv("USERNAME")
	}
	if name == "" {
		name = "operator"
	}
	return &domain.Identity{Subject: name, Name: name, Provider: "cli"}
}

// errNotConfigured is returned when a command runs without its service.
var errNotConfigured = errors.New("service not configured")
