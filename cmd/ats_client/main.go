// Package main provides the entry point for the ATS client CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/session"
)

var rootCmd = &cobra.Command{
	Use:           "ats_client",
	Short:         "Resume analysis and mock interview client",
	Long:          "ats_client uploads a resume PDF and a job description to the analysis service, then shows the ATS match analysis or generated mock interview questions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if app != nil {
			_ = app.logger.Sync()
		}
	},
}

var (
	rootConfigPath  string
	rootAPIURL      string
	rootSessionFile string
	rootLogLevel    string
	rootLogFormat   string
	rootLogFile     string
	rootTimeout     int
	rootVerbose     bool
	rootNoColor     bool
)

// appContext is what every command works with once flags and config are resolved.
type appContext struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *client.Client
	store   *session.Store
	printer *observability.Printer
}

var app *appContext

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootConfigPath, "config", "c", "", "Path to JSON config file")
	flags.StringVar(&rootAPIURL, "api-url", "", "Analysis service base URL (overrides "+config.EnvAPIURL+")")
	flags.StringVar(&rootSessionFile, "session-file", "", "Where the login token is stored (overrides "+config.EnvSessionFile+")")
	flags.StringVar(&rootLogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	flags.StringVar(&rootLogFormat, "log-format", "", "Diagnostic log format: console or json")
	flags.StringVar(&rootLogFile, "log-file", "", "Also write diagnostics to this rotating file")
	flags.IntVar(&rootTimeout, "timeout", 0, "Request timeout in seconds (0 means none)")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Stream the run log while a request is in flight")
	flags.BoolVar(&rootNoColor, "no-color", false, "Disable colored output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		observability.NewPrinter(os.Stderr).PrintFailure(err.Error())
		os.Exit(1)
	}
}

// resolveConfig layers defaults, the environment, the config file and explicitly set flags,
// in increasing precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		fileCfg, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(envCfg)

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = rootAPIURL
	}
	if flags.Changed("session-file") {
		cfg.SessionFile = rootSessionFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = rootLogFormat
	}
	if flags.Changed("log-file") {
		cfg.LogFile = rootLogFile
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeoutSeconds = rootTimeout
	}
	cfg.Verbose = cfg.Verbose || rootVerbose

	defaults := config.Config{
		APIURL:    config.DefaultAPIURL,
		OutputDir: ".",
		LogLevel:  "warn",
		LogFormat: "console",
	}
	if cfg.SessionFile == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		defaults.SessionFile = path
	}
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}, cmd.ErrOrStderr())

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if rootNoColor {
		printer.WithoutColor()
	}

	app = &appContext{
		cfg:    cfg,
		logger: logger,
		client: client.New(cfg.APIURL,
			client.WithTimeout(cfg.RequestTimeout()),
			client.WithLogger(logger),
		),
		store:   session.NewStore(cfg.SessionFile),
		printer: printer,
	}
	logger.Debug("configuration resolved",
		zap.String("api_url", cfg.APIURL),
		zap.String("session_file", cfg.SessionFile),
		zap.Int("timeout_seconds", cfg.RequestTimeoutSeconds))
	return nil
}

// requireSession loads the stored session and fails when there is none.
func requireSession() (session.Session, error) {
	sess, err := app.store.Load()
	if err != nil {
		return session.Session{}, err
	}
	if err := sess.Require(); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}
