package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/config"
	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/export/metrics"
	"github.com/abdul-hamid-achik/suitekit/packages/history"
	"github.com/abdul-hamid-achik/suitekit/packages/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runOptions struct {
	build BuildFunc

	configPath   string
	verbosity    string
	quiet        bool
	verbose      int // 0=off, 1=-v stack traces
	noColor      bool
	reportPath   string
	reportFormat string
	listingFile  string
	metricsFile  string
	historyDB    string
	name         string
	caseTimeout  time.Duration
	runTimeout   time.Duration
	strictSuites bool
	table        bool
	logLevel     string
	logFormat    string
}

func newRunCmd(build BuildFunc) *cobra.Command {
	o := &runOptions{build: build}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered suites",
		Long: `Run every registered suite in registration order and report the results.

The console report goes to stdout. A structured report is always written
to the report path (suitekit-results.json unless configured otherwise).

Examples:
  suitekit run
  suitekit run -q
  suitekit run --name "Arith.*" --case-timeout 5s
  suitekit run --report out/results.xml --report-format junit
  suitekit run --listing-file suites.txt --metrics-file suitekit.prom`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	f := runCmd.Flags()
	f.StringVar(&o.configPath, "config", getEnvString("SUITEKIT_CONFIG", ""), "Path to config file (env: SUITEKIT_CONFIG)")
	f.StringVar(&o.verbosity, "verbosity", getEnvString("SUITEKIT_VERBOSITY", ""), "Console verbosity: quiet, verbose (env: SUITEKIT_VERBOSITY)")
	f.BoolVarP(&o.quiet, "quiet", "q", getEnvBool("SUITEKIT_QUIET", false), "Print only the summary line (env: SUITEKIT_QUIET)")
	f.CountVarP(&o.verbose, "verbose", "v", "Verbose output with stack traces for errored cases")
	f.BoolVar(&o.noColor, "no-color", getEnvBool("SUITEKIT_NO_COLOR", false), "Disable colored output (env: SUITEKIT_NO_COLOR)")
	f.StringVar(&o.reportPath, "report", getEnvString("SUITEKIT_REPORT", ""), "Structured report path (env: SUITEKIT_REPORT)")
	f.StringVar(&o.reportFormat, "report-format", getEnvString("SUITEKIT_REPORT_FORMAT", ""), "Report format: json, jsonl, junit, tap, html (env: SUITEKIT_REPORT_FORMAT)")
	f.StringVar(&o.listingFile, "listing-file", getEnvString("SUITEKIT_LISTING_FILE", ""), "Write the suite listing to this file (env: SUITEKIT_LISTING_FILE)")
	f.StringVar(&o.metricsFile, "metrics-file", getEnvString("SUITEKIT_METRICS_FILE", ""), "Write Prometheus metrics to this file (env: SUITEKIT_METRICS_FILE)")
	f.StringVar(&o.historyDB, "history", getEnvString("SUITEKIT_HISTORY", ""), "Record the run in this SQLite database (env: SUITEKIT_HISTORY)")
	f.StringVarP(&o.name, "name", "n", getEnvString("SUITEKIT_NAME", ""), "Run only cases matching name pattern (env: SUITEKIT_NAME)")
	f.DurationVar(&o.caseTimeout, "case-timeout", getEnvDuration("SUITEKIT_CASE_TIMEOUT", 0), "Per-case time limit, 0 for none (env: SUITEKIT_CASE_TIMEOUT)")
	f.DurationVar(&o.runTimeout, "run-timeout", getEnvDuration("SUITEKIT_RUN_TIMEOUT", 0), "Whole-run time limit, 0 for none (env: SUITEKIT_RUN_TIMEOUT)")
	f.BoolVar(&o.strictSuites, "strict-suites", getEnvBool("SUITEKIT_STRICT_SUITES", false), "Reject suites without cases (env: SUITEKIT_STRICT_SUITES)")
	f.BoolVar(&o.table, "table", getEnvBool("SUITEKIT_TABLE", false), "Print a per-suite summary table (env: SUITEKIT_TABLE)")
	f.StringVar(&o.logLevel, "log-level", getEnvString("SUITEKIT_LOG_LEVEL", ""), "Diagnostic log level: debug, info, warn, error (env: SUITEKIT_LOG_LEVEL)")
	f.StringVar(&o.logFormat, "log-format", getEnvString("SUITEKIT_LOG_FORMAT", ""), "Diagnostic log format: text, json (env: SUITEKIT_LOG_FORMAT)")

	return runCmd
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// flagSet reports whether a bool flag was given on the command line or
// through its environment variable.
func flagSet(cmd *cobra.Command, name, envKey string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	_, ok := os.LookupEnv(envKey)
	return ok
}

// resolveConfig layers flags over the config file over defaults.
func (o *runOptions) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg := config.DefaultConfig().Merge(fileConfig)

	flags := &config.Config{
		Verbosity:   o.verbosity,
		Report:      config.ReportConfig{Path: o.reportPath, Format: o.reportFormat},
		ListingFile: o.listingFile,
		MetricsFile: o.metricsFile,
		HistoryDB:   o.historyDB,
		CaseTimeout: o.caseTimeout,
		RunTimeout:  o.runTimeout,
		NameFilter:  o.name,
		LogLevel:    o.logLevel,
		LogFormat:   o.logFormat,
	}
	if o.quiet {
		flags.Verbosity = config.VerbosityQuiet
	}
	if o.verbose > 0 {
		flags.Verbosity = config.VerbosityVerbose
	}
	if flagSet(cmd, "no-color", "SUITEKIT_NO_COLOR") {
		flags.NoColor = config.BoolPtr(o.noColor)
	}
	if flagSet(cmd, "strict-suites", "SUITEKIT_STRICT_SUITES") {
		flags.AllowEmptySuites = config.BoolPtr(!o.strictSuites)
	}
	if flagSet(cmd, "table", "SUITEKIT_TABLE") {
		flags.SummaryTable = config.BoolPtr(o.table)
	}

	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger. Diagnostics go to stderr so they
// never mix with the console report.
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: cfg.GetNoColor(),
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (use text or json)", cfg.LogFormat)
	}
	return log, nil
}

// buildRegistry creates the registry, lets build populate it and freezes it.
func buildRegistry(build BuildFunc, allowEmpty bool) (*registry.Registry, error) {
	reg := registry.New(registry.WithAllowEmptySuites(allowEmpty))
	if build != nil {
		if err := build(reg); err != nil {
			return nil, fmt.Errorf("registering suites: %w", err)
		}
	}
	reg.Freeze()
	return reg, nil
}

func (o *runOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	verbosity, err := output.ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	console := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbosity(verbosity),
		output.WithStackTraces(o.verbose > 0),
		output.WithSummaryTable(cfg.GetSummaryTable()),
		output.WithNoColor(cfg.GetNoColor()),
	)
	console.FormatHeader(version)

	reg, err := buildRegistry(o.build, cfg.GetAllowEmptySuites())
	if err != nil {
		console.FormatError(err)
		return withExitCode(ExitSetupError, nil)
	}
	log.WithFields(logrus.Fields{"suites": reg.Len(), "cases": reg.CaseCount()}).Debug("Registry frozen")

	if cfg.ListingFile != "" {
		suites, _ := reg.Suites()
		if err := output.WriteListing(cfg.ListingFile, suites); err != nil {
			log.WithError(err).Warn("Could not write suite listing")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	r := runner.NewRunner(&runner.Config{
		CaseTimeout: cfg.CaseTimeout,
		NameFilter:  cfg.NameFilter,
		Logger:      log,
	})
	result, err := r.Execute(ctx, reg)
	if err != nil {
		console.FormatError(err)
		return withExitCode(ExitSetupError, nil)
	}

	console.FormatResult(result)

	// Artifacts are best effort. They never change the exit code.
	if err := output.WriteReport(cfg.Report.Path, cfg.Report.Format, version, result); err != nil {
		log.WithError(err).Warn("Could not write report")
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	} else {
		log.WithField("path", cfg.Report.Path).Info("Report written")
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, result); err != nil {
			log.WithError(err).Warn("Could not write metrics")
		}
	}

	if cfg.HistoryDB != "" {
		if err := saveHistory(context.Background(), cfg.HistoryDB, result); err != nil {
			log.WithError(err).Warn("Could not record run history")
		}
	}

	if code := runner.ExitCode(result); code != ExitSuccess {
		return withExitCode(code, nil)
	}
	return nil
}

func saveHistory(ctx context.Context, path string, result *runner.RunResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, result)
}
