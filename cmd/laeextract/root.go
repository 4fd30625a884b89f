package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/logging"
)

// .env is loaded during package variable initialization, before any init()
// reads flag defaults from the environment.
var _ = loadDotEnv()

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "laeextract",
	Short: "Structured data extraction from German CTPA reports",
	Long: "Extracts pulmonary embolism findings from templated CT pulmonary angiography reports " +
		"with a rules engine or a language model and computes the Heidelberg Clot Burden Score.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", os.Getenv("LAEEXTRACT_CONFIG"), "YAML config file (or set LAEEXTRACT_CONFIG)")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string; results are also stored when set (or set DATABASE_URL)")
	pf.StringVar(&cfg.ReportsFile, "reports-file", os.Getenv("REPORTS_FILE"), "CSV or Parquet file with one report per row (or set REPORTS_FILE)")
	pf.StringVar(&cfg.StudyIDColumn, "study-id-column", envOr("STUDY_ID_COLUMN", "study_id"), "Column holding the study ID")
	pf.StringVar(&cfg.ReportColumn, "report-column", envOr("REPORT_COLUMN", "report"), "Column holding the report text")
	pf.StringVar(&cfg.OutputDir, "output-dir", envOr("OUTPUT_DIR", "output"), "Directory for result tables and the run log")
	pf.StringVar(&cfg.InputEncoding, "input-encoding", os.Getenv("INPUT_ENCODING"), "Character set of CSV input: utf-8, windows-1252, iso-8859-1 or iso-8859-15")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.MetricsFile, "metrics-file", os.Getenv("METRICS_FILE"), "Write Prometheus metrics in textfile format to this path")
	pf.BoolVar(&cfg.NoTimestamp, "no-timestamp", false, "Omit the run timestamp from output file names")
	pf.IntVar(&cfg.Limit, "limit", envInt("LIMIT_REPORTS", 0), "Process only the first N reports (0 = all; or set LIMIT_REPORTS)")
	pf.StringArrayVar(&cfg.StudyIDs, "study-id", nil, "Process only these study IDs (repeatable; overrides --limit)")
}

// loadConfig merges the optional YAML file under the flags set explicitly.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return nil
	}
	explicit := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if err := cfg.LoadFromFile(configFile, explicit); err != nil {
		return usageError(err)
	}
	return nil
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil && !ee.logged {
			fmt.Fprintln(os.Stderr, "Error:", ee.err)
		}
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(exitcode.UsageError)
}

// exitError carries the process exit code out of a command.
type exitError struct {
	code   int
	err    error
	logged bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: exitcode.UsageError, err: err} }

// fail logs err and returns it with the given exit code.
func fail(log zerolog.Logger, code int, err error, msg string) error {
	log.Error().Err(err).Msg(msg)
	return &exitError{code: code, err: err, logged: true}
}

// progressWriter returns where progress bars are drawn; JSON logs get none.
func progressWriter() io.Writer {
	if cfg.LogFormat == "json" {
		return nil
	}
	return os.Stderr
}

func loadDotEnv() bool {
	// A missing .env is normal.
	return godotenv.Load() == nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func newLogger() zerolog.Logger {
	return logging.Setup(cfg.LogFormat)
}
