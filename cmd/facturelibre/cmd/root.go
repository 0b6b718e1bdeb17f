package cmd

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose       bool
	outputFormat  string
	numberPattern string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "facturelibre",
	Short: "Generate French micro-entrepreneur Factur-X invoices",
	Long: `facturelibre turns a JSON invoice record into a Factur-X / EN 16931
hybrid e-invoice: a PDF/A-3 with a human-readable rendering and an
embedded machine-readable XML payload.

Examples:
  # Generate a PDF invoice
  facturelibre generate invoice.json

  # Validate without generating
  facturelibre validate invoice.json

  # Start the HTTP API
  facturelibre serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&numberPattern, "number-pattern", "", "Invoice numbering pattern (env: FACTURELIBRE_NUMBER_PATTERN)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional, env vars win over nothing
	_ = godotenv.Load()

	if numberPattern == "" {
		numberPattern = os.Getenv("FACTURELIBRE_NUMBER_PATTERN")
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// patternOption parses the configured numbering pattern, nil when unset
func patternOption() (*regexp.Regexp, error) {
	if numberPattern == "" {
		return nil, nil
	}
	return regexp.Compile(numberPattern)
}
