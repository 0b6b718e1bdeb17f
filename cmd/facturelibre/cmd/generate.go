package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vartur/facturelibre/pkg/facturelib"
)

var (
	outputDir string
	timeout   time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate Factur-X PDF invoices",
	Long: `Generate one or more Factur-X PDF/A-3 invoices from JSON records.

Each record is validated against the French micro-entrepreneur and
EN 16931 rules before any document is produced. All violations are
reported at once; no partial document is ever written.

Examples:
  facturelibre generate invoice.json
  facturelibre generate invoices/*.json -o out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Output directory for generated PDFs")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Processing timeout per file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	pattern, err := patternOption()
	if err != nil {
		return fmt.Errorf("invalid number pattern: %w", err)
	}

	var opts []facturelib.Option
	if pattern != nil {
		opts = append(opts, facturelib.WithNumberPattern(pattern))
	}
	gen := facturelib.NewGenerator(opts...)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var failed int
	for _, file := range args {
		if err := generateFile(gen, file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("generation failed")
			failed++
			continue
		}
	}

	if failed > 0 {
		return fmt.Errorf("generation failed for %d of %d files", failed, len(args))
	}
	return nil
}

func generateFile(gen *facturelib.Generator, file string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	record, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	outPath := filepath.Join(outputDir, base+".pdf")

	result, err := gen.GenerateFile(ctx, record, outPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("invoice", result.Invoice.Number).
		Str("total", result.Invoice.GrandTotal.StringFixed(2)).
		Str("output", outPath).
		Msg("invoice generated")
	return nil
}
