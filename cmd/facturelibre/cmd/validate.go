package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vartur/facturelibre/pkg/facturelib"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice records",
	Long: `Validate one or more JSON invoice records without generating documents.

Checks performed:
  - Structural: required fields present and well typed
  - Seller identifier (SIREN/SIRET registry format)
  - Tax treatment consistency (franchise regime, allowed VAT rates)
  - Invoice numbering, dates, line items, payment means

Every rule is evaluated; all violations are listed, not just the first.

Examples:
  facturelibre validate invoice.json
  facturelibre validate invoices/*.json -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// fileReport holds the validation outcome for one file
type fileReport struct {
	File       string                 `json:"file"`
	Valid      bool                   `json:"valid"`
	Error      string                 `json:"error,omitempty"`
	Violations []facturelib.Violation `json:"violations,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	pattern, err := patternOption()
	if err != nil {
		return fmt.Errorf("invalid number pattern: %w", err)
	}

	var opts []facturelib.Option
	if pattern != nil {
		opts = append(opts, facturelib.WithNumberPattern(pattern))
	}
	gen := facturelib.NewGenerator(opts...)

	reports := make([]*fileReport, 0, len(args))
	allValid := true

	for _, file := range args {
		r := validateFile(gen, file)
		reports = append(reports, r)
		if !r.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
				continue
			}
			fmt.Printf("✗ %s: INVALID\n", r.File)
			if r.Error != "" {
				fmt.Printf("  - %s\n", r.Error)
			}
			for _, v := range r.Violations {
				fmt.Printf("  - %s\n", v)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(gen *facturelib.Generator, file string) *fileReport {
	r := &fileReport{File: file, Valid: true}

	record, err := os.ReadFile(file)
	if err != nil {
		r.Valid = false
		r.Error = fmt.Sprintf("failed to read file: %v", err)
		return r
	}

	result, err := gen.Validate(context.Background(), record)
	if err != nil {
		r.Valid = false
		var malformed *facturelib.MalformedInputError
		if errors.As(err, &malformed) {
			r.Error = malformed.Error()
		} else {
			r.Error = err.Error()
		}
		return r
	}

	r.Valid = result.Report.Empty()
	r.Violations = result.Report.Violations
	return r
}
