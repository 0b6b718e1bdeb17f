package model

import (
	"fmt"
	"strings"
)

// MalformedInputError represents a structural problem in the raw input
// record. It aborts the pipeline before any business rule runs.
type MalformedInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Message)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// NewMalformedInputError creates a new malformed input error
func NewMalformedInputError(field, message string, cause error) *MalformedInputError {
	return &MalformedInputError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// Rule identifies a compliance rule
type Rule string

const (
	RuleInvalidSellerIdentifier  Rule = "InvalidSellerIdentifier"
	RuleInconsistentTaxTreatment Rule = "InconsistentTaxTreatment"
	RuleInvalidLineItem          Rule = "InvalidLineItem"
	RuleInvalidInvoiceNumber     Rule = "InvalidInvoiceNumber"
	RuleInvalidIssueDate         Rule = "InvalidIssueDate"
	RuleInvalidDueDate           Rule = "InvalidDueDate"
	RuleEmptyInvoice             Rule = "EmptyInvoice"
	RuleInvalidPaymentMeans      Rule = "InvalidPaymentMeans"
	RuleInvalidCurrency          Rule = "InvalidCurrency"
)

// Violation is one business-rule failure found by the validator
type Violation struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Rule, v.Field, v.Message)
}

// ComplianceReport accumulates every violation found in one validation
// pass. An empty report means the invoice is emissible. Reports are
// produced fresh per pass and never persisted.
type ComplianceReport struct {
	Violations []Violation `json:"violations"`
}

// Add appends a violation to the report
func (r *ComplianceReport) Add(field string, rule Rule, format string, args ...interface{}) {
	r.Violations = append(r.Violations, Violation{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

// Empty reports whether no violation was found
func (r *ComplianceReport) Empty() bool {
	return len(r.Violations) == 0
}

// Has reports whether the report contains a violation of rule
func (r *ComplianceReport) Has(rule Rule) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Strings renders every violation as a printable line
func (r *ComplianceReport) Strings() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.String())
	}
	return out
}

// NonCompliantInvoiceError is returned when the assembler is asked to
// process an invoice with a non-empty compliance report. It carries the
// full report so the caller can surface every problem at once.
type NonCompliantInvoiceError struct {
	Report *ComplianceReport
}

func (e *NonCompliantInvoiceError) Error() string {
	return fmt.Sprintf("invoice is not compliant: %s", strings.Join(e.Report.Strings(), "; "))
}
