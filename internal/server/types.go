package server

import (
	"github.com/vartur/facturelibre/internal/model"
)

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid      bool              `json:"valid"`
	Violations []model.Violation `json:"violations,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string            `json:"error"`
	Details    string            `json:"details,omitempty"`
	Violations []model.Violation `json:"violations,omitempty"`
}
