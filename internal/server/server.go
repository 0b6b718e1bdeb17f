package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vartur/facturelibre/internal/model"
	"github.com/vartur/facturelibre/internal/packager"
	"github.com/vartur/facturelibre/internal/processor"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server exposes the invoice pipeline over HTTP
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	packager packager.Packager
	log      zerolog.Logger
}

// NewServer creates the API server
func NewServer(config *Config, log zerolog.Logger) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		config:   config,
		router:   router,
		pipeline: processor.NewPipeline(),
		packager: packager.NewPDFPackager(),
		log:      log,
	}

	router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleGenerate)
		v1.POST("/invoices/validate", s.handleValidate)
	}
}

// requestLogger tags every request with an ID and logs its outcome
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	result := s.pipeline.Validate(c.Request.Context(), body)
	if result.Error != nil {
		s.writeError(c, result.Error)
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:      result.Report.Empty(),
		Violations: result.Report.Violations,
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	result := s.pipeline.Process(c.Request.Context(), body)
	if result.Error != nil {
		s.writeError(c, result.Error)
		return
	}

	outDir, err := os.MkdirTemp("", "facturelibre-out")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create output directory"})
		return
	}
	defer os.RemoveAll(outDir)

	fileName := fmt.Sprintf("%s.pdf", result.Document.Title)
	outPath := filepath.Join(outDir, "invoice.pdf")

	if err := s.packager.Package(c.Request.Context(), result.Document, result.XML, outPath); err != nil {
		s.log.Error().Err(err).Str("invoice", result.Invoice.Number).Msg("packaging failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to package invoice", Details: err.Error()})
		return
	}

	c.FileAttachment(outPath, fileName)
}

func (s *Server) writeError(c *gin.Context, err error) {
	var malformed *model.MalformedInputError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "malformed input",
			Details: malformed.Error(),
		})
		return
	}

	var nonCompliant *model.NonCompliantInvoiceError
	if errors.As(err, &nonCompliant) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "invoice is not compliant",
			Violations: nonCompliant.Report.Violations,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
