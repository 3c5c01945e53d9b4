// Package httpapi exposes the organizer engine to the panel over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/organizer"
	"github.com/declutterlabs/declutterd/internal/templates"
)

// maxImportBody bounds template and learning import payloads.
const maxImportBody = 4 << 20

// Server provides HTTP endpoints for declutterd.
type Server struct {
	echo   *echo.Echo
	svc    organizer.Service
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(svc organizer.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("organizer service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8585}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:   e,
		svc:    svc,
		logger: logger,
		config: cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")

	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/suggestions/personalized", s.handlePersonalized)
	v1.PUT("/organizer/enabled", s.handleSetEnabled)
	v1.GET("/project/health", s.handleProjectHealth)

	v1.GET("/assets", s.handleListAssets)
	v1.POST("/assets/move", s.handleMoveAssets)

	v1.GET("/folders", s.handleListFolders)
	v1.POST("/folders", s.handleCreateFolder)
	v1.PUT("/folders/:id", s.handleRenameFolder)
	v1.DELETE("/folders/:id", s.handleDeleteFolder)

	v1.GET("/templates", s.handleListTemplates)
	v1.POST("/templates", s.handleCreateTemplate)
	v1.POST("/templates/import", s.handleImportTemplate)
	v1.GET("/templates/usage", s.handleTemplateUsage)
	v1.GET("/templates/categories", s.handleTemplateCategories)
	v1.GET("/templates/authors", s.handleTemplateAuthors)
	v1.GET("/templates/:id", s.handleGetTemplate)
	v1.PUT("/templates/:id", s.handleUpdateTemplate)
	v1.DELETE("/templates/:id", s.handleDeleteTemplate)
	v1.POST("/templates/:id/duplicate", s.handleDuplicateTemplate)
	v1.GET("/templates/:id/export", s.handleExportTemplate)
	v1.POST("/templates/:id/apply", s.handleApplyTemplate)

	v1.GET("/learning/export", s.handleLearningExport)
	v1.POST("/learning/import", s.handleLearningImport)
	v1.POST("/learning/reset", s.handleLearningReset)
	v1.GET("/learning/history", s.handleLearningHistory)
}

// httpError maps engine errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, templates.ErrNotFound),
		errors.Is(err, catalog.ErrFolderNotFound),
		errors.Is(err, catalog.ErrAssetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, templates.ErrBuiltIn):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, templates.ErrInvalidTemplate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrDuplicateFolder),
		errors.Is(err, organizer.ErrApplyInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, organizer.ErrClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	analysis, err := s.svc.Analyze(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, analysis)
}

func (s *Server) handlePersonalized(c echo.Context) error {
	suggestions, err := s.svc.Personalized(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, suggestions)
}

// EnabledRequest is the request body for PUT /api/v1/organizer/enabled.
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetEnabled(c echo.Context) error {
	var req EnabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.svc.SetEnabled(req.Enabled)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleProjectHealth(c echo.Context) error {
	health, err := s.svc.ProjectHealth(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, health)
}

func (s *Server) handleListAssets(c echo.Context) error {
	assets, err := s.svc.ListAssets(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if assets == nil {
		assets = []catalog.Asset{}
	}
	return c.JSON(http.StatusOK, assets)
}

// MoveAssetsRequest is the request body for POST /api/v1/assets/move.
type MoveAssetsRequest struct {
	AssetIDs []string `json:"asset_ids"`
	FolderID string   `json:"folder_id"`
}

func (s *Server) handleMoveAssets(c echo.Context) error {
	var req MoveAssetsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FolderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "folder_id field is required")
	}
	if err := s.svc.MoveAssets(c.Request().Context(), req.AssetIDs, req.FolderID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListFolders(c echo.Context) error {
	folders, err := s.svc.ListFolders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if folders == nil {
		folders = []catalog.Folder{}
	}
	return c.JSON(http.StatusOK, folders)
}

// CreateFolderRequest is the request body for POST /api/v1/folders.
type CreateFolderRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	ParentID string `json:"parent_id"`
}

func (s *Server) handleCreateFolder(c echo.Context) error {
	var req CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	folder, err := s.svc.CreateFolder(c.Request().Context(), req.Name, req.Color, req.ParentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, folder)
}

// RenameFolderRequest is the request body for PUT /api/v1/folders/:id.
type RenameFolderRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameFolder(c echo.Context) error {
	var req RenameFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	if err := s.svc.RenameFolder(c.Request().Context(), c.Param("id"), req.Name); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteFolder(c echo.Context) error {
	reparent := c.QueryParam("reparent") == "true"
	if err := s.svc.DeleteFolder(c.Request().Context(), c.Param("id"), reparent); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTemplates(c echo.Context) error {
	store := s.svc.Templates()
	q := templates.SearchQuery{
		Text:     c.QueryParam("q"),
		Category: templates.Category(c.QueryParam("category")),
		Author:   c.QueryParam("author"),
	}
	result := store.Search(q)
	if result == nil {
		result = []templates.Template{}
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateTemplate(c echo.Context) error {
	var tpl templates.Template
	if err := c.Bind(&tpl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := s.svc.Templates().Create(tpl)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetTemplate(c echo.Context) error {
	tpl, err := s.svc.Templates().Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tpl)
}

func (s *Server) handleUpdateTemplate(c echo.Context) error {
	var upd templates.Template
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, err := s.svc.Templates().Update(c.Param("id"), upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTemplate(c echo.Context) error {
	if err := s.svc.Templates().Delete(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DuplicateRequest is the request body for POST
// /api/v1/templates/:id/duplicate.
type DuplicateRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleDuplicateTemplate(c echo.Context) error {
	var req DuplicateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	dup, err := s.svc.Templates().Duplicate(c.Param("id"), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dup)
}

func (s *Server) handleExportTemplate(c echo.Context) error {
	data, err := s.svc.Templates().Export(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) handleImportTemplate(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	imported, err := s.svc.Templates().Import(data)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, imported)
}

// ApplyRequest is the request body for POST /api/v1/templates/:id/apply.
// A null asset_ids applies to every unorganized asset.
type ApplyRequest struct {
	AssetIDs []string `json:"asset_ids"`
}

func (s *Server) handleApplyTemplate(c echo.Context) error {
	var req ApplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := s.svc.ApplyTemplate(c.Request().Context(), c.Param("id"), req.AssetIDs)
	if err != nil {
		return httpError(err)
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleTemplateUsage(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Templates().UsageStatistics())
}

func (s *Server) handleTemplateCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Templates().Categories())
}

func (s *Server) handleTemplateAuthors(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Templates().Authors())
}

func (s *Server) handleLearningExport(c echo.Context) error {
	data, err := s.svc.Learning().Export()
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) handleLearningImport(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if err := s.svc.Learning().Import(data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleLearningReset(c echo.Context) error {
	s.svc.Learning().Reset()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleLearningHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Learning().History())
}

// Echo exposes the underlying router, mainly for tests and extra route
// registration in main.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
