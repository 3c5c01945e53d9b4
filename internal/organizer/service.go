// Package organizer wires the engine together: it runs analyses over the
// catalog, applies templates, and feeds outcomes into the learning store
// and analytics. Everything else talks to the engine through its Service
// interface.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/analytics"
	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/classify"
	"github.com/declutterlabs/declutterd/internal/events"
	"github.com/declutterlabs/declutterd/internal/learning"
	"github.com/declutterlabs/declutterd/internal/patterns"
	"github.com/declutterlabs/declutterd/internal/suggest"
	"github.com/declutterlabs/declutterd/internal/templates"
)

const instrumentationName = "github.com/declutterlabs/declutterd/internal/organizer"

// Errors returned by the organizer.
var (
	// ErrApplyInProgress indicates a template application is already
	// running. Applications mutate the catalog and never overlap.
	ErrApplyInProgress = errors.New("a template application is already in progress")

	// ErrClosed indicates the service has been shut down.
	ErrClosed = errors.New("organizer service is closed")
)

// Analysis is one full analysis pass over the project.
type Analysis struct {
	Classification classify.Classification `json:"classification"`
	Suggestions    []suggest.Suggestion    `json:"suggestions"`
	Breakdown      classify.Breakdown      `json:"breakdown"`
	Naming         classify.NamingAnalysis `json:"naming"`
	Health         catalog.Health          `json:"health"`
	AssetCount     int                     `json:"asset_count"`
	AnalyzedAt     time.Time               `json:"analyzed_at"`
}

// Service is the engine's public surface.
type Service interface {
	// Analyze classifies the project, generates suggestions and computes
	// health metrics in one pass.
	Analyze(ctx context.Context) (*Analysis, error)

	// ProjectHealth computes health metrics without a full analysis.
	ProjectHealth(ctx context.Context) (catalog.Health, error)

	// Personalized returns suggestions learned from past behavior.
	Personalized(ctx context.Context) ([]suggest.Suggestion, error)

	// ApplyTemplate applies a stored template. assetIDs narrows the pool
	// to the listed assets; nil means every unorganized asset.
	ApplyTemplate(ctx context.Context, templateID string, assetIDs []string) (templates.Result, error)

	// ListAssets returns the catalog's assets.
	ListAssets(ctx context.Context) ([]catalog.Asset, error)

	// ListFolders returns the catalog's folders.
	ListFolders(ctx context.Context) ([]catalog.Folder, error)

	// CreateFolder creates a folder and records it for learning.
	CreateFolder(ctx context.Context, name, color, parentID string) (catalog.Folder, error)

	// MoveAssets moves assets into a folder.
	MoveAssets(ctx context.Context, assetIDs []string, folderID string) error

	// RenameFolder renames a folder.
	RenameFolder(ctx context.Context, folderID, name string) error

	// DeleteFolder deletes a folder, optionally re-homing its assets to
	// the parent.
	DeleteFolder(ctx context.Context, folderID string, reparentAssets bool) error

	// SetEnabled toggles suggestion generation. Analyses still classify
	// and compute health while disabled.
	SetEnabled(enabled bool)

	// Templates exposes the template store.
	Templates() *templates.Store

	// Learning exposes the learning store.
	Learning() *learning.Store

	// Close flushes pending state and stops the service.
	Close() error
}

// Config configures the organizer service.
type Config struct {
	// Enabled toggles suggestion generation (default: true).
	Enabled bool

	// MaxSuggestions caps the suggestions returned per analysis;
	// 0 means unlimited.
	MaxSuggestions int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxSuggestions: 0,
	}
}

// service implements the Service interface.
type service struct {
	config *Config
	cat    catalog.Catalog
	logger *zap.Logger

	classifier *classify.Classifier
	generator  *suggest.Generator
	engine     *templates.Engine
	tstore     *templates.Store
	lstore     *learning.Store
	bus        *events.Bus

	tracer trace.Tracer

	// applying guards template application; only one runs at a time.
	applying atomic.Bool

	enabled atomic.Bool

	mu     sync.RWMutex
	closed bool
}

// NewService creates the organizer. cat, library, tstore and lstore are
// required; bus and logger may be nil.
func NewService(cfg *Config, cat catalog.Catalog, library *patterns.Library, tstore *templates.Store, lstore *learning.Store, bus *events.Bus, logger *zap.Logger) (Service, error) {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if library == nil {
		return nil, errors.New("pattern library is required")
	}
	if tstore == nil {
		return nil, errors.New("template store is required")
	}
	if lstore == nil {
		return nil, errors.New("learning store is required")
	}
	if bus == nil {
		bus = events.NewBus(0, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &service{
		config:     cfg,
		cat:        cat,
		logger:     logger,
		classifier: classify.New(library),
		generator:  suggest.NewGenerator(library, logger),
		engine:     templates.NewEngine(cat, logger),
		tstore:     tstore,
		lstore:     lstore,
		bus:        bus,
		tracer:     otel.Tracer(instrumentationName),
	}
	s.enabled.Store(cfg.Enabled)
	return s, nil
}

func (s *service) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Analyze classifies the project and derives suggestions, the asset-type
// breakdown, naming analysis and health metrics from one catalog
// snapshot.
func (s *service) Analyze(ctx context.Context) (*Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "organizer.analyze")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	start := time.Now()

	assets, err := s.cat.ListAssets(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	folders, err := s.cat.ListFolders(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	cls := s.classifier.Classify(assets)
	span.SetAttributes(
		attribute.String("archetype", cls.ArchetypeKey),
		attribute.Float64("confidence", cls.Confidence),
		attribute.Int("assets", len(assets)),
	)

	var suggestions []suggest.Suggestion
	if s.enabled.Load() {
		suggestions = s.generator.Suggest(assets, folders, cls)
		suggestions = append(suggestions, s.lstore.Personalize(assets)...)
		if max := s.config.MaxSuggestions; max > 0 && len(suggestions) > max {
			suggestions = suggestions[:max]
		}
	}

	analysis := &Analysis{
		Classification: cls,
		Suggestions:    suggestions,
		Breakdown:      classify.AnalyzeTypes(assets),
		Naming:         classify.AnalyzeNaming(assets),
		Health:         catalog.ComputeHealth(assets, folders),
		AssetCount:     len(assets),
		AnalyzedAt:     time.Now().UTC(),
	}

	analytics.AnalysesTotal.WithLabelValues(cls.ArchetypeKey).Inc()
	for _, sug := range suggestions {
		analytics.SuggestionsTotal.WithLabelValues(string(sug.Kind)).Inc()
	}
	analytics.AnalysisDuration.Observe(time.Since(start).Seconds())
	analytics.HealthScore.Set(float64(analysis.Health.OverallScore))

	s.lstore.RecordAnalysis(learning.AnalysisRecord{
		Archetype:   cls.ArchetypeKey,
		Confidence:  cls.Confidence,
		AssetCount:  len(assets),
		Suggestions: len(suggestions),
	})
	s.bus.Publish(events.TypeAnalysisCompleted, analysis)

	s.logger.Info("analysis completed",
		zap.String("archetype", cls.ArchetypeKey),
		zap.Float64("confidence", cls.Confidence),
		zap.Int("assets", len(assets)),
		zap.Int("suggestions", len(suggestions)))

	return analysis, nil
}

func (s *service) ProjectHealth(ctx context.Context) (catalog.Health, error) {
	ctx, span := s.tracer.Start(ctx, "organizer.project_health")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return catalog.Health{}, err
	}
	assets, err := s.cat.ListAssets(ctx)
	if err != nil {
		span.RecordError(err)
		return catalog.Health{}, fmt.Errorf("failed to list assets: %w", err)
	}
	folders, err := s.cat.ListFolders(ctx)
	if err != nil {
		span.RecordError(err)
		return catalog.Health{}, fmt.Errorf("failed to list folders: %w", err)
	}
	health := catalog.ComputeHealth(assets, folders)
	analytics.HealthScore.Set(float64(health.OverallScore))
	return health, nil
}

func (s *service) Personalized(ctx context.Context) ([]suggest.Suggestion, error) {
	ctx, span := s.tracer.Start(ctx, "organizer.personalized")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	assets, err := s.cat.ListAssets(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return s.lstore.Personalize(assets), nil
}

// ApplyTemplate runs one template against the catalog. A second call
// while one is running fails with ErrApplyInProgress instead of racing
// catalog mutations.
func (s *service) ApplyTemplate(ctx context.Context, templateID string, assetIDs []string) (templates.Result, error) {
	ctx, span := s.tracer.Start(ctx, "organizer.apply_template")
	defer span.End()
	span.SetAttributes(attribute.String("template_id", templateID))

	if err := s.checkOpen(); err != nil {
		return templates.Result{}, err
	}
	if !s.applying.CompareAndSwap(false, true) {
		span.SetStatus(codes.Error, ErrApplyInProgress.Error())
		return templates.Result{}, ErrApplyInProgress
	}
	defer s.applying.Store(false)

	tpl, err := s.tstore.Get(templateID)
	if err != nil {
		span.RecordError(err)
		analytics.TemplateApplications.WithLabelValues(templateID, "error").Inc()
		return templates.Result{}, err
	}

	pool, err := s.resolvePool(ctx, assetIDs)
	if err != nil {
		span.RecordError(err)
		analytics.TemplateApplications.WithLabelValues(tpl.Name, "error").Inc()
		return templates.Result{}, err
	}

	result, err := s.engine.Apply(ctx, &tpl, pool)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		analytics.TemplateApplications.WithLabelValues(tpl.Name, "error").Inc()
		return templates.Result{}, err
	}

	s.tstore.RecordUsage(templateID)
	s.lstore.RecordAction(learning.ActionTemplateApplied, map[string]any{"templateId": templateID})

	analytics.TemplateApplications.WithLabelValues(tpl.Name, "success").Inc()
	analytics.FoldersCreated.Add(float64(result.FoldersCreated))
	analytics.AssetsMoved.Add(float64(result.AssetsMoved))
	analytics.ApplicationErrors.Add(float64(len(result.Errors)))

	s.bus.Publish(events.TypeTemplateApplied, map[string]any{
		"template_id": templateID,
		"result":      result,
	})
	return result, nil
}

// resolvePool maps explicit asset ids to catalog assets, re-validating
// them against current catalog state. Unknown ids are skipped. A nil id
// list returns nil so the engine captures the unorganized pool itself.
func (s *service) resolvePool(ctx context.Context, assetIDs []string) ([]catalog.Asset, error) {
	if assetIDs == nil {
		return nil, nil
	}
	all, err := s.cat.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	byID := make(map[string]catalog.Asset, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	pool := make([]catalog.Asset, 0, len(assetIDs))
	for _, id := range assetIDs {
		if a, ok := byID[id]; ok {
			pool = append(pool, a)
		}
	}
	return pool, nil
}

func (s *service) ListAssets(ctx context.Context) ([]catalog.Asset, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.cat.ListAssets(ctx)
}

func (s *service) ListFolders(ctx context.Context) ([]catalog.Folder, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.cat.ListFolders(ctx)
}

func (s *service) CreateFolder(ctx context.Context, name, color, parentID string) (catalog.Folder, error) {
	ctx, span := s.tracer.Start(ctx, "organizer.create_folder")
	defer span.End()
	span.SetAttributes(attribute.String("name", name))

	if err := s.checkOpen(); err != nil {
		return catalog.Folder{}, err
	}
	folder, err := s.cat.CreateFolder(ctx, name, color, parentID)
	if err != nil {
		span.RecordError(err)
		return catalog.Folder{}, err
	}
	s.lstore.RecordAction(learning.ActionFolderCreated, map[string]any{"name": name})
	s.bus.Publish(events.TypeFolderCreated, folder)
	return folder, nil
}

func (s *service) MoveAssets(ctx context.Context, assetIDs []string, folderID string) error {
	ctx, span := s.tracer.Start(ctx, "organizer.move_assets")
	defer span.End()
	span.SetAttributes(attribute.Int("assets", len(assetIDs)))

	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.cat.MoveAssets(ctx, assetIDs, folderID); err != nil {
		span.RecordError(err)
		return err
	}
	s.bus.Publish(events.TypeAssetsMoved, map[string]any{
		"asset_ids": assetIDs,
		"folder_id": folderID,
	})
	return nil
}

func (s *service) RenameFolder(ctx context.Context, folderID, name string) error {
	ctx, span := s.tracer.Start(ctx, "organizer.rename_folder")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.cat.RenameFolder(ctx, folderID, name); err != nil {
		span.RecordError(err)
		return err
	}
	s.bus.Publish(events.TypeFolderRenamed, map[string]any{
		"folder_id": folderID,
		"name":      name,
	})
	return nil
}

func (s *service) DeleteFolder(ctx context.Context, folderID string, reparentAssets bool) error {
	ctx, span := s.tracer.Start(ctx, "organizer.delete_folder")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.cat.DeleteFolder(ctx, folderID, reparentAssets); err != nil {
		span.RecordError(err)
		return err
	}
	s.bus.Publish(events.TypeFolderDeleted, map[string]any{
		"folder_id": folderID,
		"reparent":  reparentAssets,
	})
	return nil
}

func (s *service) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
	s.logger.Info("suggestion generation toggled", zap.Bool("enabled", enabled))
}

func (s *service) Templates() *templates.Store {
	return s.tstore
}

func (s *service) Learning() *learning.Store {
	return s.lstore
}

// Close flushes learning data and rejects further calls.
func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.lstore.Flush(); err != nil {
		return fmt.Errorf("failed to flush learning data: %w", err)
	}
	s.logger.Info("organizer service closed")
	return nil
}
