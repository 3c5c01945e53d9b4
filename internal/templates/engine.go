package templates

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

// Result reports the outcome of applying one template. Application is
// best effort: Errors lists per-folder failures that did not stop the
// rest of the batch.
type Result struct {
	FoldersCreated int      `json:"foldersCreated"`
	AssetsMoved    int      `json:"assetsMoved"`
	Errors         []string `json:"errors"`
}

// Engine applies templates against a catalog.
type Engine struct {
	cat    catalog.Catalog
	logger *zap.Logger
}

// NewEngine creates a template engine. logger may be nil.
func NewEngine(cat catalog.Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cat: cat, logger: logger}
}

// Apply processes the template's folder definitions in declaration order.
// The asset pool is the given assets, or every unorganized asset in the
// catalog when assets is nil, captured once before the first definition:
// later definitions see the same pool, so an asset matching several
// definitions ends up in the last folder that moves it.
//
// Parent references resolve by name against folders created earlier in
// this same call. A definition whose parent was not created in this run
// lands at the project root.
//
// Each definition fails independently: a rejected create or move appends
// to Result.Errors and processing continues.
func (e *Engine) Apply(ctx context.Context, tpl *Template, assets []catalog.Asset) (Result, error) {
	var result Result
	if tpl == nil {
		return result, ErrInvalidTemplate
	}
	if err := tpl.Validate(); err != nil {
		return result, err
	}

	if assets == nil {
		all, err := e.cat.ListAssets(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to list assets: %w", err)
		}
		assets = catalog.Unorganized(all)
	}

	e.logger.Info("applying template",
		zap.String("template", tpl.Name),
		zap.Int("folders", len(tpl.Folders)),
		zap.Int("pool", len(assets)))

	// Folder ids assigned during this run, keyed by definition name.
	createdByName := make(map[string]string, len(tpl.Folders))

	for _, def := range tpl.Folders {
		parentID := ""
		if def.Parent != "" {
			id, ok := createdByName[def.Parent]
			if !ok {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Parent folder %q not found for %q, created at project root", def.Parent, def.Name))
			}
			parentID = id
		}

		folder, err := e.cat.CreateFolder(ctx, def.Name, def.Color, parentID)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to create folder %q: %v", def.Name, err))
			continue
		}
		result.FoldersCreated++
		createdByName[def.Name] = folder.ID

		if len(def.Filters) == 0 {
			continue
		}
		matching := MatchAssets(assets, def.Filters)
		if len(matching) == 0 {
			continue
		}
		ids := make([]string, len(matching))
		for i, a := range matching {
			ids[i] = a.ID
		}
		if err := e.cat.MoveAssets(ctx, ids, folder.ID); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to move assets to folder %q: %v", def.Name, err))
			continue
		}
		result.AssetsMoved += len(ids)
	}

	e.logger.Info("template applied",
		zap.String("template", tpl.Name),
		zap.Int("folders_created", result.FoldersCreated),
		zap.Int("assets_moved", result.AssetsMoved),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}
