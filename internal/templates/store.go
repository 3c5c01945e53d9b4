package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/statestore"
)

// Persisted document names.
const (
	userTemplatesDoc = "user_templates"
	templateUsageDoc = "template_usage"
)

// exporterName is stamped into exported templates so imports can record
// their origin.
const exporterName = "declutterd"

// Store holds built-in and user templates. Built-ins are immutable; user
// templates are persisted through the state store after every mutation.
// Persistence failures are logged and never fail the operation.
type Store struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	state   *statestore.Store
	builtin []Template
	user    map[string]Template
	usage   map[string]int
}

// UsageStat reports how often one template has been applied.
type UsageStat struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	UsageCount int      `json:"usageCount"`
}

// SearchQuery narrows Search results. Zero fields are ignored.
type SearchQuery struct {
	Text     string
	Category Category
	Author   string
}

type exportEnvelope struct {
	Template
	ExportedAt time.Time `json:"exportedAt"`
	ExportedBy string    `json:"exportedBy"`
}

// NewStore creates a template store seeded with the built-in templates
// and any previously persisted user templates. state may be nil for an
// in-memory store; logger may be nil.
func NewStore(state *statestore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger:  logger,
		state:   state,
		builtin: builtinTemplates(),
		user:    make(map[string]Template),
		usage:   make(map[string]int),
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.state == nil {
		return
	}
	var saved []Template
	if err := s.state.Load(userTemplatesDoc, &saved); err != nil {
		if !errors.Is(err, statestore.ErrNotFound) {
			s.logger.Warn("failed to load user templates, starting empty", zap.Error(err))
		}
	} else {
		for _, t := range saved {
			if t.ID == "" || t.Validate() != nil {
				s.logger.Warn("skipping malformed persisted template", zap.String("name", t.Name))
				continue
			}
			t.Category = CategoryUser
			s.user[t.ID] = t
		}
	}
	var usage map[string]int
	if err := s.state.Load(templateUsageDoc, &usage); err == nil {
		s.usage = usage
	}
	s.logger.Info("templates loaded",
		zap.Int("builtin", len(s.builtin)),
		zap.Int("user", len(s.user)))
}

// Reload re-reads persisted user templates and usage counts, replacing
// the in-memory set. Used when the backing document changes outside this
// process.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	s.user = make(map[string]Template)
	s.usage = make(map[string]int)
	s.load()
}

// persist writes user templates and usage counts. Callers hold the lock.
func (s *Store) persist() {
	if s.state == nil {
		return
	}
	saved := make([]Template, 0, len(s.user))
	for _, t := range s.user {
		saved = append(saved, t)
	}
	sort.Slice(saved, func(i, j int) bool { return saved[i].ID < saved[j].ID })
	if err := s.state.Save(userTemplatesDoc, saved); err != nil {
		s.logger.Warn("failed to persist user templates", zap.Error(err))
	}
	if err := s.state.Save(templateUsageDoc, s.usage); err != nil {
		s.logger.Warn("failed to persist template usage", zap.Error(err))
	}
}

// All returns every template, built-ins first, each group sorted by name.
func (s *Store) All() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allLocked()
}

func (s *Store) allLocked() []Template {
	out := make([]Template, 0, len(s.builtin)+len(s.user))
	out = append(out, s.builtin...)
	for _, t := range s.user {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := out[i].Category == CategoryBuiltIn, out[j].Category == CategoryBuiltIn
		if bi != bj {
			return bi
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Get returns the template with the given id, built-in or user.
func (s *Store) Get(id string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (Template, error) {
	for _, t := range s.builtin {
		if t.ID == id {
			return t, nil
		}
	}
	if t, ok := s.user[id]; ok {
		return t, nil
	}
	return Template{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Create stores a new user template. Name, version and author default
// when empty; id, category and timestamps are assigned here.
func (s *Store) Create(t Template) (Template, error) {
	if t.Name == "" {
		t.Name = "Untitled Template"
	}
	t.ID = newTemplateID()
	t.Category = CategoryUser
	if t.Version == "" {
		t.Version = "1.0"
	}
	if t.Author == "" {
		t.Author = "User"
	}
	now := time.Now().UTC()
	t.Created = now
	t.Modified = now
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user[t.ID] = t
	s.persist()
	s.logger.Info("template created", zap.String("id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// Update applies non-zero fields of upd to an existing user template.
// ID, category and creation time are preserved. Built-in templates
// cannot be updated.
func (s *Store) Update(id string, upd Template) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.builtin {
		if t.ID == id {
			return Template{}, fmt.Errorf("%s: %w", id, ErrBuiltIn)
		}
	}
	t, ok := s.user[id]
	if !ok {
		return Template{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	if upd.Name != "" {
		t.Name = upd.Name
	}
	if upd.Description != "" {
		t.Description = upd.Description
	}
	if upd.Author != "" {
		t.Author = upd.Author
	}
	if upd.Version != "" {
		t.Version = upd.Version
	}
	if upd.Folders != nil {
		t.Folders = upd.Folders
	}
	t.Modified = time.Now().UTC()
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	s.user[id] = t
	s.persist()
	s.logger.Info("template updated", zap.String("id", id), zap.String("name", t.Name))
	return t, nil
}

// Delete removes a user template. Built-ins cannot be deleted.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.builtin {
		if t.ID == id {
			return fmt.Errorf("%s: %w", id, ErrBuiltIn)
		}
	}
	if _, ok := s.user[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.user, id)
	delete(s.usage, id)
	s.persist()
	s.logger.Info("template deleted", zap.String("id", id))
	return nil
}

// Duplicate copies any template, built-in included, into a new user
// template. newName defaults to "<original> Copy".
func (s *Store) Duplicate(id, newName string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orig, err := s.getLocked(id)
	if err != nil {
		return Template{}, err
	}
	dup := orig
	dup.ID = newTemplateID()
	if newName != "" {
		dup.Name = newName
	} else {
		dup.Name = orig.Name + " Copy"
	}
	dup.Category = CategoryUser
	dup.Author = "User"
	dup.Folders = cloneFolders(orig.Folders)
	now := time.Now().UTC()
	dup.Created = now
	dup.Modified = now

	s.user[dup.ID] = dup
	s.persist()
	s.logger.Info("template duplicated",
		zap.String("source", id), zap.String("id", dup.ID), zap.String("name", dup.Name))
	return dup, nil
}

// Export serializes a template for sharing, stamped with the export time
// and application name.
func (s *Store) Export(id string) ([]byte, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	env := exportEnvelope{
		Template:   t,
		ExportedAt: time.Now().UTC(),
		ExportedBy: exporterName,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export template: %w", err)
	}
	return data, nil
}

// Import parses an exported template (or a bare template document) and
// stores it as a new user template. Nothing is persisted when the
// payload fails validation.
func (s *Store) Import(data []byte) (Template, error) {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	t := env.Template
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	t.ID = newTemplateID()
	t.Category = CategoryUser
	if t.Version == "" {
		t.Version = "1.0"
	}
	if t.Author == "" {
		t.Author = "Unknown"
	}
	now := time.Now().UTC()
	t.Created = now
	t.Modified = now
	t.Imported = true
	if env.ExportedBy != "" {
		t.ImportedFrom = env.ExportedBy
	} else {
		t.ImportedFrom = "Unknown"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user[t.ID] = t
	s.persist()
	s.logger.Info("template imported",
		zap.String("id", t.ID), zap.String("name", t.Name), zap.String("from", t.ImportedFrom))
	return t, nil
}

// Search filters templates by free-text query over name, description and
// author, plus optional exact category and author filters.
func (s *Store) Search(q SearchQuery) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.allLocked()
	var out []Template
	term := strings.ToLower(strings.TrimSpace(q.Text))
	for _, t := range all {
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.Author), term) {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if q.Author != "" && t.Author != q.Author {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories returns the distinct template categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.allLocked(), func(t Template) string { return string(t.Category) })
}

// Authors returns the distinct template authors, sorted.
func (s *Store) Authors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.allLocked(), func(t Template) string { return t.Author })
}

// RecordUsage increments a template's usage count.
func (s *Store) RecordUsage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[id]++
	s.persist()
}

// UsageStatistics returns per-template usage counts, most used first,
// ties broken by name.
func (s *Store) UsageStatistics() []UsageStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.allLocked()
	stats := make([]UsageStat, len(all))
	for i, t := range all {
		stats[i] = UsageStat{
			ID:         t.ID,
			Name:       t.Name,
			Category:   t.Category,
			UsageCount: s.usage[t.ID],
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].UsageCount != stats[j].UsageCount {
			return stats[i].UsageCount > stats[j].UsageCount
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

func cloneFolders(defs []FolderDefinition) []FolderDefinition {
	out := make([]FolderDefinition, len(defs))
	copy(out, defs)
	for i := range out {
		if defs[i].Filters != nil {
			out[i].Filters = make([]Filter, len(defs[i].Filters))
			copy(out[i].Filters, defs[i].Filters)
		}
	}
	return out
}

func distinct(ts []Template, key func(Template) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range ts {
		k := key(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newTemplateID() string {
	return "template_" + uuid.NewString()
}
