// Package learning accumulates user behavior (actions, analyses, folder
// usage) and turns it into personalized suggestions. Data persists
// through the state store; a read failure falls back to empty data and
// never blocks the engine.
package learning

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/patterns"
	"github.com/declutterlabs/declutterd/internal/statestore"
	"github.com/declutterlabs/declutterd/internal/suggest"
)

// learningDoc is the persisted document name.
const learningDoc = "learning"

// Raw history caps. The action log trims to half its cap on overflow so
// trimming is amortized, not per-append.
const (
	maxActions  = 1000
	trimActions = 500
	maxHistory  = 100
	trimHistory = 50
)

// Pattern derivation looks at recent behavior only.
const (
	recentWindow     = 24 * time.Hour
	recentActionsCap = 50
)

// maxFolderPatterns caps the derived frequency table. Overflow evicts the
// least recently used folder name.
const maxFolderPatterns = 200

// Personalization thresholds.
const (
	minPatternUsage = 2
	maxConfidence   = 0.9
)

// ActionFolderCreated is the action type pattern derivation watches for.
const ActionFolderCreated = "folderCreated"

// ActionTemplateApplied records a template application.
const ActionTemplateApplied = "templateApplied"

var keywordStripRe = regexp.MustCompile(`[^a-z0-9\s]`)

// Action is one recorded user action. Timestamps are millisecond epochs,
// matching the persisted format of the original panel.
type Action struct {
	Action    string         `json:"action"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// FolderPattern is the learned usage record for one folder name.
type FolderPattern struct {
	Keywords []string `json:"keywords"`
	Usage    int      `json:"usage"`
	LastUsed int64    `json:"lastUsed"`
}

// AnalysisRecord is one remembered analysis outcome.
type AnalysisRecord struct {
	Archetype   string  `json:"archetype"`
	Confidence  float64 `json:"confidence"`
	AssetCount  int     `json:"assetCount"`
	Suggestions int     `json:"suggestions"`
	Timestamp   int64   `json:"timestamp"`
}

// Data is the full persisted learning state. Field names match the
// original panel's storage format so exports remain interchangeable.
type Data struct {
	UserActions         []Action                 `json:"userActions"`
	FolderPatterns      map[string]FolderPattern `json:"folderPatterns"`
	NamingPatterns      map[string]int           `json:"namingPatterns"`
	OrganizationHistory []AnalysisRecord         `json:"organizationHistory"`
}

func emptyData() Data {
	return Data{
		UserActions:         []Action{},
		FolderPatterns:      map[string]FolderPattern{},
		NamingPatterns:      map[string]int{},
		OrganizationHistory: []AnalysisRecord{},
	}
}

// Store holds learning data in memory and writes it through the state
// store. Mutations mark the data dirty; Flush persists it, driven by the
// Scheduler or by explicit user actions (export, import, reset).
type Store struct {
	mu     sync.RWMutex
	logger *zap.Logger
	state  *statestore.Store
	data   Data
	dirty  bool

	// processed marks how many of data.UserActions have already been
	// folded into the pattern table, so repeated UpdateLearning calls
	// never count the same action twice. Persisted actions count as
	// processed: their patterns were persisted alongside them.
	processed int

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates a learning store, loading any persisted data. A load
// failure logs and starts empty. state may be nil for an in-memory
// store; logger may be nil.
func NewStore(state *statestore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger: logger,
		state:  state,
		data:   emptyData(),
		now:    time.Now,
	}
	if state != nil {
		var loaded Data
		if err := state.Load(learningDoc, &loaded); err != nil {
			if !errors.Is(err, statestore.ErrNotFound) {
				logger.Warn("failed to load learning data, starting empty", zap.Error(err))
			}
		} else {
			s.data = normalize(loaded)
			s.processed = len(s.data.UserActions)
		}
	}
	return s
}

func normalize(d Data) Data {
	if d.UserActions == nil {
		d.UserActions = []Action{}
	}
	if d.FolderPatterns == nil {
		d.FolderPatterns = map[string]FolderPattern{}
	}
	if d.NamingPatterns == nil {
		d.NamingPatterns = map[string]int{}
	}
	if d.OrganizationHistory == nil {
		d.OrganizationHistory = []AnalysisRecord{}
	}
	return d
}

// RecordAction appends one user action to the raw history, trimming the
// log to its cap.
func (s *Store) RecordAction(action string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.UserActions = append(s.data.UserActions, Action{
		Action:    action,
		Data:      data,
		Timestamp: s.now().UnixMilli(),
	})
	if len(s.data.UserActions) > maxActions {
		dropped := len(s.data.UserActions) - trimActions
		s.data.UserActions = append([]Action{}, s.data.UserActions[dropped:]...)
		s.processed -= dropped
		if s.processed < 0 {
			s.processed = 0
		}
	}
	s.dirty = true
}

// RecordAnalysis remembers one analysis outcome, trimming history to its
// cap.
func (s *Store) RecordAnalysis(rec AnalysisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp == 0 {
		rec.Timestamp = s.now().UnixMilli()
	}
	s.data.OrganizationHistory = append(s.data.OrganizationHistory, rec)
	if len(s.data.OrganizationHistory) > maxHistory {
		s.data.OrganizationHistory = append([]AnalysisRecord{},
			s.data.OrganizationHistory[len(s.data.OrganizationHistory)-trimHistory:]...)
	}
	s.dirty = true
}

// UpdateLearning folds unprocessed folder-creation actions into the
// folder pattern table. Only actions inside the recency window count,
// capped to the most recent few; each action is folded at most once.
// The derived table itself is capped separately, evicting the least
// recently used entry.
func (s *Store) UpdateLearning() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-recentWindow).UnixMilli()
	var recent []Action
	for _, a := range s.data.UserActions[s.processed:] {
		if a.Timestamp >= cutoff {
			recent = append(recent, a)
		}
	}
	s.processed = len(s.data.UserActions)
	if len(recent) > recentActionsCap {
		recent = recent[len(recent)-recentActionsCap:]
	}

	for _, a := range recent {
		if a.Action != ActionFolderCreated {
			continue
		}
		name, _ := a.Data["name"].(string)
		if name == "" {
			continue
		}
		p, ok := s.data.FolderPatterns[name]
		if !ok {
			p = FolderPattern{Keywords: ExtractKeywords(name)}
		}
		p.Usage++
		p.LastUsed = a.Timestamp
		s.data.FolderPatterns[name] = p
		s.dirty = true
	}

	for len(s.data.FolderPatterns) > maxFolderPatterns {
		s.evictOldestPattern()
	}
}

func (s *Store) evictOldestPattern() {
	oldestName := ""
	oldest := int64(0)
	for name, p := range s.data.FolderPatterns {
		if oldestName == "" || p.LastUsed < oldest {
			oldestName = name
			oldest = p.LastUsed
		}
	}
	if oldestName != "" {
		delete(s.data.FolderPatterns, oldestName)
		s.dirty = true
	}
}

// Personalize returns folder suggestions from learned patterns: any
// folder name used more than twice whose keywords match at least one
// asset name. Confidence grows with usage, capped below the static
// pattern library's certainty.
func (s *Store) Personalize(assets []catalog.Asset) []suggest.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data.FolderPatterns))
	for name := range s.data.FolderPatterns {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []suggest.Suggestion
	for _, name := range names {
		p := s.data.FolderPatterns[name]
		if p.Usage <= minPatternUsage {
			continue
		}
		var matching []string
		for _, a := range assets {
			lower := strings.ToLower(a.Name)
			for _, kw := range p.Keywords {
				if strings.Contains(lower, kw) {
					matching = append(matching, a.ID)
					break
				}
			}
		}
		if len(matching) == 0 {
			continue
		}
		confidence := float64(p.Usage) / 10
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		out = append(out, suggest.NewCreateFolder(confidence, suggest.CreateFolderPayload{
			Name:             name,
			Reason:           "Based on your previous organization patterns",
			Color:            patterns.SuggestColor(name),
			MatchingAssetIDs: matching,
			Personalized:     true,
		}))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// History returns a copy of the remembered analysis outcomes, oldest
// first.
func (s *Store) History() []AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AnalysisRecord, len(s.data.OrganizationHistory))
	copy(out, s.data.OrganizationHistory)
	return out
}

// Export serializes the full learning state for backup.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export learning data: %w", err)
	}
	return data, nil
}

// Import merges a backup into the current state. Sections present in the
// payload replace the corresponding current sections; absent sections
// are kept. The merged state persists immediately.
func (s *Store) Import(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.data
	if err := json.Unmarshal(payload, &merged); err != nil {
		return fmt.Errorf("failed to parse learning data: %w", err)
	}
	s.data = normalize(merged)
	s.processed = len(s.data.UserActions)
	s.dirty = true
	s.flushLocked()
	s.logger.Info("learning data imported",
		zap.Int("actions", len(s.data.UserActions)),
		zap.Int("folder_patterns", len(s.data.FolderPatterns)))
	return nil
}

// Reset clears all learning data and persists the empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = emptyData()
	s.processed = 0
	s.dirty = true
	s.flushLocked()
	s.logger.Info("learning data cleared")
}

// Flush persists the data when dirty. A persistence failure is returned
// but leaves the data intact for the next attempt.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if !s.dirty || s.state == nil {
		return nil
	}
	if err := s.state.Save(learningDoc, s.data); err != nil {
		s.logger.Warn("failed to persist learning data", zap.Error(err))
		return err
	}
	s.dirty = false
	return nil
}

// ExtractKeywords lowercases a folder name, strips punctuation and
// returns the words longer than two characters.
func ExtractKeywords(name string) []string {
	cleaned := keywordStripRe.ReplaceAllString(strings.ToLower(name), " ")
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
