package templates

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by template operations.
var (
	// ErrNotFound indicates no template with the given id exists.
	ErrNotFound = errors.New("template not found")

	// ErrBuiltIn indicates an attempt to modify or delete a built-in
	// template.
	ErrBuiltIn = errors.New("built-in templates cannot be modified")

	// ErrInvalidTemplate indicates a malformed template or import
	// payload. Nothing is persisted when validation fails.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Category separates shipped templates from user-authored ones.
type Category string

const (
	// CategoryBuiltIn marks a shipped, immutable template.
	CategoryBuiltIn Category = "built-in"
	// CategoryUser marks a user-authored, persisted template.
	CategoryUser Category = "user"
)

// FilterType selects which asset attribute a filter inspects.
type FilterType string

const (
	FilterName      FilterType = "name"
	FilterAssetType FilterType = "type"
	FilterSize      FilterType = "size"
	FilterDuration  FilterType = "duration"
	FilterTag       FilterType = "tag"
)

// Operator is a filter comparison operator. Name and tag filters only use
// OpContains; numeric filters use the comparison operators.
type Operator string

const (
	OpContains Operator = "contains"
	OpEqual    Operator = "="
	OpGreater  Operator = ">"
	OpLess     Operator = "<"
	OpGreaterE Operator = ">="
	OpLessE    Operator = "<="
)

// Filter is one predicate over a single asset attribute. Values are
// strings even for numeric filters: sizes carry a unit suffix ("100MB"),
// durations are raw seconds ("30").
type Filter struct {
	Type     FilterType `json:"type"`
	Operator Operator   `json:"operator"`
	Value    string     `json:"value"`
}

// FolderDefinition declares one folder a template creates, plus the
// filters selecting assets for it.
type FolderDefinition struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`

	// Parent references another FolderDefinition's Name within the same
	// template. Parents must be declared before the children that
	// reference them. Empty means root.
	Parent string `json:"parent,omitempty"`

	Filters []Filter `json:"filters,omitempty"`
}

// Template is a named, ordered set of folder definitions. The field names
// match the persisted JSON format of the original panel so existing user
// templates import unchanged.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    Category           `json:"category"`
	Version     string             `json:"version,omitempty"`
	Author      string             `json:"author,omitempty"`
	Folders     []FolderDefinition `json:"folders"`
	Created     time.Time          `json:"created"`
	Modified    time.Time          `json:"modified"`

	// Imported marks templates that arrived through Import, with the
	// exporting application recorded when known.
	Imported     bool   `json:"imported,omitempty"`
	ImportedFrom string `json:"importedFrom,omitempty"`
}

// Validate checks template shape: a name, and a name on every folder
// definition. Filter values are not validated here; unparseable numeric
// values degrade at match time instead of failing the template.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTemplate)
	}
	for i, f := range t.Folders {
		if f.Name == "" {
			return fmt.Errorf("%w: folder %d missing name", ErrInvalidTemplate, i)
		}
	}
	return nil
}
