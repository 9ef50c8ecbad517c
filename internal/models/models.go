package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ErrInvalidAssetTag is returned by ParseAssetTag for anything that is not
// 5 to 7 ASCII digits.
var ErrInvalidAssetTag = errors.New("asset tag must be 5 to 7 decimal digits")

// ErrEmptyCategory is returned when a category resolves to an empty label.
var ErrEmptyCategory = errors.New("category is required")

const (
	MinTagDigits = 5
	MaxTagDigits = 7
)

// AssetTag is the canonical patrimony number printed on an inventory label.
type AssetTag string

// ParseAssetTag validates s as an AssetTag. Leading zeros are kept.
func ParseAssetTag(s string) (AssetTag, error) {
	if len(s) < MinTagDigits || len(s) > MaxTagDigits {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetTag, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidAssetTag, s)
		}
	}
	return AssetTag(s), nil
}

func (t AssetTag) String() string { return string(t) }

// Category is an upper-cased, non-empty inventory category label.
type Category string

func (c Category) String() string { return string(c) }

// NewCategory normalizes free text into a Category.
func NewCategory(text string) (Category, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCategory
	}
	return Category(strings.ToUpper(text)), nil
}

// PresetCategories are offered to operators before they fall back to typing one.
var PresetCategories = []string{
	"Mesas",
	"Cadeiras",
	"Estantes",
	"Ar-Condicionado",
	"Informática",
	"Armários",
}

// CategoryChoice is either a preset picked from PresetCategories or custom
// text typed by the operator.
type CategoryChoice struct {
	custom bool
	value  string
}

// Preset selects one of PresetCategories by name.
func Preset(name string) CategoryChoice {
	return CategoryChoice{value: name}
}

// Custom selects operator-typed text.
func Custom(text string) CategoryChoice {
	return CategoryChoice{custom: true, value: text}
}

// IsCustom reports whether the choice was typed rather than picked.
func (c CategoryChoice) IsCustom() bool { return c.custom }

// Resolve turns the choice into a Category. Presets are matched case-insensitively.
func (c CategoryChoice) Resolve() (Category, error) {
	if c.custom {
		return NewCategory(c.value)
	}
	name := strings.TrimSpace(c.value)
	if name == "" {
		return "", ErrEmptyCategory
	}
	for _, p := range PresetCategories {
		if strings.EqualFold(p, name) {
			return NewCategory(p)
		}
	}
	return "", fmt.Errorf("unknown preset category %q", name)
}

// Record is one captured (category, asset tag) pair.
type Record struct {
	Category Category `json:"category" yaml:"category"`
	AssetTag AssetTag `json:"asset_tag" yaml:"asset_tag"`
}

// ImagePayload is one capture event as handed over by the capture collaborator.
type ImagePayload struct {
	ID       string
	Filename string
	Data     []byte
}

// Table is the pivoted ledger: one column per category, rows padded with "".
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table has no columns.
func (t Table) Empty() bool { return len(t.Columns) == 0 }

// Column returns the cells of the named column, or nil if absent.
func (t Table) Column(name string) []string {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		cells := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			cells[r] = row[i]
		}
		return cells
	}
	return nil
}

// SessionSummary is the JSON view of an inventory session
type SessionSummary struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
	Table     *Table    `json:"table,omitempty"`
}

// SanitizeLocation replaces whitespace, path separators and characters that
// file systems reject with underscores, so the result is a single path element.
func SanitizeLocation(location string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(location))
}
