// Package ledger holds the append-only inventory records of one session.
package ledger

import (
	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

// Ledger is an ordered list of records. It performs no locking; callers share
// it through storage.Session, which serializes access.
type Ledger struct {
	records []models.Record
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds one record. Category must already be validated non-empty.
func (l *Ledger) Append(category models.Category, tag models.AssetTag) {
	l.records = append(l.records, models.Record{Category: category, AssetTag: tag})
}

// Clear drops every record.
func (l *Ledger) Clear() {
	l.records = nil
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the records in insertion order.
func (l *Ledger) Records() []models.Record {
	out := make([]models.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Pivot groups records by category. Columns follow the order in which each
// category was first recorded; values keep insertion order and shorter
// columns are padded with empty cells.
func (l *Ledger) Pivot() models.Table {
	var order []models.Category
	groups := make(map[models.Category][]string)
	for _, r := range l.records {
		if _, ok := groups[r.Category]; !ok {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r.AssetTag.String())
	}

	height := 0
	for _, tags := range groups {
		height = max(height, len(tags))
	}

	table := models.Table{
		Columns: make([]string, len(order)),
		Rows:    make([][]string, height),
	}
	for i, c := range order {
		table.Columns[i] = c.String()
	}
	for r := range table.Rows {
		row := make([]string, len(order))
		for i, c := range order {
			if tags := groups[c]; r < len(tags) {
				row[i] = tags[r]
			}
		}
		table.Rows[r] = row
	}
	return table
}
