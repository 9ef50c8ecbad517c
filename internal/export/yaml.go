package export

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
	"gopkg.in/yaml.v3"
)

// YAMLColumn is one category and its tags, without padding.
type YAMLColumn struct {
	Category  string   `yaml:"category"`
	AssetTags []string `yaml:"asset_tags"`
}

// YAMLExport is the document written by WriteYAML
type YAMLExport struct {
	Location string       `yaml:"location,omitempty"`
	Columns  []YAMLColumn `yaml:"columns"`
}

// WriteYAML writes the table as an ordered list of categories.
func WriteYAML(w io.Writer, location string, table models.Table) error {
	doc := YAMLExport{
		Location: location,
		Columns:  make([]YAMLColumn, 0, len(table.Columns)),
	}
	for _, name := range table.Columns {
		col := YAMLColumn{Category: name, AssetTags: []string{}}
		for _, v := range table.Column(name) {
			if v != "" {
				col.AssetTags = append(col.AssetTags, v)
			}
		}
		doc.Columns = append(doc.Columns, col)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
