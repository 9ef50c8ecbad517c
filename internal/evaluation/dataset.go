// Package evaluation measures how reliably photos of labelled assets are read
// back as the tag printed on them.
package evaluation

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Item is one labelled photo. An empty Expected means the photo shows no
// readable tag.
type Item struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty" parquet:"id"`
	Image    string `json:"image" yaml:"image" parquet:"image"`
	Expected string `json:"expected" yaml:"expected" parquet:"expected"`
}

// Dataset is a set of labelled photos loaded from one file.
type Dataset struct {
	Path  string
	Items []Item
}

// LoadDataset reads a YAML, JSON, JSONL or Parquet dataset. Every item is
// checked against the item schema as written in the file. Relative image
// paths are resolved against the dataset file's directory.
func LoadDataset(path string) (*Dataset, error) {
	var (
		items []Item
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		items, err = loadYAML(path)
	case ".json":
		items, err = loadJSON(path)
	case ".jsonl":
		items, err = loadJSONL(path)
	case ".parquet":
		items, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s (supported: .yaml, .json, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = filepath.Base(item.Image)
		}
		if !filepath.IsAbs(item.Image) {
			item.Image = filepath.Join(baseDir, item.Image)
		}
	}

	slog.Debug("Dataset loaded", "path", path, "items", len(items))
	return &Dataset{Path: path, Items: items}, nil
}

// decodeItem validates raw against the item schema before decoding it.
func decodeItem(raw []byte) (Item, error) {
	var item Item
	if err := validateItem(raw); err != nil {
		return item, err
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("failed to parse item: %w", err)
	}
	return item, nil
}

// loadYAML accepts either a top-level list of items or a mapping with an
// "items" list. Items are validated as decoded, so unknown keys and unquoted
// numeric labels are rejected.
func loadYAML(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML dataset: %w", err)
	}

	var nodes []any
	switch v := doc.(type) {
	case []any:
		nodes = v
	case map[string]any:
		list, ok := v["items"].([]any)
		if !ok {
			return nil, errors.New("YAML dataset must be a list or a mapping with an items list")
		}
		nodes = list
	case nil:
		return nil, nil
	default:
		return nil, errors.New("YAML dataset must be a list or a mapping with an items list")
	}

	items := make([]Item, 0, len(nodes))
	for i, node := range nodes {
		raw, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("dataset item %d: %w", i+1, err)
		}
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// loadJSON reads a JSON array of items, or an object with an "items" array.
func loadJSON(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapped struct {
			Items []json.RawMessage `json:"items"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
		}
		raws = wrapped.Items
	}

	items := make([]Item, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func loadJSONL(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var items []Item
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		item, err := decodeItem([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("invalid item at line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}
	return items, nil
}

func loadParquet(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Item](pf)
	defer reader.Close()

	items := make([]Item, 0, pf.NumRows())
	rows := make([]Item, 64)
	for {
		n, err := reader.Read(rows)
		items = append(items, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	// columns come from Item, so only the values need checking
	for i := range items {
		raw, err := json.Marshal(items[i])
		if err != nil {
			return nil, fmt.Errorf("dataset item %d: %w", i+1, err)
		}
		if err := validateItem(raw); err != nil {
			return nil, fmt.Errorf("dataset item %d: %w", i+1, err)
		}
	}
	return items, nil
}
