package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunConfig records how a run was configured.
type RunConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model,omitempty"`
	Strict      bool   `yaml:"strict"`
	Concurrency int    `yaml:"concurrency"`
	DatasetPath string `yaml:"datasetpath"`
	Timestamp   string `yaml:"timestamp"`
}

// Report is the file written for each run.
type Report struct {
	Config  RunConfig    `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []ItemResult `yaml:"results"`
}

// NewReport summarizes results and stamps the run time.
func NewReport(cfg RunConfig, results []ItemResult) *Report {
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	return &Report{Config: cfg, Summary: Summarize(results), Results: results}
}

// SaveToYAML writes the report to <outputDir>/<timestamp>.yaml and returns
// the file path.
func SaveToYAML(outputDir string, report *Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", outputDir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(outputDir, report.Config.Timestamp+".yaml")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}

// LoadReport reads a report written by SaveToYAML.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}
