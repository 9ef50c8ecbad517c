package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/tagscan/internal/evaluation"
	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPath string
		concurrency int
		outputDir   string
		rf          recognizerFlags
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure tag recognition accuracy against a labelled dataset",
		Long: `Runs every photo in a labelled dataset through recognition and tag
extraction and compares the result with the expected tag.

The dataset is a YAML, JSONL or Parquet file of {image, expected} items. An
empty expected value marks a photo that should yield no tag. Results are
written to <output-dir>/<timestamp>.yaml.`,
		Example: `  # Evaluate the local Tesseract engine
  tagscan eval --dataset testdata/labels.yaml

  # Compare strict matching with a vision LLM
  tagscan eval --dataset labels.jsonl --provider gemini --strict --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return errors.New("--dataset is required")
			}
			extractor, err := rf.extractor(cmd)
			if err != nil {
				return err
			}
			provider := rf.providerName()
			slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", provider, "strict", extractor.Strict())

			ds, err := evaluation.LoadDataset(datasetPath)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Dataset loaded", "items", len(ds.Items))

			recognizer, err := buildRecognizer(provider, rf.model)
			if err != nil {
				return fmt.Errorf("failed to initialize OCR: %w", err)
			}
			defer closeRecognizer(recognizer)

			svc := scanner.NewService(recognizer, extractor, slog.Default())
			results := evaluation.NewRunner(svc, concurrency, slog.Default()).Run(cmd.Context(), ds)

			report := evaluation.NewReport(evaluation.RunConfig{
				Provider:    provider,
				Model:       rf.model,
				Strict:      extractor.Strict(),
				Concurrency: concurrency,
				DatasetPath: datasetPath,
			}, results)

			path, err := evaluation.SaveToYAML(outputDir, report)
			if err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}

			evaluation.PrintSummary(cmd.OutOrStdout(), report.Summary)
			fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Labelled dataset file (.yaml, .jsonl or .parquet)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 1, "Number of photos to evaluate concurrently")
	cmd.Flags().StringVar(&outputDir, "output-dir", "evals", "Directory for result files")
	rf.register(cmd)

	return cmd
}
