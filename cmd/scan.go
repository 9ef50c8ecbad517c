package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/tagscan/internal/export"
	"github.com/lehigh-university-libraries/tagscan/internal/models"
	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
	"github.com/lehigh-university-libraries/tagscan/internal/storage"
	"github.com/lehigh-university-libraries/tagscan/internal/utils"
)

func newScanCmd() *cobra.Command {
	var (
		location string
		category string
		custom   bool
		format   string
		outDir   string
		rf       recognizerFlags
	)

	cmd := &cobra.Command{
		Use:   "scan [flags] IMAGE...",
		Short: "Read asset tags from photos and write the inventory file",
		Long: `Processes photos in order through a single inventory session for one
location, filing every tag found under the given category, then writes the
inventory export to the output directory.

Each file is identified by the MD5 of its contents, so a photo repeated
back-to-back is only counted once.`,
		Example: `  # Inventory the desks in room 3B
  tagscan scan --location "Sala 3B" --category Mesas photos/*.jpg

  # Free-text category, Excel output
  tagscan scan --location Lab --category "Projetores" --custom --format xlsx img1.png img2.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location = strings.TrimSpace(location)
			if location == "" {
				return errors.New("--location is required")
			}
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			scheme, err := nameSchemeFromEnv()
			if err != nil {
				return err
			}
			extractor, err := rf.extractor(cmd)
			if err != nil {
				return err
			}

			choice := models.Preset(category)
			if custom {
				choice = models.Custom(category)
			}
			if _, err := choice.Resolve(); err != nil {
				return fmt.Errorf("%w: %w", scanner.ErrMissingCategory, err)
			}

			recognizer, err := buildRecognizer(rf.providerName(), rf.model)
			if err != nil {
				return fmt.Errorf("failed to initialize OCR: %w", err)
			}
			defer closeRecognizer(recognizer)

			svc := scanner.NewService(recognizer, extractor, slog.Default())
			session := storage.NewSession(location)
			out := cmd.OutOrStdout()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}

				result, err := svc.Process(cmd.Context(), session, scanner.Submission{
					Payload: models.ImagePayload{
						ID:       utils.CalculateDataMD5(data),
						Filename: filepath.Base(path),
						Data:     data,
					},
					Category: choice,
				})
				if errors.Is(err, scanner.ErrDecode) {
					fmt.Fprintf(out, "%s: skipped (%v)\n", path, err)
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to process %s: %w", path, err)
				}

				switch result.Outcome {
				case scanner.OutcomeAdded:
					fmt.Fprintf(out, "%s: %s %s\n", path, result.Category, result.AssetTag)
				case scanner.OutcomeNotFound:
					fmt.Fprintf(out, "%s: no asset tag found\n", path)
				default:
					fmt.Fprintf(out, "%s: duplicate of previous photo\n", path)
				}
			}

			records, table := session.Contents()
			var buf bytes.Buffer
			if err := export.Write(&buf, exportFormat, export.Snapshot{
				Location: session.Location,
				Records:  records,
				Table:    table,
			}); err != nil {
				return fmt.Errorf("failed to export inventory: %w", err)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			target := filepath.Join(outDir, export.FileName(session.Location, exportFormat, scheme))
			if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}

			fmt.Fprintf(out, "\n%d asset tags written to %s\n", len(records), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Room or class being inventoried (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Preset category (see 'tagscan categories')")
	cmd.Flags().BoolVar(&custom, "custom", false, "Treat --category as free text instead of a preset")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, xlsx, parquet, yaml")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the inventory file to")
	rf.register(cmd)

	return cmd
}
