package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

// ParquetRecord is the flat row layout of the parquet export.
type ParquetRecord struct {
	Category string `parquet:"category"`
	AssetTag string `parquet:"asset_tag"`
	Position int32  `parquet:"position"`
}

// WriteParquet writes one row per record in ledger order. Position counts
// records within their category starting at 1.
func WriteParquet(w io.Writer, records []models.Record) error {
	rows := make([]ParquetRecord, 0, len(records))
	counts := make(map[models.Category]int32)
	for _, r := range records {
		counts[r.Category]++
		rows = append(rows, ParquetRecord{
			Category: r.Category.String(),
			AssetTag: r.AssetTag.String(),
			Position: counts[r.Category],
		})
	}

	if err := parquet.Write(w, rows); err != nil {
		return fmt.Errorf("parquet write: %w", err)
	}
	return nil
}
