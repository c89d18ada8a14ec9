package datastore

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// ParquetReader reads page results written by ParquetWriter
type ParquetReader struct {
	config config.StorageConfig
	logger zerolog.Logger
}

// NewParquetReader creates a reader rooted at cfg.ParquetBasePath
func NewParquetReader(cfg config.StorageConfig, logger zerolog.Logger) *ParquetReader {
	return &ParquetReader{
		config: cfg,
		logger: logger.With().Str("component", "ParquetReader").Logger(),
	}
}

// ReadRun returns the results stored for runID
func (pr *ParquetReader) ReadRun(runID string) ([]models.PageResult, error) {
	return pr.ReadFile(filepath.Join(pr.config.ParquetBasePath, runID+".parquet"))
}

// ReadFile reads every row of a results file
func (pr *ParquetReader) ReadFile(path string) ([]models.PageResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.WrapErrorf(common.ErrNotFound, "results file %s", path)
		}
		return nil, common.WrapErrorf(err, "failed to open results file %s", path)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[ParquetPageResult](file)
	defer reader.Close()

	rows := make([]ParquetPageResult, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, common.WrapErrorf(err, "failed to read rows from %s", path)
	}

	results := make([]models.PageResult, 0, n)
	for _, row := range rows[:n] {
		results = append(results, row.ToPageResult())
	}

	pr.logger.Debug().Int("record_count", len(results)).Str("file", path).Msg("Read page results")
	return results, nil
}
