package datastore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// WriteResult contains the result of a write operation
type WriteResult struct {
	FilePath       string
	RecordsWritten int
	FileSize       int64
	WriteTime      time.Duration
}

// ParquetWriter writes the page results of a run to one Parquet file per run
type ParquetWriter struct {
	config config.StorageConfig
	logger zerolog.Logger
}

// NewParquetWriter creates a writer rooted at cfg.ParquetBasePath
func NewParquetWriter(cfg config.StorageConfig, logger zerolog.Logger) (*ParquetWriter, error) {
	if cfg.ParquetBasePath == "" {
		return nil, common.NewValidationError("parquet_base_path", cfg.ParquetBasePath, "parquet base path cannot be empty")
	}
	return &ParquetWriter{
		config: cfg,
		logger: logger.With().Str("component", "ParquetWriter").Logger(),
	}, nil
}

// PathForRun returns where the results of runID are written
func (pw *ParquetWriter) PathForRun(runID string) string {
	return filepath.Join(pw.config.ParquetBasePath, runID+".parquet")
}

// Write stores results under the run's file. The file is written to a
// temporary name first so readers never observe a partial file.
func (pw *ParquetWriter) Write(ctx context.Context, runID string, results []models.PageResult) (*WriteResult, error) {
	if runID == "" {
		return nil, common.NewValidationError("run_id", runID, "run ID cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(err, "parquet write cancelled")
	}

	start := time.Now()
	finalPath := pw.PathForRun(runID)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return nil, common.WrapErrorf(err, "failed to create results directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), runID+".*.tmp")
	if err != nil {
		return nil, common.WrapError(err, "failed to create temporary results file")
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	rows := make([]ParquetPageResult, 0, len(results))
	for _, r := range results {
		rows = append(rows, ToParquetPageResult(r))
	}

	writer := parquet.NewGenericWriter[ParquetPageResult](tmp, pw.getCompressionOption())
	if _, err := writer.Write(rows); err != nil {
		_ = tmp.Close()
		return nil, common.WrapError(err, "failed to write parquet rows")
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		return nil, common.WrapError(err, "failed to close parquet writer")
	}
	if err := tmp.Close(); err != nil {
		return nil, common.WrapError(err, "failed to close temporary results file")
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, common.WrapError(err, "failed to move results file into place")
	}

	var size int64
	if info, err := os.Stat(finalPath); err == nil {
		size = info.Size()
	}

	result := &WriteResult{
		FilePath:       finalPath,
		RecordsWritten: len(rows),
		FileSize:       size,
		WriteTime:      time.Since(start),
	}

	pw.logger.Info().
		Str("run_id", runID).
		Str("path", finalPath).
		Int("records", result.RecordsWritten).
		Int64("size_bytes", size).
		Msg("Wrote page results")

	return result, nil
}

// getCompressionOption returns the compression option based on configuration
func (pw *ParquetWriter) getCompressionOption() parquet.WriterOption {
	switch pw.config.CompressionCodec {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}
