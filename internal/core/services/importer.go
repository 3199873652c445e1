package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// importBatchSize is the number of chunks written per transaction.
const importBatchSize = 500

// importMaxLineBytes caps a single JSONL line. Chunk texts are a few
// kilobytes; a line this long is a malformed export.
const importMaxLineBytes = 4 * 1024 * 1024

// Ensure ImportService implements the driving port.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService loads chunking-run exports into the catalog.
type ImportService struct {
	chunks driven.ChunkStore
}

// NewImportService creates an import service backed by the given store.
func NewImportService(chunks driven.ChunkStore) *ImportService {
	return &ImportService{chunks: chunks}
}

// importRow is the JSONL wire form of one exported chunk.
type importRow struct {
	UUID          string         `json:"chunk_uuid"`
	Source        string         `json:"source"`
	ChunkNumber   int            `json:"chunk_number"`
	ChunkingRunID string         `json:"chunking_run_id"`
	Text          string         `json:"text"`
	Metadata      map[string]any `json:"metadata"`
}

// ImportJSONL reads one JSON object per line and stores the chunks in
// batches. Blank lines are ignored; a malformed line aborts the import
// with its line number.
func (s *ImportService) ImportJSONL(ctx context.Context, r io.Reader, runID string) (*driving.ImportReport, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), importMaxLineBytes)

	report := &driving.ImportReport{}
	batch := make([]domain.Chunk, 0, importBatchSize)
	line := 0

	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var row importRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if row.Source == "" || row.Text == "" {
			report.Skipped++
			logger.Debug("import: skipping line %d (missing source or text)", line)
			continue
		}
		if row.UUID == "" {
			row.UUID = uuid.NewString()
		}
		if runID != "" {
			row.ChunkingRunID = runID
		}

		batch = append(batch, domain.Chunk{
			UUID:          row.UUID,
			Source:        row.Source,
			ChunkNumber:   row.ChunkNumber,
			ChunkingRunID: row.ChunkingRunID,
			Text:          row.Text,
			Metadata:      row.Metadata,
		})
		report.Imported++

		if len(batch) == importBatchSize {
			if err := s.chunks.SaveChunks(ctx, batch); err != nil {
				return nil, fmt.Errorf("saving chunk batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import input: %w", err)
	}

	if len(batch) > 0 {
		if err := s.chunks.SaveChunks(ctx, batch); err != nil {
			return nil, fmt.Errorf("saving chunk batch: %w", err)
		}
	}

	logger.Info("import: %d chunks imported, %d lines skipped", report.Imported, report.Skipped)
	return report, nil
}
