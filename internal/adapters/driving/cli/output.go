package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// chunkOutput is the JSON projection of a selected chunk.
type chunkOutput struct {
	UUID           string         `json:"chunk_uuid"`
	Source         string         `json:"source"`
	ChunkNumber    int            `json:"chunk_number"`
	ChunksInSource int            `json:"chunks_in_source"`
	ChunkingRunID  string         `json:"chunking_run_id"`
	Text           string         `json:"text"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	DocumentLink   string         `json:"document_link,omitempty"`
}

// outputChunk renders a selected chunk as JSON or human-readable text.
func outputChunk(ctx context.Context, cmd *cobra.Command, chunk *domain.Chunk, asJSON bool) error {
	total, err := selectionService.CountChunksInDocument(ctx, chunk.UUID)
	if err != nil {
		return fmt.Errorf("counting document chunks: %w", err)
	}

	var docLink string
	if linkMap != nil && len(chunk.Metadata) > 0 {
		link, err := linkMap.FormatDocumentLink(chunk.Metadata)
		if err != nil {
			logger.Debug("no document link for chunk %s: %v", chunk.UUID, err)
		} else {
			docLink = link
		}
	}

	if asJSON {
		out := chunkOutput{
			UUID:           chunk.UUID,
			Source:         chunk.Source,
			ChunkNumber:    chunk.ChunkNumber,
			ChunksInSource: total,
			ChunkingRunID:  chunk.ChunkingRunID,
			Text:           chunk.Text,
			Metadata:       chunk.Metadata,
			DocumentLink:   docLink,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling chunk: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Chunk %d/%d of %s\n", chunk.ChunkNumber+1, total, chunk.Source)
	cmd.Printf("UUID: %s\n", chunk.UUID)
	if chunk.ChunkingRunID != "" {
		cmd.Printf("Run:  %s\n", chunk.ChunkingRunID)
	}
	if docLink != "" {
		cmd.Println()
		cmd.Println(docLink)
	}
	cmd.Println()
	cmd.Println(chunk.Text)
	return nil
}
