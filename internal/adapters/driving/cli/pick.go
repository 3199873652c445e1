package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

var (
	pickSimilarTo string
	pickJSON      bool
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a chunk for review",
	Long: `Picks a chunk from the current run scope. Documents with low review
coverage are favoured and unreviewed chunks are preferred within a
document. With --similar-to, picks a chunk near the given one instead:
usually from the same document while its coverage is low, drifting to
other documents as coverage rises.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickSimilarTo, "similar-to", "", "pick a chunk similar to this chunk uuid")
	pickCmd.Flags().BoolVar(&pickJSON, "json", false, "output the chunk as JSON")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, _ []string) error {
	if selectionService == nil {
		return errors.New("selection service not configured")
	}

	ctx := cmd.Context()

	var chunk *domain.Chunk
	var err error
	if pickSimilarTo != "" {
		chunk, err = selectionService.SimilarChunk(ctx, pickSimilarTo)
	} else {
		chunk, err = selectionService.RandomChunk(ctx)
	}
	if err != nil {
		return fmt.Errorf("picking chunk: %w", err)
	}

	if chunk == nil {
		cmd.Println("No chunks available in the current scope.")
		return nil
	}

	return outputChunk(ctx, cmd, chunk, pickJSON)
}
