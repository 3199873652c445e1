package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

var (
	showNext bool
	showPrev bool
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [chunk-uuid]",
	Short: "Show a chunk by uuid",
	Long: `Shows the chunk with the given uuid under the current run scope.
With --next or --prev, shows its neighbour within the same document
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showNext, "next", false, "show the following chunk in the document")
	showCmd.Flags().BoolVar(&showPrev, "prev", false, "show the preceding chunk in the document")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the chunk as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if selectionService == nil {
		return errors.New("selection service not configured")
	}
	if showNext && showPrev {
		return errors.New("--next and --prev are mutually exclusive")
	}

	ctx := cmd.Context()
	chunkUUID := args[0]

	var chunk *domain.Chunk
	var err error
	switch {
	case showNext:
		chunk, err = selectionService.AdjacentChunk(ctx, chunkUUID, domain.DirectionNext)
	case showPrev:
		chunk, err = selectionService.AdjacentChunk(ctx, chunkUUID, domain.DirectionPrev)
	default:
		chunk, err = selectionService.ChunkByUUID(ctx, chunkUUID)
	}
	if err != nil {
		return fmt.Errorf("loading chunk: %w", err)
	}

	if chunk == nil {
		cmd.Println("No such chunk in the current scope.")
		return nil
	}

	return outputChunk(ctx, cmd, chunk, showJSON)
}
