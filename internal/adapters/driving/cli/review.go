package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/terrafusion/chunkgrader/internal/adapters/driving/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Launch the interactive review session",
	Long: `Launch the interactive terminal UI for reviewing chunks.

Chunks are served one at a time, steered toward documents and chunks
with the least review coverage. Fill in the form and submit to move on.

Controls:
  tab/shift+tab - Move between form fields
  ←/→           - Cycle field options
  space         - Toggle a well-assignment choice
  enter         - Submit the review
  n             - Skip to another chunk
  s             - Skip to a similar chunk
  q             - Quit`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in review session: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Selection: selectionService,
		Review:    reviewService,
		Stats:     statsService,
		Links:     linkMap,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create review session: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("review session error: %w", err)
	}

	return nil
}
