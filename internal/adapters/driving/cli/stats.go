package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsUser string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review progress for the current run scope",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsUser, "user", "", "also show the review count for this reviewer")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ctx := cmd.Context()

	stats, err := statsService.Overview(ctx)
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	userReviews := 0
	if statsUser != "" {
		userReviews, err = statsService.TotalReviewsByUser(ctx, statsUser)
		if err != nil {
			return fmt.Errorf("counting user reviews: %w", err)
		}
	}

	if statsJSON {
		out := map[string]any{
			"total_chunks":       stats.TotalChunks,
			"total_documents":    stats.TotalDocuments,
			"total_reviews":      stats.TotalReviews,
			"reviewed_chunks":    stats.ReviewedChunks,
			"reviewed_documents": stats.ReviewedDocuments,
		}
		if statsUser != "" {
			out["user"] = statsUser
			out["user_reviews"] = userReviews
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Review progress:")
	cmd.Printf("  Chunks:    %d reviewed of %d\n", stats.ReviewedChunks, stats.TotalChunks)
	cmd.Printf("  Documents: %d touched of %d\n", stats.ReviewedDocuments, stats.TotalDocuments)
	cmd.Printf("  Reviews:   %d\n", stats.TotalReviews)
	if statsUser != "" {
		cmd.Printf("  By %s: %d\n", statsUser, userReviews)
	}
	return nil
}
