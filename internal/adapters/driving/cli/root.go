// Package cli implements the chunkgrader command line interface using
// cobra. Commands receive their services through Initialize, called by
// main after the stores are wired.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
	"github.com/terrafusion/chunkgrader/internal/links"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Nil until Initialize runs; commands check before use.
var (
	selectionService driving.SelectionService
	reviewService    driving.ReviewService
	statsService     driving.StatsService
	importService    driving.ImportService
	linkMap          *links.Map
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "chunkgrader",
	Short: "Review sampling for document chunking runs",
	Long: `chunkgrader samples chunks from a document chunking run for human
review and tracks coverage, steering reviewers toward documents and
chunks that have seen the least attention.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Selection driving.SelectionService
	Review    driving.ReviewService
	Stats     driving.StatsService
	Import    driving.ImportService

	// Links is optional; without it document links are not rendered.
	Links *links.Map
}

// Initialize wires the services into the command tree.
func Initialize(services Services) {
	selectionService = services.Selection
	reviewService = services.Review
	statsService = services.Stats
	importService = services.Import
	linkMap = services.Links
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
