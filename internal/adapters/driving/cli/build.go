package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCorpus string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index from a corpus file",
	Long: `Reads a JSON corpus of acts, splits it into section and footnote chunks,
embeds every chunk and writes the index and metadata artifacts.

The corpus has the shape:
  {"acts": [{"act_title": "...",
             "sections":  [{"section_content": "..."}],
             "footnotes": [{"footnote_text": "..."}]}]}

Existing artifacts are replaced only after the new build completes.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildCorpus, "corpus", "c", "processed_law.json", "corpus JSON file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}
	if s.Unavailable != nil {
		return s.Unavailable
	}
	if s.Builder == nil || s.Corpus == nil {
		return errors.New("index builder not configured")
	}

	corpus, err := s.Corpus(cmd.Context(), buildCorpus)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	report, err := s.Builder.Build(cmd.Context(), corpus)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Println("Build complete")
	cmd.Printf("  Build ID:   %s\n", report.Manifest.BuildID)
	cmd.Printf("  Acts:       %d\n", report.Acts)
	cmd.Printf("  Sections:   %d\n", report.Sections)
	cmd.Printf("  Footnotes:  %d\n", report.Footnotes)
	if report.DroppedEmpty > 0 {
		cmd.Printf("  Skipped:    %d empty entries\n", report.DroppedEmpty)
	}
	cmd.Printf("  Chunks:     %d\n", report.Chunks)
	cmd.Printf("  Model:      %s (%d dimensions)\n", report.Manifest.Model, report.Manifest.Dimension)
	cmd.Printf("  Index:      %s\n", report.IndexPath)
	cmd.Printf("  Metadata:   %s\n", report.MetadataPath)
	cmd.Printf("  Duration:   %s\n", report.Duration.Round(time.Millisecond))
	return nil
}
