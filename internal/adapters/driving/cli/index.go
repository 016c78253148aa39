package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the built artifacts",
}

var indexVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the index and metadata belong together",
	Long: `Loads both artifacts and checks their checksums, vector and record counts,
dimension and build id, then prints the build manifest. The encoder
configured in settings must match the model the index was built with.`,
	Args: cobra.NoArgs,
	RunE: runIndexVerify,
}

func init() {
	indexCmd.AddCommand(indexVerifyCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexVerify(cmd *cobra.Command, _ []string) error {
	s, err := serving()
	if err != nil {
		return err
	}

	m, err := s.Retrieval.Manifest(cmd.Context())
	if err != nil {
		return describe(err)
	}

	cmd.Println("Index OK")
	cmd.Printf("  Build ID:   %s\n", m.BuildID)
	cmd.Printf("  Model:      %s\n", m.Model)
	cmd.Printf("  Dimension:  %d\n", m.Dimension)
	cmd.Printf("  Vectors:    %d\n", m.VectorCount)
	if !m.CreatedAt.IsZero() {
		cmd.Printf("  Created:    %s\n", m.CreatedAt.Local().Format(time.RFC1123))
	}
	return nil
}
