package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

var (
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Show the chunks nearest to a query",
	Long: `Embeds the query and prints the nearest section and footnote chunks with
their squared L2 distance. No generation provider is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of chunks (0 = retrieval.top_k)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	s, err := serving()
	if err != nil {
		return err
	}

	results, err := s.Retrieval.Retrieve(cmd.Context(), args[0], topKOrDefault(retrieveTopK, s))
	if err != nil {
		return describe(err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results)
	}
	return outputRetrieveTable(cmd, results)
}

type retrievedJSON struct {
	ChunkID   string  `json:"chunk_id"`
	ActTitle  string  `json:"act_title"`
	ChunkType string  `json:"chunk_type"`
	Content   string  `json:"content"`
	Distance  float32 `json:"distance"`
}

func outputRetrieveJSON(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	out := make([]retrievedJSON, len(results))
	for i, r := range results {
		out[i] = retrievedJSON{
			ChunkID:   r.Chunk.ID,
			ActTitle:  r.Chunk.ActTitle,
			ChunkType: r.Chunk.Type.String(),
			Content:   r.Chunk.Content,
			Distance:  r.Distance,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveTable(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("[%d] %s (%.4f)\n", i+1, r.Chunk.ID, r.Distance)
		cmd.Printf("    %s from %s\n", r.Chunk.Type.Label(), r.Chunk.ActTitle)
		cmd.Printf("    %s\n", snippet(r.Chunk.Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet flattens whitespace and cuts text to at most n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
