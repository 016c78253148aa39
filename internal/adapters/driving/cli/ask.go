package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	askTopK        int
	askShowSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a legal question",
	Long: `Retrieves the chunks nearest to the question and asks the configured
generation provider to answer from them.

When no question is given and stdin is not a terminal, the question is
read from stdin:
  echo "What is a tort?" | verdict ask`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = retrieval.top_k)")
	askCmd.Flags().BoolVar(&askShowSources, "show-sources", false, "list the chunks the answer was based on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question, err := questionFrom(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := serving()
	if err != nil {
		return err
	}

	answer, err := s.Answer.Ask(cmd.Context(), question, topKOrDefault(askTopK, s))
	if err != nil {
		return describe(err)
	}

	cmd.Println(answer.Text)
	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, src.Chunk.ID, src.Distance)
		}
	}
	return nil
}

// questionFrom takes the question from args, or from in when it is piped.
func questionFrom(args []string, in io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no question given: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(io.LimitReader(in, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading question: %w", err)
	}
	q := strings.TrimSpace(string(data))
	if q == "" {
		return "", errors.New("no question given: pass it as an argument or pipe it on stdin")
	}
	return q, nil
}
