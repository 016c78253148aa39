// Package cli provides the verdict command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
	"github.com/custodia-labs/verdict/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose    bool
	configPath string
)

// CorpusLoader reads and validates a corpus file.
type CorpusLoader func(ctx context.Context, path string) (*domain.Corpus, error)

// Services are the application services the commands drive.
type Services struct {
	Settings  driving.SettingsService
	Retrieval driving.RetrievalService
	Answer    driving.AnswerService
	Builder   driving.IndexBuilder
	Corpus    CorpusLoader

	// Config is the resolved configuration the services were built from.
	Config domain.AppSettings

	// Unavailable explains why only Settings could be built, if so.
	Unavailable error

	// WatchPrompts reloads prompt files when they change, until the
	// context ends. Optional; long-running commands call it.
	WatchPrompts func(ctx context.Context) error

	// Close releases loaded artifacts and clients.
	Close func() error
}

// Options are the global flags handed to a Wiring.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Wiring builds the services once flags are parsed.
type Wiring func(opts Options) (*Services, error)

var (
	wiring   Wiring
	services *Services
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Answer legal questions from a fixed corpus of acts",
	Long: `Verdict builds a vector index over a corpus of legal acts and answers
questions by retrieving the most relevant sections and footnotes and
asking a language model to answer from them.

Build the index once with "verdict build", then ask questions from the
command line, the HTTP API ("verdict serve"), MCP or the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.verdict/config.toml)")
}

// Execute runs the root command. wire is called the first time a command
// needs services.
func Execute(ctx context.Context, wire Wiring) int {
	wiring = wire
	defer closeServices()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// loadServices wires services on first use.
func loadServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if wiring == nil {
		return nil, errors.New("services not configured")
	}
	s, err := wiring(Options{ConfigPath: configPath, Verbose: verbose})
	if err != nil {
		return nil, err
	}
	services = s
	return s, nil
}

// serving returns services able to retrieve and answer.
func serving() (*Services, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.Unavailable != nil {
		return nil, s.Unavailable
	}
	if s.Retrieval == nil || s.Answer == nil {
		return nil, errors.New("retrieval services not configured")
	}
	return s, nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

// watchPrompts starts the prompt watcher if one is wired. A failure only
// means edits need a restart.
func watchPrompts(ctx context.Context, s *Services) {
	if s.WatchPrompts == nil {
		return
	}
	if err := s.WatchPrompts(ctx); err != nil {
		logger.Warn("prompt files will not be reloaded: %v", err)
	}
}

// topKOrDefault resolves a --top-k flag value of 0 to the configured default.
func topKOrDefault(flag int, s *Services) int {
	if flag != 0 {
		return flag
	}
	if s.Config.Retrieval.TopK > 0 {
		return s.Config.Retrieval.TopK
	}
	return domain.DefaultTopK
}

// describe turns a service error into a message with a next step.
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingArtifact):
		return fmt.Errorf("%w\nrun `verdict build --corpus FILE` first", err)
	case errors.Is(err, domain.ErrMissingCredential):
		return fmt.Errorf("%w\nexport the variable or change generation.api_key_env", err)
	case errors.Is(err, domain.ErrCorruptedState):
		return fmt.Errorf("%w\nthe artifacts disagree, rebuild them with `verdict build`", err)
	default:
		return err
	}
}
