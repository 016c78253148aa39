package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in the config file.

Every key can also be overridden with an environment variable named
VERDICT_<KEY>, dots replaced by underscores, e.g. VERDICT_ARTIFACTS_DIR.
Credentials are never stored: generation.api_key_env names the variable
that holds the key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Long: `Validates and stores a single setting, for example:
  verdict settings set generation.provider openai
  verdict settings set generation.timeout 30s
  verdict settings set retrieval.top_k 8`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Choose the embedding and generation providers step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsService() (driving.SettingsService, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return s.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	entries, err := svc.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	section := ""
	for _, e := range entries {
		if s, _, _ := strings.Cut(e.Key, "."); s != section {
			section = s
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		value := e.Value
		if value == "" {
			value = `""`
		}
		suffix := ""
		if e.Source != domain.SettingSourceDefault {
			suffix = fmt.Sprintf("  (%s)", e.Source)
		}
		cmd.Printf("  %-28s %s%s\n", e.Key, value, suffix)
		if strings.HasSuffix(e.Key, ".api_key_env") && e.Value != "" {
			cmd.Printf("  %-28s %s\n", "", credentialStatus(e.Value))
		}
	}

	cmd.Println()
	if err := svc.ValidateGenerationConfig(); err != nil {
		cmd.Printf("Generation: not ready (%v)\n", err)
	} else {
		cmd.Println("Generation: ready")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := svc.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	cmd.Println("Verdict Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Embedding Provider")
	cmd.Println("--------------------------")
	cmd.Println("Changing the embedding provider or model requires a rebuild.")
	if err := configureProvider(cmd, reader, svc, "embedding",
		domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels()); err != nil {
		return err
	}

	cmd.Println("Step 2: Generation Provider")
	cmd.Println("---------------------------")
	if err := configureProvider(cmd, reader, svc, "generation",
		domain.AllLLMProviders(), domain.DefaultLLMModels()); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Print("Validating generation provider... ")
	if err := svc.ValidateGenerationConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return nil
	}
	cmd.Println("OK")
	return nil
}

// configureProvider asks for a provider, model and, for cloud providers,
// the name of the environment variable holding the key.
func configureProvider(
	cmd *cobra.Command,
	reader *bufio.Reader,
	svc driving.SettingsService,
	section string,
	providers []domain.AIProvider,
	models map[domain.AIProvider]string,
) error {
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := models[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	updates := [][2]string{
		{section + ".provider", provider.String()},
		{section + ".model", model},
	}
	if provider.RequiresAPIKey() {
		defaultEnv := domain.DefaultAPIKeyEnv()[provider]
		cmd.Printf("Environment variable holding the API key [%s]: ", defaultEnv)
		env := readLine(reader)
		if env == "" {
			env = defaultEnv
		}
		updates = append(updates, [2]string{section + ".api_key_env", env})
		cmd.Printf("  %s\n", credentialStatus(env))
	}

	for _, u := range updates {
		if err := svc.Set(u[0], u[1]); err != nil {
			return fmt.Errorf("failed to configure %s: %w", section, err)
		}
	}
	cmd.Printf("%s provider configured: %s (%s)\n\n", section, provider.Description(), model)
	return nil
}

// credentialStatus reports whether env is set without revealing it.
func credentialStatus(env string) string {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return fmt.Sprintf("%s is set (%s)", env, maskAPIKey(v))
	}
	return env + " is not set"
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
