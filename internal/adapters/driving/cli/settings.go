package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure chunking, retrieval, AI providers and storage.

Use subcommands to change a single key or configure a provider interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its config key.

Keys:
  rag.chunk_size, rag.chunk_overlap, rag.top_k, rag.threshold
  embedding.provider, embedding.model, embedding.base_url, embedding.dimensions
  llm.provider, llm.model, llm.base_url
  storage.driver, storage.path, storage.database_url`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key [provider]",
	Short: "Store the API key for a provider",
	Long:  `Store the API key for openai or anthropic. Prompts without echo unless --key is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAPIKey,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the configured providers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively choose the embedding provider, model and API key.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively choose the LLM provider, model and API key used to generate answers.`,
	RunE:  runSettingsLLM,
}

// settingsAPIKey supplies the key non-interactively.
var settingsAPIKey string

func init() {
	settingsAPIKeyCmd.Flags().StringVar(&settingsAPIKey, "key", "", "API key (prompted when omitted)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[RAG]")
	cmd.Printf("  Chunk size:    %d\n", settings.RAG.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.RAG.ChunkOverlap)
	cmd.Printf("  Top K:         %d\n", settings.RAG.TopK)
	cmd.Printf("  Threshold:     %.2f\n", settings.RAG.Threshold)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	printStatus(cmd, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver)
	switch settings.Storage.Driver {
	case domain.StorageSQLite:
		if settings.Storage.Path != "" {
			cmd.Printf("  Path: %s\n", settings.Storage.Path)
		}
	case domain.StoragePostgres:
		if settings.Storage.DatabaseURL != "" {
			cmd.Printf("  Database URL: (set)\n")
		} else {
			cmd.Printf("  Database URL: (not set)\n")
		}
	case domain.StorageMemory:
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'codeaid settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if key == services.KeyEmbedAPIKey || key == services.KeyLLMAPIKey {
		return errors.New("use 'codeaid settings api-key' to store API keys")
	}
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q", args[0])
	}

	key := settingsAPIKey
	if key == "" {
		cmd.Printf("Enter %s API key: ", provider)
		key = readPassword(bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
	}

	if err := settingsService.SetAPIKey(provider, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("Stored API key for %s: %s\n", provider.Description(), maskAPIKey(key))
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cmd.Println("Settings: OK")

	if aiValidator == nil {
		cmd.Println("Provider checks skipped: no validator configured")
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	var failed bool
	cmd.Printf("Embedding (%s): ", settings.Embedding.Provider)
	if err := aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	cmd.Printf("LLM (%s): ", settings.LLM.Provider)
	if err := aiValidator.ValidateLLM(&settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if failed {
		return errors.New("provider check failed")
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureEmbeddingProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

// chooseProvider prints providers and reads a numbered choice, defaulting to the first.
func chooseProvider(cmd *cobra.Command, reader *bufio.Reader, title string, providers []domain.AIProvider) domain.AIProvider {
	cmd.Println(title)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	return providers[idx-1]
}

func chooseModel(cmd *cobra.Command, reader *bufio.Reader, defaultModel string) string {
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	if model := readLine(reader); model != "" {
		return model
	}
	return defaultModel
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider := chooseProvider(cmd, reader, "Select Embedding Provider", domain.AllEmbeddingProviders())
	model := chooseModel(cmd, reader, domain.DefaultEmbeddingModels()[provider])

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	dims := domain.DimensionsForModel(model, settings.Embedding.Dimensions)

	for _, kv := range [][2]string{
		{services.KeyEmbedProvider, string(provider)},
		{services.KeyEmbedModel, model},
		{services.KeyEmbedDimensions, strconv.Itoa(dims)},
	} {
		if err := settingsService.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to configure embedding provider: %w", err)
		}
	}

	if provider.RequiresAPIKey() {
		if err := promptAPIKey(cmd, reader, provider); err != nil {
			return err
		}
	}

	if aiValidator != nil {
		cmd.Print("Validating configuration... ")
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if err := aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s (%s, %d dimensions)\n", provider.Description(), model, dims)
	cmd.Println("Documents embedded with a different model must be uploaded again.")
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider := chooseProvider(cmd, reader, "Select LLM Provider", domain.AllLLMProviders())
	model := chooseModel(cmd, reader, domain.DefaultLLMModels()[provider])

	for _, kv := range [][2]string{
		{services.KeyLLMProvider, string(provider)},
		{services.KeyLLMModel, model},
	} {
		if err := settingsService.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to configure LLM provider: %w", err)
		}
	}

	if provider.RequiresAPIKey() {
		if err := promptAPIKey(cmd, reader, provider); err != nil {
			return err
		}
	}

	if aiValidator != nil {
		cmd.Print("Validating configuration... ")
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if err := aiValidator.ValidateLLM(&settings.LLM); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func promptAPIKey(cmd *cobra.Command, reader *bufio.Reader, provider domain.AIProvider) error {
	cmd.Print("Enter API key: ")
	apiKey := readPassword(reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}
	if err := settingsService.SetAPIKey(provider, apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
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

// readPassword reads without echo from a terminal, otherwise a line from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
