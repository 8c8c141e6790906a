package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/discovery"
	"github.com/flowsmith/flowsmith/utils/models"
)

var (
	listFlag       bool
	modelsProvider string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure model settings",
	Long:  `Configure model settings including provider, model name, and API key`,
	Run: func(cmd *cobra.Command, args []string) {
		if listFlag {
			listConfiguration()
			return
		}
		if modelsProvider != "" {
			listAvailableModels(modelsProvider)
			return
		}

		reader := bufio.NewReader(os.Stdin)
		configPath := config.GetEnvPath()

		envConfig, err := config.LoadEnvConfig(configPath)
		if err != nil {
			envConfig = &config.EnvConfig{Providers: make(map[string]*config.Provider)}
		}

		var providerName string
		for {
			fmt.Print("Enter provider (openai/anthropic/google): ")
			providerName, _ = reader.ReadString('\n')
			providerName = strings.TrimSpace(providerName)
			if models.GetProviderByName(providerName) != nil {
				break
			}
			fmt.Println("Invalid provider. Please enter 'openai', 'anthropic', or 'google'")
		}

		existing, exists := envConfig.Providers[providerName]
		var apiKey string
		if exists && existing.APIKey != "" {
			fmt.Print("Provider already has an API key. Enter a new one, or press enter to keep it: ")
			apiKey, _ = reader.ReadString('\n')
			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				apiKey = existing.APIKey
			}
		} else {
			fmt.Print("Enter API key: ")
			apiKey, _ = reader.ReadString('\n')
			apiKey = strings.TrimSpace(apiKey)
		}

		fmt.Print("Enter model name (e.g. gpt-4o, claude-sonnet-4-0, gemini-1.5-pro): ")
		modelName, _ := reader.ReadString('\n')
		modelName = strings.TrimSpace(modelName)

		provider := models.GetProviderByName(providerName)
		if modelName != "" && !provider.SupportsModel(modelName) {
			fmt.Printf("Warning: %s does not look like a %s model name\n", modelName, providerName)
		}

		envConfig.AddProvider(providerName, config.Provider{APIKey: apiKey})
		if modelName != "" {
			if err := envConfig.AddModelToProvider(providerName, config.Model{Name: modelName, Type: "external"}); err != nil {
				fmt.Printf("Note: %v\n", err)
			}
		}

		if err := config.SaveEnvConfig(configPath, envConfig); err != nil {
			fmt.Printf("Error saving configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration saved to %s\n", configPath)
	},
}

func listConfiguration() {
	envConfig, err := config.LoadEnvConfig(config.GetEnvPath())
	if err != nil {
		fmt.Printf("No configuration found at %s\n", config.GetEnvPath())
		return
	}

	fmt.Println("Configured providers:")
	for name, provider := range envConfig.Providers {
		keyStatus := "no API key"
		if provider.APIKey != "" {
			keyStatus = "API key set"
		}
		fmt.Printf("- %s (%s)\n", name, keyStatus)
		for _, m := range provider.Models {
			fmt.Printf("    %s\n", m.Name)
		}
	}

	registered := models.ListRegisteredProviders()
	fmt.Printf("\nSupported providers: %s\n", strings.Join(registered, ", "))
}

func listAvailableModels(providerName string) {
	if models.GetProviderByName(providerName) == nil {
		fmt.Printf("Unknown provider %q. Supported: %s\n", providerName, strings.Join(models.ListRegisteredProviders(), ", "))
		return
	}

	// Use the configured key when one exists so the listing can be live.
	var apiKey string
	if envConfig, err := config.LoadEnvConfig(config.GetEnvPath()); err == nil {
		if providerConfig, err := envConfig.GetProviderConfig(providerName); err == nil {
			apiKey = providerConfig.APIKey
		}
	}

	available, err := discovery.GetAvailableModels(providerName, apiKey)
	if err != nil {
		fmt.Printf("Could not list models for %s: %v\n", providerName, err)
		return
	}

	fmt.Printf("Available %s models:\n", providerName)
	for _, name := range available {
		fmt.Printf("- %s\n", name)
	}
}

func init() {
	configureCmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list configured providers and models")
	configureCmd.Flags().StringVar(&modelsProvider, "models", "", "list available models for a provider")
	rootCmd.AddCommand(configureCmd)
}
