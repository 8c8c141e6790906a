package models

import (
	"fmt"

	"github.com/flowsmith/flowsmith/utils/config"
)

// ResolveForModel finds the provider for a model name and configures it with
// the API key from the environment configuration.
func ResolveForModel(envConfig *config.EnvConfig, modelName string) (Provider, error) {
	provider := DetectProvider(modelName)
	if provider == nil {
		return nil, fmt.Errorf("no provider supports model %s", modelName)
	}

	providerConfig, err := envConfig.GetProviderConfig(provider.Name())
	if err != nil {
		return nil, fmt.Errorf("provider %s is not configured: %w (run 'flowsmith configure')", provider.Name(), err)
	}

	if err := provider.Configure(providerConfig.APIKey); err != nil {
		return nil, err
	}

	provider.SetVerbose(config.Verbose)
	return provider, nil
}
