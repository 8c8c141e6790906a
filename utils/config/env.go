package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model represents a single model configuration
type Model struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Provider represents a provider's configuration
type Provider struct {
	APIKey string  `yaml:"api_key"`
	Models []Model `yaml:"models"`
}

// Database represents a named database connection
type Database struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// GetConnectionString builds a lib/pq connection string for the database
func (d *Database) GetConnectionString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, sslMode)
}

// EnvConfig represents the complete environment configuration
type EnvConfig struct {
	Providers map[string]*Provider `yaml:"providers"`
	Server    *ServerConfig        `yaml:"server,omitempty"`
	Databases map[string]*Database `yaml:"databases,omitempty"`
}

// GetEnvPath returns the environment file path from FLOWSMITH_ENV or the default
func GetEnvPath() string {
	if envPath := os.Getenv("FLOWSMITH_ENV"); envPath != "" {
		DebugLog("Using environment file from FLOWSMITH_ENV: %s", envPath)
		return envPath
	}
	DebugLog("Using default environment file: .flowsmith.env")
	return ".flowsmith.env"
}

// LoadEnvConfig loads the environment configuration from the given path
func LoadEnvConfig(path string) (*EnvConfig, error) {
	DebugLog("Attempting to load environment configuration from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		DebugLog("Error reading environment file: %v", err)
		return nil, fmt.Errorf("error reading env file: %w", err)
	}

	var config EnvConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		DebugLog("Error parsing environment file: %v", err)
		return nil, fmt.Errorf("error parsing env file: %w", err)
	}

	DebugLog("Successfully loaded environment configuration")
	return &config, nil
}

// SaveEnvConfig saves the environment configuration to the given path
func SaveEnvConfig(path string, config *EnvConfig) error {
	DebugLog("Attempting to save environment configuration to: %s", path)

	data, err := yaml.Marshal(config)
	if err != nil {
		DebugLog("Error marshaling environment config: %v", err)
		return fmt.Errorf("error marshaling env config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		DebugLog("Error writing environment file: %v", err)
		return fmt.Errorf("error writing env file: %w", err)
	}

	DebugLog("Successfully saved environment configuration")
	return nil
}

// GetProviderConfig retrieves configuration for a specific provider
func (c *EnvConfig) GetProviderConfig(providerName string) (*Provider, error) {
	provider, exists := c.Providers[providerName]
	if !exists {
		return nil, fmt.Errorf("provider %s not found in configuration", providerName)
	}
	if provider == nil {
		return nil, fmt.Errorf("provider %s configuration is nil", providerName)
	}
	return provider, nil
}

// AddProvider adds or updates a provider configuration
func (c *EnvConfig) AddProvider(name string, provider Provider) {
	if c.Providers == nil {
		c.Providers = make(map[string]*Provider)
	}
	providerCopy := provider
	c.Providers[name] = &providerCopy
}

// AddModelToProvider adds a model to a specific provider
func (c *EnvConfig) AddModelToProvider(providerName string, model Model) error {
	provider, exists := c.Providers[providerName]
	if !exists {
		return fmt.Errorf("provider %s not found", providerName)
	}

	for _, m := range provider.Models {
		if m.Name == model.Name {
			return fmt.Errorf("model %s already exists for provider %s", model.Name, providerName)
		}
	}

	provider.Models = append(provider.Models, model)
	return nil
}

// GetServerConfig returns the server configuration, applying defaults
func (c *EnvConfig) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return &ServerConfig{Port: 8080}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	return c.Server
}

// GetDatabaseConfig retrieves a named database configuration
func (c *EnvConfig) GetDatabaseConfig(name string) (*Database, error) {
	db, exists := c.Databases[name]
	if !exists {
		return nil, fmt.Errorf("database %s not found in configuration", name)
	}
	if db.Type != "postgres" {
		return nil, fmt.Errorf("unsupported database type %s for %s (only postgres is supported)", db.Type, name)
	}
	return db, nil
}
