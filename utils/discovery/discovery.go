package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/flowsmith/flowsmith/utils/config"
)

// ModelCache stores cached model lists with TTL
type ModelCache struct {
	models    []string
	timestamp time.Time
	ttl       time.Duration
}

var (
	cache      = make(map[string]*ModelCache)
	cacheMutex sync.RWMutex
	defaultTTL = 1 * time.Hour
)

func getCachedModels(cacheKey string) ([]string, bool) {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	entry, exists := cache[cacheKey]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) < entry.ttl {
		return entry.models, true
	}
	return nil, false
}

func setCachedModels(cacheKey string, models []string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	cache[cacheKey] = &ModelCache{
		models:    models,
		timestamp: time.Now(),
		ttl:       defaultTTL,
	}
}

func cacheKeyFor(provider, apiKey string) string {
	n := len(apiKey)
	if n > 8 {
		n = 8
	}
	return fmt.Sprintf("%s_%s", provider, apiKey[:n])
}

// GetOpenAIModels fetches the list of available chat models from the OpenAI
// API, filtered to model families the generation pipeline can drive.
func GetOpenAIModels(apiKey string) ([]string, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI")
	}

	cacheKey := cacheKeyFor("openai", apiKey)
	if cached, found := getCachedModels(cacheKey); found {
		return cached, nil
	}

	client := openai.NewClient(apiKey)
	models, err := client.ListModels(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error fetching OpenAI models: %v", err)
	}

	var names []string
	for _, model := range models.Models {
		id := strings.ToLower(model.ID)
		if strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "o1-") || strings.HasPrefix(id, "o3-") {
			names = append(names, model.ID)
		}
	}

	setCachedModels(cacheKey, names)
	return names, nil
}

// GetAnthropicModels fetches models from Anthropic's models endpoint, falling
// back to a static list when the API is unreachable.
func GetAnthropicModels(apiKey string) []string {
	if apiKey == "" {
		return GetAnthropicModelsStatic()
	}

	cacheKey := cacheKeyFor("anthropic", apiKey)
	if cached, found := getCachedModels(cacheKey); found {
		return cached
	}

	req, err := http.NewRequest(http.MethodGet, "https://api.anthropic.com/v1/models", nil)
	if err != nil {
		return GetAnthropicModelsStatic()
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		config.DebugLog("[Discovery] Anthropic model listing failed: %v", err)
		return GetAnthropicModelsStatic()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GetAnthropicModelsStatic()
	}

	var response struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return GetAnthropicModelsStatic()
	}

	var names []string
	for _, m := range response.Data {
		names = append(names, m.ID)
	}
	if len(names) == 0 {
		return GetAnthropicModelsStatic()
	}

	setCachedModels(cacheKey, names)
	return names
}

// GetAnthropicModelsStatic returns a hardcoded list of known Anthropic models.
func GetAnthropicModelsStatic() []string {
	return []string{
		"claude-opus-4-20250514",
		"claude-sonnet-4-20250514",
		"claude-3-7-sonnet-latest",
		"claude-3-5-sonnet-latest",
		"claude-3-5-haiku-latest",
	}
}

// GetGoogleModels fetches models from Google's generative AI API, falling
// back to a static list when the API is unreachable.
func GetGoogleModels(apiKey string) []string {
	if apiKey == "" {
		return GetGoogleModelsStatic()
	}

	cacheKey := cacheKeyFor("google", apiKey)
	if cached, found := getCachedModels(cacheKey); found {
		return cached
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models?key=%s", apiKey)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		config.DebugLog("[Discovery] Google model listing failed: %v", err)
		return GetGoogleModelsStatic()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GetGoogleModelsStatic()
	}

	var response struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return GetGoogleModelsStatic()
	}

	var names []string
	for _, model := range response.Models {
		// Names arrive as full paths, e.g. "models/gemini-1.5-pro".
		name := model.Name
		if idx := strings.LastIndex(name, "/"); idx != -1 {
			name = name[idx+1:]
		}
		if strings.HasPrefix(name, "gemini-") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return GetGoogleModelsStatic()
	}

	setCachedModels(cacheKey, names)
	return names
}

// GetGoogleModelsStatic returns a hardcoded list of known Google models.
func GetGoogleModelsStatic() []string {
	return []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
		"gemini-1.5-flash-8b",
	}
}

// GetAvailableModels retrieves the list of available models for a provider.
// OpenAI requires a valid API key; the other providers fall back to static
// lists when no key is available.
func GetAvailableModels(providerName string, apiKey string) ([]string, error) {
	switch providerName {
	case "openai":
		return GetOpenAIModels(apiKey)
	case "anthropic":
		return GetAnthropicModels(apiKey), nil
	case "google":
		return GetGoogleModels(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}

// ClearCache clears all cached model lists
func ClearCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cache = make(map[string]*ModelCache)
}
