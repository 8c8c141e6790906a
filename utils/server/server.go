package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flowsmith/flowsmith/utils/config"
)

// Server represents the HTTP server
type Server struct {
	mux       *http.ServeMux
	config    *config.ServerConfig
	envConfig *config.EnvConfig
}

// New creates a new HTTP server with the given configuration
func New(envConfig *config.EnvConfig) (*http.Server, error) {
	serverConfig := envConfig.GetServerConfig()
	if serverConfig == nil {
		return nil, fmt.Errorf("server configuration not found")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    serverConfig,
		envConfig: envConfig,
	}
	s.routes()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", serverConfig.Port),
		Handler:           s.corsMiddleware(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		handleHealth(w, r, s.envConfig)
	})
	s.mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		if !checkAuth(s.config, w, r) {
			return
		}
		handleGenerate(w, r, s.envConfig)
	})
}

// corsMiddleware applies the CORS settings from the server configuration
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cors := s.config.CORS
		if cors.Enabled {
			origin := r.Header.Get("Origin")
			if allowedOrigin(cors.AllowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if len(cors.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(cors.AllowedMethods, ", "))
				}
				if len(cors.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(cors.AllowedHeaders, ", "))
				}
				if cors.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cors.MaxAge))
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func allowedOrigin(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Run starts the HTTP server and blocks until it stops
func Run(envConfig *config.EnvConfig) error {
	server, err := New(envConfig)
	if err != nil {
		return err
	}

	serverConfig := envConfig.GetServerConfig()
	fmt.Printf("Starting server on port %d...\n", serverConfig.Port)
	if serverConfig.Enabled {
		fmt.Println("Authentication is enabled. Bearer token required.")
	}
	fmt.Printf("Example usage: curl -X POST 'http://localhost:%d/generate' -d '{\"description\":\"Sync Shopify orders into HubSpot\"}'\n", serverConfig.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %v", err)
	}

	return nil
}
