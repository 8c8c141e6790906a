package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flowsmith/flowsmith/utils/config"
)

// checkAuth enforces bearer-token authentication when it is enabled in the
// server configuration. Writes the failure response itself and returns false
// when the request must not proceed.
func checkAuth(serverConfig *config.ServerConfig, w http.ResponseWriter, r *http.Request) bool {
	if !serverConfig.Enabled {
		config.DebugLog("Auth check skipped: server auth is disabled")
		return true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		config.VerboseLog("Missing Authorization header")
		writeAuthError(w, "Authorization header required")
		return false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		config.VerboseLog("Invalid authorization header format")
		writeAuthError(w, "Invalid authorization header format")
		return false
	}

	if parts[1] != serverConfig.BearerToken {
		config.VerboseLog("Invalid bearer token")
		writeAuthError(w, "Invalid bearer token")
		return false
	}

	return true
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(GenerateResponse{
		Success: false,
		Error:   message,
	})
}
