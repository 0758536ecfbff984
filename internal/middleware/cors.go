package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the browser origins allowed to call the API.
	// A single "*" allows any origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORS answers preflight requests and sets the Access-Control headers for
// allowed origins. Cross-origin requests from other origins are rejected
// with 403. Origins match case-insensitively and ignore a trailing slash.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	allowAny := false
	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowedSet[normalizeOrigin(origin)] = true
	}

	methods := config.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	headers := config.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "Authorization", RequestIDHeader}
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowAny || allowedSet[normalizeOrigin(origin)]
		},
		AllowMethods:  methods,
		AllowHeaders:  headers,
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	})
}

// normalizeOrigin lowercases and drops a trailing slash.
func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
