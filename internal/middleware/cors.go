package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin; the API authenticates with cookies, so
// credentials must be allowed for browser clients on other hosts.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
