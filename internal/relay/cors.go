package relay

import (
	"net/http"

	"github.com/go-chi/cors"
)

var allowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
var allowedHeaders = []string{"Authorization", "Content-Type"}

// media players read these from relayed segments
var exposedHeaders = []string{"Content-Length", "Content-Range", "Accept-Ranges"}

// CORS opens the relay to any origin. Browser preflights get a cacheable
// answer, and every response (preflight or not) carries the same three
// allow headers with OPTIONS answered 200 and an empty body.
func CORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     allowedMethods,
		AllowedHeaders:     allowedHeaders,
		ExposedHeaders:     exposedHeaders,
		MaxAge:             300,
		OptionsPassthrough: true,
	})(fixedHeaders(next))
}

func fixedHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
