package web

import "net/http"

// corsMiddleware opens the API to any origin, answers preflight requests
// and rejects everything but GET.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodGet:
			next.ServeHTTP(w, r)
		default:
			writeError(w, "method", http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
}
