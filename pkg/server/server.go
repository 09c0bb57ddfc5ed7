package server

import "net/http"

// NewMux builds the HTTP routing table for the bridge's dispatch surface
// (spec §4.H): bridge collection and per-bridge routes, each dispatching on
// method inside the handler the way proof_handlers.go does.
func NewMux(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/bridges", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleNumBridges(w, r)
		case http.MethodPost:
			h.HandleInitializeBridge(w, r)
		default:
			h.writeError(w, http.StatusMethodNotAllowed, "INVALID_ARGUMENT", "unsupported method")
		}
	})

	mux.HandleFunc("/api/v1/bridges/", func(w http.ResponseWriter, r *http.Request) {
		if isHeadersPath(r.URL.Path) {
			h.HandleSubmitFinalizedHeaders(w, r)
			return
		}
		h.HandleTrackedBridge(w, r)
	})

	return mux
}

func isHeadersPath(path string) bool {
	const suffix = "/headers"
	return len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix
}
