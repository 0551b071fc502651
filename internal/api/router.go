package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires the dashboard, blob and viewer-session endpoints.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK\n"))
	}).Methods("GET")
	r.HandleFunc("/time", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"time": time.Now().Format(time.RFC3339)})
	}).Methods("GET")

	// Dashboard vs. viewer mode is decided by the launch query on /.
	r.HandleFunc("/", s.RootHandler).Methods("GET")

	r.HandleFunc("/files", s.ListFilesHandler).Methods("GET")
	r.HandleFunc("/files", s.UploadHandler).Methods("POST")
	r.HandleFunc("/files/{index:[0-9]+}", s.RemoveFileHandler).Methods("DELETE")
	r.HandleFunc("/files/{index:[0-9]+}/remove", s.RemoveFileFormHandler).Methods("POST")
	r.HandleFunc("/files/{id}/view", s.ViewHandler).Methods("POST")

	r.HandleFunc("/blob/{id}", s.BlobHandler).Methods("GET")

	r.HandleFunc("/viewer/{token}", s.ViewerPageHandler).Methods("GET")
	r.HandleFunc("/session/{token}", s.SessionStateHandler).Methods("GET")
	r.HandleFunc("/session/{token}/next", s.SessionNextHandler).Methods("POST")
	r.HandleFunc("/session/{token}/previous", s.SessionPreviousHandler).Methods("POST")

	return r
}
