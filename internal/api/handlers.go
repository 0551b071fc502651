package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"docbooth/internal/blobstore"
	"docbooth/internal/dashboard"
	"docbooth/internal/launcher"
	"docbooth/internal/ledger"
	"docbooth/internal/models"
	"docbooth/internal/session"
	"docbooth/internal/utils"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 256 << 20

// Server bundles the handlers' collaborators.
type Server struct {
	Dash     *dashboard.Controller
	Store    blobstore.Store
	Ledger   ledger.Ledger
	Sessions *session.Registry
	Log      *utils.Logger
}

// RootHandler serves the dashboard, unless the launch query flips the window
// into viewer mode, in which case a session is created and the window is sent
// to its viewer page.
func (s *Server) RootHandler(w http.ResponseWriter, r *http.Request) {
	cfg := session.ParseLaunchQuery(r.URL.RawQuery)
	if !cfg.IsViewer() {
		s.renderDashboard(w)
		return
	}
	ctl := session.NewController(cfg, s.Store)
	ctl.Start(r.Context(), s.Ledger)
	token := s.Sessions.Add(ctl)
	s.logInfo("viewer session " + token + " started for " + cfg.FileID)
	http.Redirect(w, r, "/viewer/"+token, http.StatusSeeOther)
}

type fileInfo struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type models.FileType `json:"type"`
	Size int64           `json:"size"`
}

func toFileInfos(entries []models.DashboardEntry) []fileInfo {
	out := make([]fileInfo, len(entries))
	for i, e := range entries {
		out[i] = fileInfo{ID: e.ID, Name: e.Name, Type: models.TypeOf(e.Name), Size: e.Size}
	}
	return out
}

// ListFilesHandler returns the dashboard's current in-memory set.
func (s *Server) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFileInfos(s.Dash.Entries()))
}

// UploadHandler accepts one or more files from a multipart form and adds them
// to the dashboard. Nothing is persisted here.
func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	var uploads []dashboard.Upload
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		uploads = append(uploads, dashboard.Upload{
			Name:     fh.Filename,
			MimeHint: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	if len(uploads) == 0 {
		http.Error(w, "no files in upload", http.StatusBadRequest)
		return
	}
	added := s.Dash.AddFiles(uploads...)
	s.logInfo(strconv.Itoa(len(added)) + " file(s) uploaded")

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toFileInfos(added))
}

func (s *Server) removeByIndex(w http.ResponseWriter, r *http.Request) bool {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "bad index", http.StatusBadRequest)
		return false
	}
	if err := s.Dash.RemoveFile(idx); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// RemoveFileHandler removes a dashboard entry by position. The blob store and
// ledger are left alone.
func (s *Server) RemoveFileHandler(w http.ResponseWriter, r *http.Request) {
	if s.removeByIndex(w, r) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveFileFormHandler is the HTML-form variant of RemoveFileHandler.
func (s *Server) RemoveFileFormHandler(w http.ResponseWriter, r *http.Request) {
	if s.removeByIndex(w, r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ViewHandler launches a viewer session on the chosen document, handing over
// the entire current set.
func (s *Server) ViewHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.Dash.RequestView(r.Context(), id)
	switch {
	case errors.Is(err, launcher.ErrSurface):
		// Blobs and ledger are committed; only the window failed to appear.
		s.logWarn("launch for " + id + ": " + err.Error())
		if wantsHTML(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"launched": true, "window": "blocked"})
	case err != nil:
		s.logError("launch for " + id + ": " + err.Error())
		var ce *utils.CustomError
		if errors.As(err, &ce) {
			writeError(w, err)
			return
		}
		http.Error(w, "failed to prepare files for viewing: "+err.Error(), http.StatusInternalServerError)
	default:
		if wantsHTML(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"launched": true})
	}
}

// BlobHandler streams a stored binary to the rendering widgets. The payload
// is opaque to the server.
func (s *Server) BlobHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := s.Store.Get(r.Context(), id)
	if errors.Is(err, blobstore.ErrNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logError("blob " + id + ": " + err.Error())
		http.Error(w, "failed to load document", http.StatusInternalServerError)
		return
	}
	ct := rec.MimeHint
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `inline; filename="`+rec.Name+`"`)
	w.Write(rec.Data)
}

func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) *session.Controller {
	token := mux.Vars(r)["token"]
	ctl, err := s.Sessions.Get(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	return ctl
}

type sessionState struct {
	State    session.State   `json:"state"`
	FileID   string          `json:"file_id"`
	Name     string          `json:"name,omitempty"`
	Type     models.FileType `json:"type,omitempty"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	CanNext  bool            `json:"can_next"`
	CanPrev  bool            `json:"can_prev"`
	Error    string          `json:"error,omitempty"`
}

func toSessionState(v session.View) sessionState {
	st := sessionState{
		State:    v.State,
		FileID:   v.FileID,
		Position: v.Position,
		Total:    v.Total,
		CanNext:  v.CanNext,
		CanPrev:  v.CanPrev,
	}
	if v.Record != nil {
		st.Name = v.Record.Name
		st.Type = models.TypeOf(v.Record.Name)
	}
	if v.Err != nil {
		st.Error = v.Err.Error()
	}
	return st
}

// SessionStateHandler returns the viewer session's current state as JSON.
func (s *Server) SessionStateHandler(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessionFromRequest(w, r)
	if ctl == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSessionState(ctl.Snapshot()))
}

// SessionNextHandler advances the session and sends the window back to its
// viewer page. A boundary call is a silent no-op.
func (s *Server) SessionNextHandler(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessionFromRequest(w, r)
	if ctl == nil {
		return
	}
	ctl.Next(r.Context())
	s.answerNavigation(w, r, ctl)
}

// SessionPreviousHandler is the symmetric navigation handler.
func (s *Server) SessionPreviousHandler(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessionFromRequest(w, r)
	if ctl == nil {
		return
	}
	ctl.Previous(r.Context())
	s.answerNavigation(w, r, ctl)
}

func (s *Server) answerNavigation(w http.ResponseWriter, r *http.Request, ctl *session.Controller) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/viewer/"+mux.Vars(r)["token"], http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSessionState(ctl.Snapshot()))
}

// writeError maps coded errors onto their HTTP status.
func writeError(w http.ResponseWriter, err error) {
	var ce *utils.CustomError
	if errors.As(err, &ce) {
		http.Error(w, ce.Message, ce.Code)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// wantsHTML distinguishes browser form posts from API clients.
func wantsHTML(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Accept"), "text/html")
}

func (s *Server) logInfo(msg string) {
	if s.Log != nil {
		s.Log.Info(msg)
	}
}

func (s *Server) logWarn(msg string) {
	if s.Log != nil {
		s.Log.Warn(msg)
	}
}

func (s *Server) logError(msg string) {
	if s.Log != nil {
		s.Log.Error(msg)
	}
}
