package api

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"docbooth/internal/models"
	"docbooth/internal/session"
)

// The dashboard and viewer pages are deliberately plain: the server only
// routes binaries to type-appropriate widgets, it never inspects them.

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Docbooth Document Manager</title></head>
<body style="font-family:sans-serif;max-width:800px;margin:0 auto">
<h2 style="color:#004F77">Docbooth Document Manager</h2>
<form method="POST" action="/files" enctype="multipart/form-data"
      style="border:2px dashed #ccc;border-radius:8px;padding:20px;background:#fafafa">
  <h3>Add documents</h3>
  <p>Supports PDF, Word, Excel, Images, PPT, Audio, Video</p>
  <input type="file" name="files" multiple
         accept=".pdf,.doc,.docx,.rtf,.xlsx,.xls,.csv,.png,.jpg,.jpeg,.ppt,.pptx,.potx,.mp4,.webm,.ogg,.mp3,.wav">
  <button type="submit">Upload</button>
</form>
{{if .Files}}
<h3>Uploaded Documents ({{len .Files}})</h3>
{{range $i, $f := .Files}}
<div style="display:flex;justify-content:space-between;align-items:center;padding:10px 15px;border:1px solid #eee;border-radius:6px;margin-bottom:10px">
  <span><b style="background:#e3f2fd;color:#0288d1;padding:4px 8px;border-radius:4px;font-size:0.8rem">{{$f.Type}}</b>
  {{$f.Name}} <small style="color:#888">{{$f.Size}} bytes</small></span>
  <span>
    <form method="POST" action="/files/{{$f.ID}}/view" style="display:inline">
      <button type="submit" style="background:#FFC106;color:#004F77">View File</button>
    </form>
    <form method="POST" action="/files/{{$i}}/remove" style="display:inline">
      <button type="submit" style="color:#c62828">&#10005;</button>
    </form>
  </span>
</div>
{{end}}
{{end}}
</body>
</html>`))

var viewerTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html>
<head><title>{{if .Name}}{{.Name}}{{else}}Document Viewer{{end}}</title></head>
<body style="font-family:sans-serif;margin:0;height:100vh;display:flex;flex-direction:column">
<header style="padding:10px 20px;background:#f8f9fa;border-bottom:1px solid #ddd;display:flex;justify-content:space-between;align-items:center">
  <h3 style="margin:0;color:#004F77">{{if .Name}}{{.Name}}{{else}}Document Viewer{{end}}</h3>
  <span>
    <form method="POST" action="/session/{{.Token}}/previous" style="display:inline">
      <button type="submit" {{if not .CanPrev}}disabled{{end}}
              style="background:#FFC106;color:#004F77">&larr; Previous</button>
    </form>
    <b style="color:#004F77">{{.Position}} / {{.Total}}</b>
    <form method="POST" action="/session/{{.Token}}/next" style="display:inline">
      <button type="submit" {{if not .CanNext}}disabled{{end}}
              style="background:#FFC106;color:#004F77">Next &rarr;</button>
    </form>
  </span>
</header>
<div style="flex:1;overflow:hidden">
{{if .Message}}
  <p style="padding:20px;color:red;font-weight:bold">{{.Message}}</p>
{{else if eq .Type "PDF"}}
  <object data="/blob/{{.FileID}}" type="application/pdf" style="width:100%;height:100%"></object>
{{else if eq .Type "IMAGE"}}
  <img src="/blob/{{.FileID}}" alt="{{.Name}}" style="max-width:100%;max-height:100%">
{{else if eq .Type "VIDEO"}}
  <video src="/blob/{{.FileID}}" controls style="width:100%;height:100%"></video>
{{else if eq .Type "AUDIO"}}
  <audio src="/blob/{{.FileID}}" controls style="margin:40px"></audio>
{{else if eq .Type "POWERPOINT"}}
  <p style="padding:20px">Presentation preview is not supported yet.
  <a href="/blob/{{.FileID}}" download="{{.Name}}">Download {{.Name}}</a></p>
{{else}}
  <p style="padding:20px"><a href="/blob/{{.FileID}}" download="{{.Name}}">Download {{.Name}}</a></p>
{{end}}
</div>
</body>
</html>`))

type dashboardPage struct {
	Files []fileInfo
}

func (s *Server) renderDashboard(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, dashboardPage{Files: toFileInfos(s.Dash.Entries())}); err != nil {
		s.logError("render dashboard: " + err.Error())
	}
}

type viewerPage struct {
	Token    string
	FileID   string
	Name     string
	Type     models.FileType
	Position int
	Total    int
	CanNext  bool
	CanPrev  bool
	Message  string
}

// ViewerPageHandler renders the launched window from its session snapshot.
func (s *Server) ViewerPageHandler(w http.ResponseWriter, r *http.Request) {
	ctl := s.sessionFromRequest(w, r)
	if ctl == nil {
		return
	}
	v := ctl.Snapshot()
	page := viewerPage{
		Token:    mux.Vars(r)["token"],
		FileID:   v.FileID,
		Position: v.Position,
		Total:    v.Total,
		CanNext:  v.CanNext,
		CanPrev:  v.CanPrev,
	}
	switch v.State {
	case session.StateReady:
		page.Name = v.Record.Name
		page.Type = models.TypeOf(v.Record.Name)
	case session.StateNotFound:
		page.Message = "File not found in database."
	case session.StateFailed:
		page.Message = "Failed to load file."
		if v.Err != nil {
			s.logError("viewer resolve " + v.FileID + ": " + v.Err.Error())
		}
	default:
		page.Message = "Loading Document..."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewerTmpl.Execute(w, page); err != nil {
		s.logError("render viewer: " + err.Error())
	}
}
