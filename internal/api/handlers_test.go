package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbooth/internal/blobstore"
	"docbooth/internal/dashboard"
	"docbooth/internal/launcher"
	"docbooth/internal/ledger"
	"docbooth/internal/session"
)

type captureOpener struct{ urls []string }

func (o *captureOpener) Open(ctx context.Context, u string, geo launcher.Geometry) error {
	o.urls = append(o.urls, u)
	return nil
}

func (o *captureOpener) ScreenSize() (int, int) { return 1920, 1080 }

func newTestServer(t *testing.T) (*httptest.Server, *Server, *captureOpener) {
	t.Helper()
	db, err := blobstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := blobstore.NewSQLiteStore(db, nil)
	require.NoError(t, err)
	lg, err := ledger.NewSQLiteLedger(db)
	require.NoError(t, err)
	op := &captureOpener{}
	l := &launcher.Launcher{Store: store, Ledger: lg, Opener: op, Origin: "http://dashboard.test"}
	srv := &Server{
		Dash:     dashboard.NewController(l),
		Store:    store,
		Ledger:   lg,
		Sessions: session.NewRegistry(time.Minute),
	}
	ts := httptest.NewServer(NewRouter(srv))
	t.Cleanup(ts.Close)
	return ts, srv, op
}

func uploadFiles(t *testing.T, ts *httptest.Server, names map[string][]byte) []fileInfo {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range names {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/files", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added []fileInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	return added
}

func getState(t *testing.T, ts *httptest.Server, token string) sessionState {
	t.Helper()
	resp, err := http.Get(ts.URL + "/session/" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st sessionState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func postNav(t *testing.T, ts *httptest.Server, token, dir string) sessionState {
	t.Helper()
	resp, err := http.Post(ts.URL+"/session/"+token+"/"+dir, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st sessionState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

// openViewer follows the hand-off a launched window performs: hit / with the
// launch query, pick the session token off the redirect.
func openViewer(t *testing.T, ts *httptest.Server, fileID string) string {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	q := url.Values{"mode": {"view"}, "fileId": {fileID}}
	resp, err := client.Get(ts.URL + "/?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/viewer/"), "unexpected redirect %q", loc)
	return strings.TrimPrefix(loc, "/viewer/")
}

func TestUploadListRemove(t *testing.T) {
	ts, srv, _ := newTestServer(t)

	uploadFiles(t, ts, map[string][]byte{"a.pdf": []byte("%PDF")})
	uploadFiles(t, ts, map[string][]byte{"b.png": []byte{1}})
	assert.Equal(t, 2, srv.Dash.Len())

	resp, err := http.Get(ts.URL + "/files")
	require.NoError(t, err)
	var listed []fileInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed, 2)
	assert.Equal(t, "a.pdf", listed[0].Name)
	assert.Equal(t, "PDF", string(listed[0].Type))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/files/0", nil)
	require.NoError(t, err)
	dresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	dresp.Body.Close()
	assert.Equal(t, http.StatusNoContent, dresp.StatusCode)
	assert.Equal(t, 1, srv.Dash.Len())

	// Out of range removal is a 404.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/files/9", nil)
	dresp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	dresp.Body.Close()
	assert.Equal(t, http.StatusNotFound, dresp.StatusCode)
}

// The full hand-off: upload two documents, view the first, navigate the
// launched window across its siblings.
func TestViewHandOffScenario(t *testing.T) {
	ts, _, op := newTestServer(t)

	added := uploadFiles(t, ts, map[string][]byte{"a.pdf": []byte("%PDF")})
	added = append(added, uploadFiles(t, ts, map[string][]byte{"b.png": []byte{1, 2}})...)
	require.Len(t, added, 2)
	assert.NotEqual(t, added[0].ID, added[1].ID)

	resp, err := http.Post(ts.URL+"/files/"+added[0].ID+"/view", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, op.urls, 1)
	assert.Contains(t, op.urls[0], "fileId="+added[0].ID)

	token := openViewer(t, ts, added[0].ID)
	st := getState(t, ts, token)
	assert.Equal(t, session.StateReady, st.State)
	assert.Equal(t, "a.pdf", st.Name)
	assert.Equal(t, 1, st.Position)
	assert.Equal(t, 2, st.Total)
	assert.True(t, st.CanNext)
	assert.False(t, st.CanPrev)

	st = postNav(t, ts, token, "next")
	assert.Equal(t, "b.png", st.Name)
	assert.Equal(t, 2, st.Position)
	assert.False(t, st.CanNext)

	// Next at the end is a silent no-op.
	st = postNav(t, ts, token, "next")
	assert.Equal(t, 2, st.Position)
	assert.Equal(t, "b.png", st.Name)

	// The blob is served for the rendering widget.
	bresp, err := http.Get(ts.URL + "/blob/" + added[0].ID)
	require.NoError(t, err)
	defer bresp.Body.Close()
	assert.Equal(t, http.StatusOK, bresp.StatusCode)
}

func TestViewerForMissingDocument(t *testing.T) {
	ts, srv, _ := newTestServer(t)

	// Ledger exists but the id was never persisted.
	require.NoError(t, srv.Ledger.SetOrder(context.Background(), []string{"ghost", "also-ghost"}))

	token := openViewer(t, ts, "ghost")
	st := getState(t, ts, token)
	assert.Equal(t, session.StateNotFound, st.State)
	assert.Equal(t, 2, st.Total)
	assert.True(t, st.CanNext)

	// The viewer page renders the persistent inline message.
	presp, err := http.Get(ts.URL + "/viewer/" + token)
	require.NoError(t, err)
	defer presp.Body.Close()
	body := new(bytes.Buffer)
	body.ReadFrom(presp.Body)
	assert.Contains(t, body.String(), "File not found in database.")
}

func TestDashboardModeServed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := new(bytes.Buffer)
	body.ReadFrom(resp.Body)
	assert.Contains(t, body.String(), "Docbooth Document Manager")

	// mode other than view stays on the dashboard.
	resp2, err := http.Get(ts.URL + "/?mode=edit&fileId=x")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestBlobNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/blob/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewUnknownID(t *testing.T) {
	ts, _, op := newTestServer(t)

	resp, err := http.Post(ts.URL+"/files/nope/view", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, op.urls)
}

func TestSessionUnknownToken(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/session/bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
