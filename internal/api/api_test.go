package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/penzero00/Panel-Zero/internal/config"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/docx/docxtest"
)

const testIssues = `[
  {"type": "grammar", "severity": "major", "location": {"text": "teh results"}, "issue": "typo in results"}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(":0", config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(srv.spool) })
	return srv
}

func testDocument(t *testing.T) []byte {
	t.Helper()
	return docxtest.Bytes(t,
		docxtest.Para{Style: "Heading1", Runs: []docxtest.Run{{Text: "Results"}}},
		docxtest.Text("The study shows teh results clearly."),
		docxtest.Text("A second paragraph with nothing wrong."),
		docxtest.Table{{"cell one", "cell two"}},
	)
}

// uploadBody builds a multipart body with a document part and optional
// extra file parts.
func uploadBody(t *testing.T, doc []byte, extras map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if doc != nil {
		fw, err := mw.CreateFormFile("document", "fixture.docx")
		if err != nil {
			t.Fatalf("multipart: %v", err)
		}
		fw.Write(doc)
	}
	for field, content := range extras {
		fw, err := mw.CreateFormFile(field, field+".json")
		if err != nil {
			t.Fatalf("multipart: %v", err)
		}
		fw.Write([]byte(content))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestInspectEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, ctype := uploadBody(t, testDocument(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/inspect", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp inspectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}

	if resp.Title != "Test Document" {
		t.Errorf("expected fixture title, got %q", resp.Title)
	}
	if len(resp.Paragraphs) != 3 {
		t.Errorf("expected 3 paragraphs, got %d", len(resp.Paragraphs))
	}
	if resp.Paragraphs[0].Heading != 1 {
		t.Errorf("expected first paragraph to be a level-1 heading, got %d", resp.Paragraphs[0].Heading)
	}
	if len(resp.Tables) != 1 {
		t.Errorf("expected 1 table, got %d", len(resp.Tables))
	}
	if len(resp.Chapters) != 1 || resp.Chapters[0] != "Results" {
		t.Errorf("expected single chapter Results, got %v", resp.Chapters)
	}
	if resp.WordCount == 0 || resp.PageEstimate == 0 {
		t.Errorf("expected non-zero size estimates, got %d words / %d pages", resp.WordCount, resp.PageEstimate)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	body, ctype := uploadBody(t, []byte("this is not a zip container"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/inspect", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestInspectRequiresDocument(t *testing.T) {
	srv := newTestServer(t)

	body, ctype := uploadBody(t, nil, map[string]string{"other": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/inspect", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func queueReview(t *testing.T, srv *Server, doc []byte, issuesJSON string) string {
	t.Helper()

	extras := map[string]string{}
	if issuesJSON != "" {
		extras["issues"] = issuesJSON
	}
	body, ctype := uploadBody(t, doc, extras)
	req := httptest.NewRequest(http.MethodPost, "/api/review", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp reviewQueuedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job id")
	}
	return resp.JobID
}

func waitForJob(t *testing.T, srv *Server, id string) jobJSON {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("job poll: expected 200, got %d", w.Code)
		}

		var j jobJSON
		if err := json.Unmarshal(w.Body.Bytes(), &j); err != nil {
			t.Fatalf("json decode: %v", err)
		}
		if j.Status == string(statusComplete) || j.Status == string(statusFailed) {
			return j
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return jobJSON{}
}

func TestReviewJobLifecycle(t *testing.T) {
	srv := newTestServer(t)

	id := queueReview(t, srv, testDocument(t), testIssues)
	j := waitForJob(t, srv, id)

	if j.Status != string(statusComplete) {
		t.Fatalf("expected complete, got %s (%s)", j.Status, j.Error)
	}
	if j.Progress != 100 {
		t.Errorf("expected progress 100, got %d", j.Progress)
	}
	if j.Summary == nil || j.Summary.HighlightsApplied != 1 {
		t.Fatalf("expected one applied highlight, got %+v", j.Summary)
	}
	if j.DocumentID == "" {
		t.Fatal("expected a document id for the annotated copy")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+j.DocumentID, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("document download: expected 200, got %d", w.Code)
	}

	doc, err := docx.OpenBytes(w.Body.Bytes())
	if err != nil {
		t.Fatalf("annotated document does not parse: %v", err)
	}
	found := false
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs {
			if r.Highlight() == "red" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected a red highlight in the annotated copy")
	}
}

func TestReviewJobPanelFallback(t *testing.T) {
	srv := newTestServer(t)

	// No issues part: the built-in panel reviews the document. The
	// fixture has a doubled word for the grammar pass to find.
	doc := docxtest.Bytes(t,
		docxtest.Text("The results show that that the method works."),
	)
	id := queueReview(t, srv, doc, "")
	j := waitForJob(t, srv, id)

	if j.Status != string(statusComplete) {
		t.Fatalf("expected complete, got %s (%s)", j.Status, j.Error)
	}
	if j.Summary == nil || j.Summary.HighlightsApplied == 0 {
		t.Errorf("expected the panel to find and highlight at least one issue, got %+v", j.Summary)
	}
}

func TestJobNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDocumentNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestWebSocketWatch(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	id := queueReview(t, srv, testDocument(t), testIssues)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	watchData, _ := json.Marshal(wsWatch{JobID: id})
	if err := conn.WriteJSON(wsMessage{Type: wsMsgWatch, Data: watchData}); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read: %v", err)
		}
		switch msg.Type {
		case wsMsgProgress:
			continue
		case wsMsgComplete:
			var j jobJSON
			if err := json.Unmarshal(msg.Data, &j); err != nil {
				t.Fatalf("unmarshal complete: %v", err)
			}
			if j.Progress != 100 || j.Summary == nil {
				t.Errorf("expected finished job in complete message, got %+v", j)
			}
			return
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}
}

func TestWebSocketUnknownJob(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	watchData, _ := json.Marshal(wsWatch{JobID: "nope"})
	conn.WriteJSON(wsMessage{Type: wsMsgWatch, Data: watchData})

	var msg wsMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read: %v", err)
	}
	if msg.Type != wsMsgError {
		t.Errorf("expected error message, got %q", msg.Type)
	}
}
