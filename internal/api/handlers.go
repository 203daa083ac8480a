package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/model"
	"github.com/penzero00/Panel-Zero/internal/review"
)

const maxUploadBytes = 32 << 20

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Inspect ---

type paragraphJSON struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Heading int    `json:"heading,omitempty"`
}

type inspectResponse struct {
	Title        string          `json:"title,omitempty"`
	Author       string          `json:"author,omitempty"`
	Paragraphs   []paragraphJSON `json:"paragraphs"`
	Tables       [][][]string    `json:"tables,omitempty"`
	Chapters     []string        `json:"chapters,omitempty"`
	WordCount    int             `json:"word_count"`
	PageEstimate int             `json:"page_estimate"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	data, _, ok := readUpload(w, r)
	if !ok {
		return
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parsing document: "+err.Error())
		return
	}

	resp := inspectResponse{
		Title:        doc.Meta().Title,
		Author:       doc.Meta().Author,
		WordCount:    doc.WordCount(),
		PageEstimate: doc.PageEstimate(),
		Tables:       doc.TableData(),
	}
	for _, p := range doc.Paragraphs() {
		resp.Paragraphs = append(resp.Paragraphs, paragraphJSON{
			Index:   p.Index,
			Text:    p.Text(),
			Heading: p.HeadingLevel(),
		})
	}
	for _, ch := range doc.Chapters() {
		resp.Chapters = append(resp.Chapters, ch.Title)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Review ---

type reviewQueuedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	data, name, ok := readUpload(w, r)
	if !ok {
		return
	}

	var issues []model.Issue
	if part, _, err := r.FormFile("issues"); err == nil {
		issues, err = model.DecodeIssues(part)
		part.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "parsing issues: "+err.Error())
			return
		}
	}

	var skip []string
	if v := r.FormValue("skip"); v != "" {
		skip = strings.Split(v, ",")
	}

	id := uuid.NewString()
	jobDir := filepath.Join(s.spool, id)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "spooling upload: "+err.Error())
		return
	}
	if name == "" {
		name = "document.docx"
	}
	input := filepath.Join(jobDir, filepath.Base(name))
	if err := os.WriteFile(input, data, 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, "spooling upload: "+err.Error())
		return
	}

	s.mu.Lock()
	s.jobs[id] = &job{ID: id, Status: statusQueued, Stage: "queued"}
	s.mu.Unlock()

	go s.runJob(id, input, issues, skip)

	writeJSON(w, http.StatusAccepted, reviewQueuedResponse{JobID: id, Status: string(statusQueued)})
}

// runJob drives a queued review to completion, advancing the progress
// markers that job polling and the WebSocket stream report.
func (s *Server) runJob(id, input string, issues []model.Issue, skip []string) {
	doc, err := docx.Open(input)
	if err != nil {
		s.failJob(id, err)
		return
	}
	s.setStage(id, 25, "extracted")

	if pages := doc.PageEstimate(); pages > s.cfg.MaxPages {
		s.failJob(id, fmt.Errorf("document is ~%d pages, over the %d page ceiling", pages, s.cfg.MaxPages))
		return
	}

	if issues == nil {
		panel := review.NewPanel(append(skip, s.cfg.Skip...), nil)
		issues = panel.ReviewDocument(context.Background(), doc, s.cfg.ChunkTokens)
	}
	s.setStage(id, 50, "reviewed")

	pipeline := annotate.NewPipeline(annotate.Options{
		MaxIssues: s.cfg.MaxIssues,
		Threshold: s.cfg.FuzzyThreshold,
	})
	result, err := pipeline.Run(input, "", issues)
	if err != nil {
		s.failJob(id, err)
		return
	}
	s.setStage(id, 75, "annotated")

	docID := uuid.NewString()
	s.mu.Lock()
	s.docs[docID] = result.OutputPath
	s.mu.Unlock()
	s.setStage(id, 90, "stored")

	s.finishJob(id, &result.Summary, docID)
}

// --- Jobs ---

type jobJSON struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	Stage      string         `json:"stage"`
	Summary    *model.Summary `json:"summary,omitempty"`
	DocumentID string         `json:"document_id,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func jobView(j job) jobJSON {
	return jobJSON{
		ID:         j.ID,
		Status:     string(j.Status),
		Progress:   j.Progress,
		Stage:      j.Stage,
		Summary:    j.Summary,
		DocumentID: j.DocumentID,
		Error:      j.Err,
	}
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.snapshot(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such job")
		return
	}
	writeJSON(w, http.StatusOK, jobView(j))
}

// --- Documents ---

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	path, ok := s.docs[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such document")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	http.ServeFile(w, r, path)
}

// readUpload pulls the "document" part out of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request) (data []byte, name string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return nil, "", false
	}

	part, hdr, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "document is required")
		return nil, "", false
	}
	defer part.Close()

	data, err = io.ReadAll(io.LimitReader(part, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return nil, "", false
	}
	return data, hdr.Filename, true
}
