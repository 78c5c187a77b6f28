package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/rendering"
	"github.com/jonathan/smart-ats/internal/server/middleware"
	"github.com/jonathan/smart-ats/internal/session"
	"github.com/sirupsen/logrus"
)

// upload is a validated analyze submission
type upload struct {
	JobDescription string
	ResumeName     string `validate:"required"`
	ContentType    string `validate:"eq=application/pdf"`
	Data           []byte `validate:"min=1"`
}

// resultResponse is the JSON body for a stored result
type resultResponse struct {
	Result     *analysis.Result `json:"result"`
	ResumeName string           `json:"resume_name,omitempty"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

// handleIndex renders the page for the current session
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionState(w, r)
	if !ok {
		return
	}
	s.renderPage(w, r, http.StatusOK, rendering.NewPageData(st.Result, st.JobDescription, ""), "")
}

// handlePanel renders the page with one result panel revealed
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	panel, err := rendering.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	st, ok := s.sessionState(w, r)
	if !ok {
		return
	}
	if !st.HasResult() {
		s.renderPage(w, r, http.StatusNotFound, rendering.NewPageData(nil, st.JobDescription, ""), MsgNoResult)
		return
	}
	s.renderPage(w, r, http.StatusOK, rendering.NewPageData(st.Result, st.JobDescription, panel), "")
}

// handleAnalyze runs an analysis from the HTML form and redirects back to the page
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	up, err := s.readUpload(r)
	if err == nil {
		_, err = s.runAnalysis(r, id, up)
	}
	if err != nil {
		st, _ := s.store.Get(id)
		data := rendering.NewPageData(st.Result, up.JobDescription, "")
		s.renderPage(w, r, HTTPStatus(err), data, s.UserMessage(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAPIAnalyze runs an analysis and returns the result as JSON
func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	up, err := s.readUpload(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	st, err := s.runAnalysis(r, id, up)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resultResponse{
		Result:     st.Result,
		ResumeName: st.ResumeName,
		AnalyzedAt: st.AnalyzedAt,
	})
}

// handleAPIResult returns the stored result as JSON
func (s *Server) handleAPIResult(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionState(w, r)
	if !ok {
		return
	}
	if !st.HasResult() {
		s.errorResponse(w, ErrNoResult)
		return
	}
	s.jsonResponse(w, http.StatusOK, resultResponse{
		Result:     st.Result,
		ResumeName: st.ResumeName,
		AnalyzedAt: st.AnalyzedAt,
	})
}

// handleDownload serves the suggested changes as a PDF
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessionState(w, r)
	if !ok {
		return
	}
	if !st.HasResult() {
		s.renderPage(w, r, http.StatusNotFound, rendering.NewPageData(nil, st.JobDescription, ""), MsgNoResult)
		return
	}

	data, err := rendering.ExportChangesPDF(st.Result.ChangesNeeded)
	if err != nil {
		s.logger.WithError(err).Error("Failed to export changes")
		s.renderPage(w, r, http.StatusInternalServerError, rendering.NewPageData(st.Result, st.JobDescription, ""), MsgInternal)
		return
	}

	w.Header().Set("Content-Type", rendering.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rendering.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Warn("Failed to write PDF")
	}
}

// handleReset clears the session result
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.store.Reset(id); err != nil {
		s.logger.WithError(err).WithField("session_id", id).Warn("Reset of unknown session")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCSRFFailure renders the page with a 403 when a form token is missing or wrong
func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.WithError(csrf.FailureReason(r)).Warn("CSRF validation failed")
	s.renderPage(w, r, http.StatusForbidden, rendering.NewPageData(nil, "", ""), "Your form session expired. Please reload the page and try again.")
}

// runAnalysis analyzes the upload and, on success only, replaces the session
// result. It returns the state as this call stored it.
func (s *Server) runAnalysis(r *http.Request, id uuid.UUID, up *upload) (session.State, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"session_id": id,
		"resume":     up.ResumeName,
	})

	key := session.InputKey(up.JobDescription, up.Data)
	result, shared, err := s.store.Analyze(r.Context(), id, key, func(ctx context.Context) (*analysis.Result, error) {
		return s.analyzer.Analyze(ctx, analysis.Request{
			JobDescription: up.JobDescription,
			Resume:         bytes.NewReader(up.Data),
			ResumeSize:     int64(len(up.Data)),
			ResumeName:     up.ResumeName,
		})
	})
	if err != nil {
		logger.WithError(err).WithField("kind", ErrorKind(err)).Warn("Analysis failed")
		return session.State{}, err
	}
	if shared {
		logger.Debug("Joined in-flight analysis")
	}

	var stored session.State
	stored.Replace(result, up.JobDescription, up.ResumeName, s.now())
	if err := s.store.Update(id, func(st *session.State) { *st = stored }); err != nil {
		return session.State{}, err
	}
	return stored, nil
}

// readUpload reads and validates the multipart analyze form. The returned
// upload is never nil: on failure it carries whatever fields were read before
// the error, so the form can be re-rendered with the pasted job description.
func (s *Server) readUpload(r *http.Request) (*upload, error) {
	up := &upload{}

	var err error
	if r.MultipartForm != nil {
		// Already parsed by the CSRF check.
		err = up.fromForm(r.MultipartForm, s.maxUploadBytes)
	} else {
		err = up.fromStream(r, s.maxUploadBytes)
	}
	if err != nil {
		return up, uploadError(err)
	}

	if up.ResumeName == "" {
		return up, &ErrValidation{Field: "resume", Message: msgUploadResume}
	}
	up.ContentType = sniffContentType(up.Data)
	if err := s.validate.Struct(up); err != nil {
		return up, &ErrValidation{Field: "resume", Message: "Only PDF resumes are supported."}
	}
	return up, nil
}

const msgUploadResume = "Please upload your resume (PDF only)."

var errFileTooLarge = errors.New("resume exceeds upload limit")

// fromStream reads the form part by part, so fields sent before the file
// survive a file that turns out to be too large.
func (up *upload) fromStream(r *http.Request, limit int64) error {
	mr, err := r.MultipartReader()
	if err != nil {
		return err
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch part.FormName() {
		case "job_description":
			data, err := io.ReadAll(part)
			if err != nil {
				return err
			}
			up.JobDescription = string(data)
		case "resume":
			if part.FileName() == "" {
				break
			}
			up.ResumeName = filepath.Base(part.FileName())
			if up.Data, err = io.ReadAll(io.LimitReader(part, limit+1)); err != nil {
				return err
			}
			if int64(len(up.Data)) > limit {
				return errFileTooLarge
			}
		}
		_ = part.Close()
	}
}

func (up *upload) fromForm(form *multipart.Form, limit int64) error {
	if v := form.Value["job_description"]; len(v) > 0 {
		up.JobDescription = v[0]
	}
	files := form.File["resume"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}

	up.ResumeName = filepath.Base(files[0].Filename)
	if files[0].Size > limit {
		return errFileTooLarge
	}
	f, err := files[0].Open()
	if err != nil {
		return err
	}
	defer f.Close()

	up.Data, err = io.ReadAll(f)
	return err
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.Is(err, errFileTooLarge) || errors.As(err, &tooLarge) {
		return &ErrValidation{Field: "resume", Message: "The uploaded file is too large."}
	}
	return &ErrValidation{Field: "resume", Message: "The uploaded file could not be read."}
}

// sniffContentType reports application/pdf for anything carrying the PDF magic.
func sniffContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// sessionID returns the current session ID, writing a 500 when the session
// middleware did not run.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.logger.WithError(err).Error("Missing session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) sessionState(w http.ResponseWriter, r *http.Request) (session.State, bool) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return session.State{}, false
	}
	st, err := s.store.Get(id)
	if err != nil {
		// Expired between middleware and handler; treat as fresh.
		return session.State{}, true
	}
	return st, true
}

// renderPage renders the page with notices and the CSRF field filled in.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data rendering.PageData, errMsg string) {
	data.CSRFField = csrf.TemplateField(r)
	data.CredentialNotice = s.credentialNotice
	data.Error = errMsg

	var buf bytes.Buffer
	if err := s.pages.Render(&buf, data); err != nil {
		s.logger.WithError(err).Error("Template execution error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Warn("Failed to write page")
	}
}
