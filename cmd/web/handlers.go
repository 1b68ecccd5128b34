package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"nlp-master/internal/app"
	"nlp-master/internal/chunker"
	"nlp-master/internal/extract"
	"nlp-master/internal/httputil"
	"nlp-master/internal/session"
	"nlp-master/internal/web"
	"nlp-master/internal/workflow"
)

const tryExampleMessage = "Text copied to summarization tab! Switch to the Text Summarization tab to see it in action."

// Blank context, question and text are rejected by the workflow.
type qaRequest struct {
	Context             string  `json:"context"`
	Question            string  `json:"question"`
	ConfidenceThreshold float64 `json:"confidence_threshold" validate:"min=0.1,max=1"`
}

type qaResponse struct {
	Verdict    workflow.Verdict `json:"verdict"`
	Answer     string           `json:"answer"`
	Score      float64          `json:"score"`
	Start      int              `json:"start"`
	End        int              `json:"end"`
	Confidence string           `json:"confidence"`
	Hint       string           `json:"hint,omitempty"`
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MinLength int    `json:"min_length" validate:"min=10,max=200"`
	MaxLength int    `json:"max_length" validate:"min=50,max=500,gtefield=MinLength"`
	BeamCount int    `json:"beam_count" validate:"min=1,max=8"`
}

type summarizeResponse struct {
	Summary            string  `json:"summary"`
	OriginalWords      int     `json:"original_words"`
	SummaryWords       int     `json:"summary_words"`
	Compression        float64 `json:"compression"`
	CompressionDisplay string  `json:"compression_display"`
}

func pageHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deps.Cookies.ID(w, r)
		st, err := deps.Sessions.Get(r.Context(), id)
		if err != nil {
			deps.Log.Warn("failed to load session, rendering defaults", "err", err)
			st = session.Default()
		}

		qa, summary := deps.Workflow.Models()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := deps.Pages.Render(w, web.Page{
			Session:      st,
			Gallery:      deps.Gallery,
			QAModel:      qa,
			SummaryModel: summary,
			Bounds:       web.DefaultBounds,
		}); err != nil {
			httputil.Fail(deps.Log, w, "failed to render page", err, http.StatusInternalServerError)
		}
	}
}

func qaHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req qaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, "invalid payload", err, http.StatusBadRequest)
			return
		}

		// Validate request
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		remember(deps, w, r, func(st *session.State) {
			st.Context = req.Context
			st.Question = req.Question
			st.ConfidenceThreshold = req.ConfidenceThreshold
		})

		out, err := deps.Workflow.Answer(r.Context(), workflow.QARequest{
			Context:             req.Context,
			Question:            req.Question,
			ConfidenceThreshold: req.ConfidenceThreshold,
		})
		if err != nil {
			httputil.WorkflowError(deps.Log, w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, qaResponse{
			Verdict:    out.Verdict,
			Answer:     out.Answer.Text,
			Score:      out.Answer.Score,
			Start:      out.Answer.Start,
			End:        out.Answer.End,
			Confidence: out.Confidence,
			Hint:       out.Hint,
		})
	}
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		remember(deps, w, r, func(st *session.State) {
			st.SummarizationText = req.Text
			st.MinLength = req.MinLength
			st.MaxLength = req.MaxLength
			st.BeamCount = req.BeamCount
		})

		out, err := deps.Workflow.Summarize(r.Context(), workflow.SummarizationRequest{
			Text:      req.Text,
			MinLength: req.MinLength,
			MaxLength: req.MaxLength,
			BeamCount: req.BeamCount,
		})
		if err != nil {
			httputil.WorkflowError(deps.Log, w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, summarizeResponse{
			Summary:            out.Summary,
			OriginalWords:      out.Stats.OriginalWords,
			SummaryWords:       out.Stats.SummaryWords,
			Compression:        out.Stats.CompressionPercentage,
			CompressionDisplay: out.CompressionDisplay,
		})
	}
}

func examplesHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, deps.Gallery)
	}
}

func tryExampleHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deps.Cookies.ID(w, r)
		sample := deps.Gallery.SummarizationSample
		if _, err := session.Update(r.Context(), deps.Sessions, id, func(st *session.State) {
			st.SummarizationText = sample
		}); err != nil {
			httputil.FailJSON(deps.Log, w, httputil.KindInternal, "failed to save session", err, http.StatusInternalServerError)
			return
		}
		deps.Metrics.SessionWrite()

		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"text":    sample,
			"message": tryExampleMessage,
		})
	}
}

func extractHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		tooLarge := fmt.Sprintf("file too large (max %d bytes)", maxFileSize)

		// Validate file size before parsing
		if r.ContentLength > maxFileSize {
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, tooLarge, nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+(1<<20))

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httputil.FailJSON(deps.Log, w, httputil.KindValidation, tooLarge, err, http.StatusBadRequest)
				return
			}
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, tooLarge, nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.FailJSON(deps.Log, w, httputil.KindInternal, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		text, err := extract.Text(header.Filename, header.Header.Get("Content-Type"), content)
		if err != nil {
			message := err.Error()
			if !errors.Is(err, extract.ErrUnsupportedType) && !errors.Is(err, extract.ErrNoText) {
				message = "could not read text from the file"
			}
			httputil.FailJSON(deps.Log, w, httputil.KindValidation, message, err, http.StatusBadRequest)
			return
		}

		deps.Log.Info("text extracted", "filename", header.Filename, "bytes", len(content))
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"filename": header.Filename,
			"text":     text,
			"words":    chunker.WordCount(text),
		})
	}
}

// remember stores the submitted inputs so a reload shows them again.
// Session failures are logged and never block the request.
func remember(deps app.Deps, w http.ResponseWriter, r *http.Request, fn func(*session.State)) {
	id := deps.Cookies.ID(w, r)
	if _, err := session.Update(r.Context(), deps.Sessions, id, fn); err != nil {
		deps.Log.Warn("failed to save session", "err", err)
		return
	}
	deps.Metrics.SessionWrite()
}
