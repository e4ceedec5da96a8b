package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/akolanti/CSVAgent/internal/adapter"
	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/api"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
)

// PostArchiveHandler godoc
// @Summary      Upload a zip of CSV files
// @Description  Extracts the archive into the caller's session and lists its CSV files. An archive without CSV files is accepted with a warning.
// @Tags         Archives
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id; a new one is issued when absent"
// @Param        archive       formData  file    true   "The .zip archive"
// @Success      200  {object}  api.SessionResponse
// @Failure      400  {object}  api.ErrorResponse "Not a zip, unsafe entry paths or too large"
// @Failure      503  {object}  api.ErrorResponse "Session store unavailable"
// @Router       /api/archives [post]
func (h *Handler) PostArchiveHandler(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	file, header, err := readArchive(w, r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, err.Error(), api.ErrorKindValidation)
		return
	}
	defer file.Close()

	sess, err = h.service.Upload(r.Context(), sess, header.Filename, file, header.Size)
	if errors.Is(err, analysis.ErrNoTabularFiles) {
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(sess, analysis.UserMessage(err)))
		return
	}
	if err != nil {
		writeServiceError(w, sess.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(sess, ""))
}

// GetSessionHandler godoc
// @Summary      Current session state
// @Tags         Sessions
// @Security     BearerAuth
// @Produce      json
// @Param        X-Session-Id  header  string  false  "Session id"
// @Success      200  {object}  api.SessionResponse
// @Router       /api/session [get]
func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(sess, ""))
}

// PutSelectionHandler godoc
// @Summary      Select the CSV file to analyse
// @Tags         Sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header  string                true  "Session id"
// @Param        request       body    api.SelectionRequest  true  "File name as listed in available_files"
// @Success      200  {object}  api.SessionResponse
// @Failure      400  {object}  api.ErrorResponse "Unknown file or invalid body"
// @Router       /api/selection [put]
func (h *Handler) PutSelectionHandler(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	var req api.SelectionRequest
	if !h.decode(w, r, sess.Id, &req) {
		return
	}
	sess, err := h.service.Select(r.Context(), sess, req.File)
	if err != nil {
		writeServiceError(w, sess.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(sess, ""))
}

// PostQuestionHandler godoc
// @Summary      Ask a question about the selected CSV
// @Description  Runs the reasoning agent on the selected file and logs the interaction. A failed log write still returns the answer with log_error set.
// @Tags         Questions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header  string               true  "Session id"
// @Param        request       body    api.QuestionRequest  true  "Free-text question"
// @Success      200  {object}  api.AnswerResponse
// @Failure      400  {object}  api.ErrorResponse "Empty question or no file selected"
// @Failure      500  {object}  api.ErrorResponse "The agent failed"
// @Router       /api/questions [post]
func (h *Handler) PostQuestionHandler(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	var req api.QuestionRequest
	if !h.decode(w, r, sess.Id, &req) {
		return
	}
	out, err := h.service.Ask(r.Context(), sess, req.Question)
	if err != nil {
		writeServiceError(w, sess.Id, err)
		return
	}
	answerHTML, err := h.renderer.Markdown(out.Answer)
	if err != nil {
		h.logger.FromContext(r.Context()).Warn("Markdown render failed", "error", err)
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAnswerResponse(sess, req.Question, out, string(answerHTML)))
}

// GetPreviewHandler godoc
// @Summary      First rows of the selected CSV
// @Tags         Questions
// @Security     BearerAuth
// @Produce      json
// @Param        X-Session-Id  header  string  true   "Session id"
// @Param        rows          query   int     false  "Number of rows (default 5, max 100)"
// @Success      200  {object}  api.PreviewResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/preview [get]
func (h *Handler) GetPreviewHandler(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	rows := 0
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "rows must be a positive integer", api.ErrorKindValidation)
			return
		}
		rows = n
	}
	p, err := h.service.Preview(r.Context(), sess, rows)
	if err != nil {
		writeServiceError(w, sess.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToPreviewResponse(p))
}

// GetInteractionsHandler godoc
// @Summary      Recent interactions
// @Description  Most recent logged question/answer cycles, newest first.
// @Tags         Interactions
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Max records (default and max 100)"
// @Success      200  {object}  api.InteractionListResponse
// @Failure      503  {object}  api.ErrorResponse
// @Router       /api/interactions [get]
func (h *Handler) GetInteractionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToInteractionListResponse(logs))
}

// decode reads a JSON body into dst and validates it, writing the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, sessionId string, dst interface{}) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			h.logger.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		h.logger.FromContext(r.Context()).Warn("Bad request body", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, "Bad Request", api.ErrorKindValidation)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, validationMessage(err), api.ErrorKindValidation)
		return false
	}
	return true
}
