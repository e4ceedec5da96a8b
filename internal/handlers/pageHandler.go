package handlers

import (
	"net/http"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/internal/web"
)

// IndexPage re-renders the page from session state. ?preview=1 adds the first rows of
// the selected file.
func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	data := web.PageData{Session: sess}
	if r.URL.Query().Get("preview") == "1" {
		h.attachPreview(r, &data)
	}
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	file, header, err := readArchive(w, r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, web.PageData{Session: sess, Warnings: []string{err.Error()}})
		return
	}
	defer file.Close()

	sess, err = h.service.Upload(r.Context(), sess, header.Filename, file, header.Size)
	data := web.PageData{Session: sess}
	addError(&data, err)
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) SelectPage(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	sess, err := h.service.Select(r.Context(), sess, r.PostFormValue("file"))
	data := web.PageData{Session: sess}
	addError(&data, err)
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) AskPage(w http.ResponseWriter, r *http.Request, sess sessionModel.SessionState) {
	question := r.PostFormValue("question")
	data := web.PageData{Session: sess, Question: question}

	out, err := h.service.Ask(r.Context(), sess, question)
	if err != nil {
		addError(&data, err)
		h.render(w, r, http.StatusOK, data)
		return
	}

	answer, err := h.renderer.Markdown(out.Answer)
	if err != nil {
		h.logger.FromContext(r.Context()).Warn("Markdown render failed", "error", err)
	}
	data.Answer = answer
	data.HasAnswer = true
	if out.LogErr != nil {
		data.Warnings = append(data.Warnings, analysis.UserMessage(out.LogErr))
	}
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) attachPreview(r *http.Request, data *web.PageData) {
	p, err := h.service.Preview(r.Context(), data.Session, config.DefaultPreviewRows)
	if err != nil {
		addError(data, err)
		return
	}
	data.Preview = &p
}

func addError(data *web.PageData, err error) {
	if err == nil {
		return
	}
	if analysis.KindOf(err) == analysis.KindValidation {
		data.Warnings = append(data.Warnings, analysis.UserMessage(err))
		return
	}
	data.Errors = append(data.Errors, analysis.UserMessage(err))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data web.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Page(w, data); err != nil {
		h.logger.FromContext(r.Context()).Error("Page render failed", "error", err)
	}
}
