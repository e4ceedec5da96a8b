package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/akolanti/CSVAgent/internal/adapter"
	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/api"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/go-playground/validator/v10"
)

var errMissingArchive = errors.New("form field 'archive' with a .zip file is required")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, nothing left but logging
		logger_i.NewLogger("handlers").Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, sessionId string, message string, kind api.ErrorKind) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(sessionId, message, httpCode, kind))
}

// writeServiceError maps an analysis error onto the JSON error envelope.
func writeServiceError(w http.ResponseWriter, sessionId string, err error) {
	kind := analysis.KindOf(err)
	code := http.StatusInternalServerError
	switch {
	case kind == analysis.KindValidation:
		code = http.StatusBadRequest
	case kind == analysis.KindConnection:
		code = http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrDispatch):
		code = http.StatusServiceUnavailable
	}
	WriteErrorResponse(w, code, sessionId, analysis.UserMessage(err), adapter.ToErrorKind(kind))
}

// readArchive pulls the uploaded zip out of a multipart request. The caller closes the file.
func readArchive(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errors.New("the archive is larger than the upload limit")
		}
		return nil, nil, errMissingArchive
	}
	file, header, err := r.FormFile("archive")
	if err != nil {
		return nil, nil, errMissingArchive
	}
	return file, header, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Bad Request"
	}
	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Question" && fe.Tag() == "required":
		return "Please type a question."
	case fe.Tag() == "required":
		return strings.ToLower(fe.Field()) + " is required"
	case fe.Tag() == "max":
		return strings.ToLower(fe.Field()) + " is too long"
	default:
		return strings.ToLower(fe.Field()) + " is invalid"
	}
}
