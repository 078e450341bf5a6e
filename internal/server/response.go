package server

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/internal/logger"
	"github.com/lucasefe/daxgen/profile"
	"github.com/lucasefe/daxgen/tabular"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response codes.
const (
	CodeSuccess        = "SUCCESS"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnprocessable  = "UNPROCESSABLE"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodeUnavailable    = "EXTRACTION_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
	CodeEntityTooLarge = "ENTITY_TOO_LARGE"
)

var errNoExtractor = errors.New("extraction model not configured")

func writeJSON(w http.ResponseWriter, status int, body Response) {
	data, err := sonic.Marshal(body)
	if err != nil {
		http.Error(w, `{"code":"INTERNAL_ERROR","message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "operation successful",
		Data:    data,
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Code: CodeInvalidInput, Message: message})
}

// failure maps an analysis error to a status code. Internal errors are logged
// and their details are not returned.
func failure(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{Code: CodeEntityTooLarge, Message: "request body too large"})
	case errors.Is(err, errNoExtractor):
		writeJSON(w, http.StatusServiceUnavailable, Response{Code: CodeUnavailable, Message: err.Error()})
	case errors.Is(err, profile.ErrDuplicateColumn),
		errors.Is(err, daxgen.ErrUnsupportedFile),
		errors.Is(err, tabular.ErrNoHeader):
		badRequest(w, err.Error())
	case extract.IsUpstream(err):
		logger.WithError(logger.FromContext(r.Context()), err).Warn("extraction model failed")
		writeJSON(w, http.StatusBadGateway, Response{Code: CodeUpstream, Message: "extraction model request failed"})
	case errors.Is(err, extract.ErrMalformedPayload):
		writeJSON(w, http.StatusUnprocessableEntity, Response{Code: CodeUnprocessable, Message: err.Error()})
	default:
		logger.WithError(logger.FromContext(r.Context()), err).Error("analysis failed")
		writeJSON(w, http.StatusInternalServerError, Response{Code: CodeInternal, Message: "internal server error"})
	}
}
