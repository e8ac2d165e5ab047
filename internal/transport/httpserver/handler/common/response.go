package common

import (
	"encoding/json"
	"net/http"

	"dues-app-go/internal/apperr"
	"dues-app-go/pkg/logger"
)

type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page Page, total int64) *Pagination {
	pages := int64(0)
	if page.Limit > 0 {
		pages = (total + int64(page.Limit) - 1) / int64(page.Limit)
	}
	return &Pagination{Page: page.Page, Limit: page.Limit, Total: total, TotalPages: pages}
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message, nil)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func WritePage(w http.ResponseWriter, data any, page Page, total int64) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: NewPagination(page, total)})
}

func DecodeJSON(r *http.Request, dst any) error {
	return decodeJSON(r, dst)
}

// Responder turns domain errors into error envelopes and logs them once.
type Responder struct {
	log        logger.Logger
	production bool
}

func NewResponder(log logger.Logger, production bool) *Responder {
	if log == nil {
		log = logger.Discard()
	}
	return &Responder{log: log, production: production}
}

func (r *Responder) Log() logger.Logger {
	return r.log
}

// Fail writes err as an error envelope. op names the handler for the log line.
func (r *Responder) Fail(w http.ResponseWriter, op string, err error, args ...any) {
	appErr := apperr.From(err)
	status := appErr.Kind.HTTPStatus()

	if status >= http.StatusInternalServerError {
		r.log.InternalError(op, err, args...)
		message := appErr.Message
		if r.production {
			message = "Internal server error"
		}
		writeError(w, status, appErr.Code, message, nil)
		return
	}

	r.log.BusinessError(op, err, args...)
	writeError(w, status, appErr.Code, appErr.Message, appErr.Details)
}

// BadRequest reports a malformed request without touching the domain.
func (r *Responder) BadRequest(w http.ResponseWriter, code, message string) {
	writeError(w, http.StatusBadRequest, code, message, nil)
}

func (r *Responder) InvalidJSON(w http.ResponseWriter) {
	r.BadRequest(w, "invalid_json", "invalid json body")
}

func (r *Responder) Unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token", nil)
}
