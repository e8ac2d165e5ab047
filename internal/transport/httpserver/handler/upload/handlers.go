package upload

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	expensesdomain "dues-app-go/internal/domain/expenses"
	"dues-app-go/internal/storage"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const multipartOverhead = 1 << 20

type Handlers struct {
	Storage  *storage.Service
	Expenses *expensesdomain.Service
	respond  *commonhandler.Responder
	log      logger.Logger
}

func New(storageService *storage.Service, expenses *expensesdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Storage:  storageService,
		Expenses: expenses,
		respond:  respond,
		log:      respond.Log(),
	}
}

type uploadResponse struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

type objectResponse struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"mimetype,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type signedURLResponse struct {
	SignedURL string `json:"signedUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if _, ok := storage.PolicyFor(bucket); !ok {
		h.respond.Fail(w, "upload.create: unknown bucket", storage.ErrUnknownBucket, "bucket", bucket)
		return
	}

	maxBytes := h.Storage.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respond.Fail(w, "upload.create: body too large", storage.ErrFileTooLarge, "bucket", bucket)
			return
		}
		h.respond.BadRequest(w, "invalid_request", "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respond.Fail(w, "upload.create: missing file", storage.ErrFileRequired, "bucket", bucket)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		h.respond.Fail(w, "upload.create: read file failed", err, "bucket", bucket)
		return
	}

	expenseID := strings.TrimSpace(r.FormValue("expenseId"))
	if expenseID != "" {
		if _, err := uuid.Parse(expenseID); err != nil {
			h.respond.Fail(w, "upload.create: invalid expense id", storage.ErrInvalidExpense, "bucket", bucket)
			return
		}
	}

	result, err := h.Storage.Upload(r.Context(), storage.UploadInput{
		Bucket:    bucket,
		Filename:  header.Filename,
		Data:      data,
		Folder:    r.FormValue("folder"),
		ExpenseID: expenseID,
	})
	if err != nil {
		h.respond.Fail(w, "upload.create: upload failed", err, "bucket", bucket, "filename", header.Filename)
		return
	}

	if expenseID != "" && bucket == storage.BucketExpenseReceipts {
		if err := h.Expenses.AttachReceipt(r.Context(), expenseID, result.URL); err != nil {
			h.respond.Fail(w, "upload.create: attach receipt failed", err, "expense_id", expenseID)
			return
		}
	}

	user, _ := middleware.UserFromContext(r.Context())
	h.log.Info("upload.create: file stored", "bucket", bucket, "path", result.Path, "size", result.Size, "user_id", user.ID)

	writeMessage(w, http.StatusCreated, "File uploaded successfully", uploadResponse{
		URL:      result.URL,
		Path:     result.Path,
		Size:     result.Size,
		MimeType: result.MimeType,
	})
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")

	objects, err := h.Storage.List(r.Context(), bucket, r.URL.Query().Get("folder"))
	if err != nil {
		h.respond.Fail(w, "upload.list: list failed", err, "bucket", bucket)
		return
	}

	response := make([]objectResponse, 0, len(objects))
	for _, object := range objects {
		item := objectResponse{
			Name:        object.Name,
			Path:        object.Path,
			Size:        object.Size,
			ContentType: object.ContentType,
		}
		if !object.UpdatedAt.IsZero() {
			item.UpdatedAt = formatTime(object.UpdatedAt)
		}
		response = append(response, item)
	}
	writeData(w, http.StatusOK, response)
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")

	if err := h.Storage.Delete(r.Context(), bucket, objectPath); err != nil {
		h.respond.Fail(w, "upload.delete: delete failed", err, "bucket", bucket, "path", objectPath)
		return
	}

	writeMessage(w, http.StatusOK, "File deleted successfully", nil)
}

func (h *Handlers) SignedURL(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")

	seconds, err := commonhandler.ParseIntParam(r.URL.Query().Get("expiresIn"), int(storage.DefaultSignedURLTTL/time.Second))
	if err != nil || seconds == 0 {
		h.respond.Fail(w, "upload.signed_url: invalid expiry", storage.ErrInvalidExpiry, "bucket", bucket)
		return
	}

	url, err := h.Storage.SignedURL(r.Context(), bucket, objectPath, time.Duration(seconds)*time.Second)
	if err != nil {
		h.respond.Fail(w, "upload.signed_url: sign failed", err, "bucket", bucket, "path", objectPath)
		return
	}

	writeData(w, http.StatusOK, signedURLResponse{SignedURL: url, ExpiresIn: seconds})
}
