package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/service"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

const maxMultipartMemory = 8 << 20

// Processor runs the consumption pipeline.
type Processor interface {
	Process(ctx context.Context, fileName string, data []byte) (*service.Job, error)
	Job(id uuid.UUID) (*service.Job, bool)
}

// UploadHandler serves the upload endpoints.
type UploadHandler struct {
	svc    Processor
	logger *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(svc Processor, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, logger: logger}
}

// Register mounts the routes on mux.
func (h *UploadHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/uploads", h.Upload)
	mux.HandleFunc("GET /api/v1/uploads/{id}", h.Get)
	mux.HandleFunc("GET /healthz", h.Health)
}

type errorResponse struct {
	Error      string             `json:"error"`
	Diagnostic *layout.Diagnostic `json:"diagnostic,omitempty"`
}

// Upload accepts a workbook as multipart field "file" or as the raw body.
// ?format=csv returns the clean table as CSV instead of the JSON job.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, err, nil)
			return
		}
		h.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	job, err := h.svc.Process(r.Context(), name, data)
	if err != nil {
		h.writeProcessError(w, err)
		return
	}

	h.writeJob(w, r, http.StatusCreated, job)
}

// Get returns a previously processed job.
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid upload id"), nil)
		return
	}

	job, ok := h.svc.Job(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, errors.New("upload not found"), nil)
		return
	}
	h.writeJob(w, r, http.StatusOK, job)
}

func (h *UploadHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UploadHandler) writeJob(w http.ResponseWriter, r *http.Request, status int, job *service.Job) {
	if r.URL.Query().Get("format") != "csv" {
		h.writeJSON(w, status, job)
		return
	}

	var buf bytes.Buffer
	if err := job.Table.WriteCSV(&buf); err != nil {
		h.logger.Error("failed to render csv", slog.String("job_id", job.ID.String()), slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, errors.New("failed to render csv"), nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.ID.String()+`.csv"`)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *UploadHandler) writeProcessError(w http.ResponseWriter, err error) {
	if le, ok := layout.AsLayoutError(err); ok {
		diag := le.Diagnostic
		h.writeError(w, http.StatusUnprocessableEntity, err, &diag)
		return
	}

	switch {
	case errors.Is(err, workbook.ErrUnreadable), errors.Is(err, workbook.ErrNoSheets):
		h.writeError(w, http.StatusUnsupportedMediaType, err, nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, http.StatusServiceUnavailable, err, nil)
	default:
		h.logger.Error("failed to process upload", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"), nil)
	}
}

func (h *UploadHandler) writeError(w http.ResponseWriter, status int, err error, diag *layout.Diagnostic) {
	h.writeJSON(w, status, errorResponse{Error: err.Error(), Diagnostic: diag})
}

func (h *UploadHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", slog.Any("error", err))
	}
}

func readUpload(r *http.Request) (string, []byte, error) {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return "", nil, err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, errors.New(`multipart field "file" is required`)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, err
		}
		return filepath.Base(header.Filename), data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty upload")
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.xlsx"
	}
	return filepath.Base(name), data, nil
}
