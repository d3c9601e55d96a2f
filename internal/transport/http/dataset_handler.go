package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"solareda/internal/dataprocessing"
	apierrors "solareda/internal/errors"
	"solareda/internal/exporter"
	"solareda/internal/files"
	mw "solareda/internal/middleware"
	"solareda/pkg/contracts/domain"
)

// UploadField is the multipart field carrying an uploaded dataset.
const UploadField = "file"

// multipartOverhead is allowed on top of the file size limit for the
// multipart envelope.
const multipartOverhead = 1 << 20

// maxChartBins bounds the bins query parameter.
const maxChartBins = 1000

// OpenRequest selects a file from the data directory.
type OpenRequest struct {
	Name string `json:"name" validate:"required,filename"`
}

// CleanRequest lists the columns the negative-row filter checks. An empty
// list means the configured defaults.
type CleanRequest struct {
	Columns []string `json:"columns" validate:"omitempty,unique,dive,column"`
}

// DatasetHandler serves the dashboard's dataset API with RFC 7807 errors.
type DatasetHandler struct {
	service        DatasetServiceInterface
	validator      *mw.ValidationMiddleware
	query          *mw.QueryParamValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDatasetHandler creates a dataset handler. Uploads larger than
// maxUploadBytes are rejected.
func NewDatasetHandler(service DatasetServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		validator:      mw.NewValidationMiddleware(logger, errorHandler),
		query:          mw.NewQueryParamValidator(logger, errorHandler),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the /datasets routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(mw.ContentTypeValidator("application/json", "multipart/form-data"))
	r.Use(h.validator.ValidateRequest)

	r.Get("/", h.ListDatasets)
	r.Post("/", h.UploadDataset)
	r.Delete("/", h.ClearDatasets)
	r.Post("/sample", h.LoadSample)
	r.Post("/open", h.OpenFile)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.Delete("/", h.DeleteDataset)
		r.Get("/describe", h.Describe)
		r.Get("/summary", h.Summary)
		r.Get("/missing", h.Missing)
		r.Get("/negatives", h.Negatives)
		r.Get("/report", h.Report)
		r.Post("/clean", h.Clean)
		r.Get("/charts/{kind}", h.Chart)
		r.Get("/export", h.Export)
		r.Post("/save", h.Save)
	})
	return r
}

// FileRoutes returns the /files routes.
func (h *DatasetHandler) FileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.ListFiles)
	return r
}

// UploadDataset handles POST /api/datasets
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, "a multipart file field named file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(ctx, "dataset upload",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("file", header.Filename),
		slog.Int("bytes", len(data)),
	)

	entry, err := h.service.Upload(ctx, header.Filename, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.created(w, r, entry)
}

// LoadSample handles POST /api/datasets/sample
func (h *DatasetHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LoadSample(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.created(w, r, entry)
}

// OpenFile handles POST /api/datasets/open
func (h *DatasetHandler) OpenFile(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entry, err := h.service.Open(r.Context(), req.Name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.created(w, r, entry)
}

// ListFiles handles GET /api/files
func (h *DatasetHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Files(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if found == nil {
		found = []files.FileInfo{}
	}
	resp := map[string]interface{}{
		"status": "success",
		"data":   found,
		"count":  len(found),
	}
	if latest, ok := files.GetLatestFile(found); ok {
		resp["latest"] = latest.Name
	}
	render.JSON(w, r, resp)
}

// ListDatasets handles GET /api/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries := h.service.List(ctx)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   entries,
		"count":  len(entries),
		"cache":  h.service.Stats(ctx),
	})
}

// ClearDatasets handles DELETE /api/datasets
func (h *DatasetHandler) ClearDatasets(w http.ResponseWriter, r *http.Request) {
	n := h.service.InvalidateAll(r.Context())
	h.ok(w, r, map[string]int{"removed": n})
}

// GetDataset handles GET /api/datasets/{id}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.ok(w, r, info)
}

// DeleteDataset handles DELETE /api/datasets/{id}
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Describe handles GET /api/datasets/{id}/describe
func (h *DatasetHandler) Describe(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Describe(r.Context(), chi.URLParam(r, "id"))
	h.list(w, r, out, len(out), err)
}

// Summary handles GET /api/datasets/{id}/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"))
	h.list(w, r, out, len(out), err)
}

// Missing handles GET /api/datasets/{id}/missing
func (h *DatasetHandler) Missing(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Missing(r.Context(), chi.URLParam(r, "id"))
	h.list(w, r, out, len(out), err)
}

// Negatives handles GET /api/datasets/{id}/negatives
func (h *DatasetHandler) Negatives(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Negatives(r.Context(), chi.URLParam(r, "id"))
	h.list(w, r, out, len(out), err)
}

// Report handles GET /api/datasets/{id}/report. format=text returns the
// plain-text rendering the CLI prints.
func (h *DatasetHandler) Report(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format", []string{"json", "text"}, "json")
	if !ok {
		return
	}
	report, err := h.service.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if format == "json" {
		h.ok(w, r, report)
		return
	}

	var buf bytes.Buffer
	if err := exporter.RenderReport(&buf, report); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

// Clean handles POST /api/datasets/{id}/clean
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	var req CleanRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	out, err := h.service.Clean(r.Context(), chi.URLParam(r, "id"), req.Columns)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   out,
	})
}

// Chart handles GET /api/datasets/{id}/charts/{kind}
func (h *DatasetHandler) Chart(w http.ResponseWriter, r *http.Request) {
	columns, ok := h.query.ValidateList(w, r, "columns")
	if !ok {
		return
	}
	bins, ok := h.query.ValidateInt(w, r, "bins", 1, maxChartBins, 0)
	if !ok {
		return
	}

	kind := domain.ChartKind(chi.URLParam(r, "kind"))
	out, err := h.service.Chart(r.Context(), chi.URLParam(r, "id"), kind,
		dataprocessing.ChartOptions{Columns: columns, Bins: bins})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"kind":   kind,
		"data":   out,
	})
}

// Export handles GET /api/datasets/{id}/export
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	format, err := exporter.ParseFormat(strings.ToLower(r.URL.Query().Get("format")))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entry, err := h.service.Get(ctx, id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(ctx, id, format, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "dataset exported",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("dataset_id", id),
		slog.String("format", string(format)),
		slog.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", files.SafeStem(entry.Name)+format.Extension()))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.Write(buf.Bytes())
}

// Save handles POST /api/datasets/{id}/save
func (h *DatasetHandler) Save(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(strings.ToLower(r.URL.Query().Get("format")))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	saved, err := h.service.Save(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   saved,
	})
}

func (h *DatasetHandler) ok(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func (h *DatasetHandler) created(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusCreated)
	h.ok(w, r, data)
}

func (h *DatasetHandler) list(w http.ResponseWriter, r *http.Request, data interface{}, count int, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  count,
	})
}
