package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insightlane/sales-engine/pkg/apperrors"
	"github.com/insightlane/sales-engine/pkg/config"
	"github.com/insightlane/sales-engine/pkg/models"
)

// ImportService runs the ingestion pipeline for one uploaded file.
type ImportService interface {
	Import(ctx context.Context, path, ext string) (*models.ImportResult, error)
}

// AnalyticsService serves the dashboard's aggregate read queries.
type AnalyticsService interface {
	Totals(ctx context.Context, r models.DateRange) (*models.SalesTotals, error)
	Filtered(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error)
	Trend(ctx context.Context, r models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error)
	ByProduct(ctx context.Context, r models.DateRange) ([]models.ProductSales, error)
	ByRegion(ctx context.Context, r models.DateRange) ([]models.RegionRevenue, error)
	Categories(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) ([]string, error)
}

// SalesHandler handles the sales import and analytics endpoints.
type SalesHandler struct {
	cfg       *config.Config
	importer  ImportService
	analytics AnalyticsService
	logger    *zap.Logger
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(cfg *config.Config, importer ImportService, analytics AnalyticsService, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		cfg:       cfg,
		importer:  importer,
		analytics: analytics,
		logger:    logger,
	}
}

// RegisterRoutes registers the sales routes on the given mux.
func (h *SalesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sales/import", h.Import)
	mux.HandleFunc("GET /api/sales/total", h.Totals)
	mux.HandleFunc("GET /api/sales/filtered", h.Filtered)
	mux.HandleFunc("GET /api/sales/trend", h.Trend)
	mux.HandleFunc("GET /api/sales/products", h.ByProduct)
	mux.HandleFunc("GET /api/sales/regions", h.ByRegion)
	mux.HandleFunc("GET /api/sales/categories", h.Categories)
	mux.HandleFunc("GET /api/sales/regions-list", h.Regions)
}

// Import handles POST /api/sales/import. The multipart "file" part is
// staged to a uuid-named artifact which the import pipeline removes on
// every exit path.
func (h *SalesHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxSizeMB<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeImportError(w, apperrors.ErrNoFileUploaded)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path, err := h.stageUpload(file, ext)
	if err != nil {
		h.logger.Error("Failed to stage upload", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	result, err := h.importer.Import(r.Context(), path, ext)
	if err != nil {
		h.writeImportError(w, err)
		return
	}

	response := map[string]interface{}{
		"success":         true,
		"message":         fmt.Sprintf("Successfully imported %d sales records", result.RecordsImported),
		"recordsImported": result.RecordsImported,
	}
	if err := WriteJSON(w, http.StatusCreated, response); err != nil {
		h.logger.Error("Failed to encode import response", zap.Error(err))
	}
}

// stageUpload copies the multipart part to the upload directory under a
// fresh uuid name, preserving the original extension for format dispatch.
func (h *SalesHandler) stageUpload(file io.Reader, ext string) (string, error) {
	dir := h.cfg.Upload.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload artifact: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload artifact: %w", err)
	}
	return path, nil
}

func (h *SalesHandler) writeImportError(w http.ResponseWriter, err error) {
	var valErr *apperrors.ValidationError
	var parseErr *apperrors.ParseError
	var ingErr *apperrors.IngestionError

	switch {
	case errors.Is(err, apperrors.ErrNoFileUploaded):
		h.writeError(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		h.writeError(w, http.StatusBadRequest, "Unsupported file format")
	case errors.As(err, &valErr):
		if encErr := ValidationErrorResponse(w, "Data validation failed", valErr.Errors); encErr != nil {
			h.logger.Error("Failed to encode validation errors", zap.Error(encErr))
		}
	case errors.As(err, &parseErr):
		h.writeError(w, http.StatusBadRequest, parseErr.Error())
	case errors.As(err, &ingErr):
		h.logger.Error("Sales import failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to import sales data")
	default:
		h.logger.Error("Sales import failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to import sales data")
	}
}

// Totals handles GET /api/sales/total.
func (h *SalesHandler) Totals(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := h.analytics.Totals(r.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to query sales totals", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch sales totals")
		return
	}

	h.writeData(w, totals)
}

// Filtered handles GET /api/sales/filtered.
func (h *SalesHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := models.SalesFilter{
		DateRange: dr,
		Product:   r.URL.Query().Get("product"),
		Category:  r.URL.Query().Get("category"),
		Region:    r.URL.Query().Get("region"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 100),
	}

	page, err := h.analytics.Filtered(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to query filtered sales", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch sales data")
		return
	}

	response := map[string]interface{}{
		"success":    true,
		"data":       page.Records,
		"pagination": page.Pagination,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode filtered sales", zap.Error(err))
	}
}

// Trend handles GET /api/sales/trend.
func (h *SalesHandler) Trend(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	period := models.TrendPeriod(r.URL.Query().Get("period"))
	points, err := h.analytics.Trend(r.Context(), dr, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidPeriod) {
			h.writeError(w, http.StatusBadRequest, "Invalid period. Must be daily, weekly, or monthly")
			return
		}
		h.logger.Error("Failed to query sales trend", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch sales trend")
		return
	}

	h.writeData(w, points)
}

// ByProduct handles GET /api/sales/products.
func (h *SalesHandler) ByProduct(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.analytics.ByProduct(r.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to query product sales", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch product sales")
		return
	}

	h.writeData(w, products)
}

// ByRegion handles GET /api/sales/regions.
func (h *SalesHandler) ByRegion(w http.ResponseWriter, r *http.Request) {
	dr, err := ParseDateRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	regions, err := h.analytics.ByRegion(r.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to query region revenue", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch region revenue")
		return
	}

	h.writeData(w, regions)
}

// Categories handles GET /api/sales/categories.
func (h *SalesHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.analytics.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to query categories", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	h.writeData(w, categories)
}

// Regions handles GET /api/sales/regions-list.
func (h *SalesHandler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.analytics.Regions(r.Context())
	if err != nil {
		h.logger.Error("Failed to query regions", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch regions")
		return
	}

	h.writeData(w, regions)
}

func (h *SalesHandler) writeData(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *SalesHandler) writeError(w http.ResponseWriter, status int, message string) {
	if err := ErrorResponse(w, status, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
