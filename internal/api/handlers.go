package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"dataviz/internal/analysis"
	"dataviz/internal/config"
	apperrors "dataviz/internal/errors"
	"dataviz/internal/models"
	"dataviz/internal/render"
	"dataviz/internal/service"
	"dataviz/internal/state"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	// mu serialises every request that touches the session.
	mu         sync.Mutex
	Controller *state.Controller

	ProfileService *analysis.ProfileService
	PNGRenderer    *render.PNGRenderer
	Config         *config.Config
	Logger         *zap.Logger

	NewDataSource func() service.DataSource
	CurrentDB     service.DataSource // Active DB connection
}

func NewHandler(cfg *config.Config, controller *state.Controller, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Controller:     controller,
		ProfileService: analysis.NewProfileService(),
		PNGRenderer:    render.NewPNGRenderer(cfg.Render.PNGWidth, cfg.Render.PNGHeight),
		Config:         cfg,
		Logger:         logger,
		NewDataSource: func() service.DataSource {
			return service.NewPostgresDataSource()
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	// Dataset sources
	r.Post("/upload", h.Upload)
	r.Post("/api/db/connect", h.ConnectDB)
	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/load", h.LoadTable)

	// Dataset inspection
	r.Get("/status", h.GetStatus)
	r.Get("/preview", h.GetPreview)
	r.Get("/column-types", h.GetColumnTypes)
	r.Get("/column-stats", h.GetColumnStats)
	r.Get("/column-quality", h.GetColumnQuality)
	r.Get("/correlation", h.GetCorrelation)

	// Charting
	r.Post("/plot", h.Plot)
	r.Get("/chart", h.GetChart)
	r.Get("/chart.png", h.GetChartPNG)
	r.Post("/suggest", h.Suggest)
	r.Post("/filter", h.FilterData)
	r.Post("/filter/reset", h.ResetFilter)
}

// Close releases the live chart and the database connection.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CurrentDB != nil {
		if err := h.CurrentDB.Close(); err != nil {
			h.Logger.Warn("failed to close database", zap.Error(err))
		}
		h.CurrentDB = nil
	}
	return h.Controller.Close()
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Upload
// ============================================================================

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.Config.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.writeError(w, apperrors.InvalidInput("File too large or not a multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("No file uploaded"))
		return
	}
	defer file.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.Controller.Load(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, err)
		return
	}

	columns := rows.Columns()
	if columns == nil {
		columns = []string{}
	}
	h.writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:     fmt.Sprintf("File '%s' uploaded successfully", header.Filename),
		Rows:        len(rows),
		Columns:     len(columns),
		ColumnNames: columns,
	})
}

// ============================================================================
// Database
// ============================================================================

// ConnectDB establishes a database connection
func (h *Handler) ConnectDB(w http.ResponseWriter, r *http.Request) {
	var req models.DBConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON"))
		return
	}

	cfg := service.DataSourceConfig{
		URL:      req.URL,
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
		DBName:   req.DBName,
		SSLMode:  req.SSLMode,
	}
	if cfg.URL == "" && cfg.Host == "" {
		cfg.URL = h.Config.Database.URL
	}
	if cfg.URL == "" && cfg.Host == "" {
		h.writeError(w, apperrors.InvalidInput("database url or host is required"))
		return
	}

	ds := h.NewDataSource()
	if err := ds.Connect(r.Context(), cfg); err != nil {
		h.writeError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Close previous if exists
	if h.CurrentDB != nil {
		h.CurrentDB.Close()
	}
	h.CurrentDB = ds

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// ListTables returns tables from connected DB
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CurrentDB == nil {
		h.writeError(w, apperrors.New(apperrors.CodeNotLoaded, "No database connection"))
		return
	}

	tables, err := h.CurrentDB.ListTables(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	h.writeJSON(w, http.StatusOK, tables)
}

// LoadTable makes a database table the session dataset
func (h *Handler) LoadTable(w http.ResponseWriter, r *http.Request) {
	var req models.DBLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON"))
		return
	}
	if req.Table == "" {
		h.writeError(w, apperrors.InvalidInput("table is required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CurrentDB == nil {
		h.writeError(w, apperrors.New(apperrors.CodeNotLoaded, "No database connection"))
		return
	}

	rows, err := h.CurrentDB.LoadTable(r.Context(), req.Table, req.Limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Controller.LoadDataset(req.Table, rows); err != nil {
		h.writeError(w, err)
		return
	}

	columns := rows.Columns()
	if columns == nil {
		columns = []string{}
	}
	h.writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:     fmt.Sprintf("Table '%s' loaded successfully", req.Table),
		Rows:        len(rows),
		Columns:     len(columns),
		ColumnNames: columns,
	})
}

// ============================================================================
// Status & Preview
// ============================================================================

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, h.Controller.Status())
}

func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	rows := getIntParam(r, "rows", h.Config.Dataset.PreviewRows)

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Controller.Status().Loaded {
		h.writeError(w, state.ErrNotLoaded)
		return
	}
	h.writeJSON(w, http.StatusOK, h.Controller.Preview(rows))
}

// ============================================================================
// Column Types & Stats
// ============================================================================

func (h *Handler) GetColumnTypes(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Controller.Status().Loaded {
		h.writeError(w, state.ErrNotLoaded)
		return
	}
	h.writeJSON(w, http.StatusOK, h.Controller.ColumnTypes())
}

func (h *Handler) GetColumnStats(w http.ResponseWriter, r *http.Request) {
	column := r.URL.Query().Get("column")
	if column == "" {
		h.writeError(w, apperrors.InvalidInput("column parameter is required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Controller.Status().Loaded {
		h.writeError(w, state.ErrNotLoaded)
		return
	}
	summary, err := h.ProfileService.Summarize(h.Controller.Active(), column)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetColumnQuality(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Controller.Status().Loaded {
		h.writeError(w, state.ErrNotLoaded)
		return
	}
	h.writeJSON(w, http.StatusOK, h.ProfileService.Quality(h.Controller.Active()))
}

func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x == "" || y == "" {
		h.writeError(w, apperrors.InvalidInput("x and y parameters are required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Controller.Status().Loaded {
		h.writeError(w, state.ErrNotLoaded)
		return
	}
	result, err := h.ProfileService.Correlate(h.Controller.Active(), x, y)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// ============================================================================
// Charting
// ============================================================================

// Plot selects the column pair and draws it. Nothing to draw is a 204.
func (h *Handler) Plot(w http.ResponseWriter, r *http.Request) {
	var req models.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Controller.Select(req.X, req.Y)
	ch, err := h.Controller.Plot()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ch == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp, err := plotResponse(ch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := h.Controller.Live()
	if ch == nil {
		h.writeError(w, apperrors.NotFound("chart"))
		return
	}
	resp, err := plotResponse(ch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	ch := h.Controller.Live()
	h.mu.Unlock()

	if ch == nil {
		h.writeError(w, apperrors.NotFound("chart"))
		return
	}

	// specs are immutable once inferred, drawing can run outside the lock
	var buf bytes.Buffer
	if err := h.PNGRenderer.WritePNG(ch.Spec(), &buf); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// Suggest selects the column pair and returns the advisory chart type.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req models.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Controller.Select(req.X, req.Y)
	s, ok := h.Controller.Suggest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// ============================================================================
// Filter
// ============================================================================

func (h *Handler) FilterData(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.Controller.ApplyFilter(req.Column, req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !res.Applied {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeFilterResponse(w, res.Chart)
}

func (h *Handler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, err := h.Controller.ResetFilter()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeFilterResponse(w, ch)
}

// writeFilterResponse reports the active dataset after a filter change. The
// caller holds h.mu.
func (h *Handler) writeFilterResponse(w http.ResponseWriter, ch render.Chart) {
	status := h.Controller.Status()
	resp := models.FilterResponse{
		Rows:     status.Rows,
		Filtered: status.Filtered,
		Data:     h.Controller.Preview(h.Config.Dataset.PreviewRows),
	}
	if ch != nil {
		plot, err := plotResponse(ch)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Chart = plot
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// Helpers
// ============================================================================

type configurer interface {
	Config() (render.Config, error)
}

func plotResponse(ch render.Chart) (*models.PlotResponse, error) {
	var (
		cfg render.Config
		err error
	)
	if c, ok := ch.(configurer); ok {
		cfg, err = c.Config()
	} else {
		cfg, err = render.BuildConfig(ch.Spec())
	}
	if err != nil {
		return nil, err
	}
	return &models.PlotResponse{
		ChartID: ch.ID(),
		Kind:    string(ch.Spec().Kind()),
		Config:  cfg,
	}, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.Error(err))
	} else {
		h.Logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(w, status, models.ErrorResponse{
		Error: err.Error(),
		Code:  apperrors.GetCode(err),
	})
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
