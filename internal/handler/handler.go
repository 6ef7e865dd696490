package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jdank417/GroceryBarcodeScanner/docs"
	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/dto"
	"github.com/jdank417/GroceryBarcodeScanner/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

const healthTimeout = 2 * time.Second

// Services bundles what the routes depend on. Metrics may be nil.
type Services struct {
	Lookup       service.LookupServicer
	Aggregations service.Aggregations
	Stats        service.StatsProvider
	Health       service.HealthChecker
	Metrics      http.Handler
}

type Handler struct {
	services Services
	admin    config.Admin
	router   *gin.Engine
	log      *zap.Logger
}

func NewHandler(services Services, admin config.Admin, log *zap.Logger) *Handler {
	h := &Handler{
		services: services,
		admin:    admin,
		router:   gin.Default(),
		log:      log,
	}

	h.router.Use(requestID())
	h.router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.index)
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/api/scan", h.scan)
	h.router.POST("/api/lookup", h.lookup)
	h.router.POST("/log_client_error", h.logClientError)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.services.Metrics != nil {
		h.router.GET("/metrics", gin.WrapH(h.services.Metrics))
	}

	admin := h.router.Group("/", gin.BasicAuth(gin.Accounts{h.admin.Username: h.admin.Password}))
	admin.GET("/dashboard", h.dashboard)
	admin.GET("/api/summary", h.summary)
	admin.GET("/api/historical", h.historical)
	admin.GET("/api/item_events", h.itemEvents)
	admin.GET("/debug/stats", h.stats)
}

// index serves the manual lookup page
func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check that the service is running and the event store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Failure 503 {object} dto.StatusResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.services.Health.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.StatusResponse{Status: "unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// scan handles POST /api/scan
// @Summary Resolve a scanned barcode
// @Description Looks up a scanned barcode. Non-digit characters are stripped first.
// @Tags lookup
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Scanned barcode"
// @Success 200 {object} dto.LookupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/scan [post]
func (h *Handler) scan(c *gin.Context) {
	var req dto.ScanRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid scan request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	outcome, err := h.services.Lookup.Scan(req.Barcode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLookupResponse(outcome))
}

// lookup handles POST /api/lookup
// @Summary Look up a UPC or search by product name
// @Description All-digit queries resolve as barcodes; anything else searches product names.
// @Tags lookup
// @Accept json
// @Produce json
// @Param request body dto.LookupRequest true "UPC or product name"
// @Success 200 {object} dto.LookupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/lookup [post]
func (h *Handler) lookup(c *gin.Context) {
	var req dto.LookupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid lookup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: service.ErrEmptyQuery.Error(),
		})
		return
	}

	outcome, err := h.services.Lookup.Lookup(req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLookupResponse(outcome))
}

// logClientError handles POST /log_client_error
// @Summary Report a client-side scan failure
// @Tags lookup
// @Accept json
// @Produce json
// @Param request body dto.ClientErrorRequest false "Error report"
// @Success 200 {object} dto.StatusResponse
// @Router /log_client_error [post]
func (h *Handler) logClientError(c *gin.Context) {
	var req dto.ClientErrorRequest

	// a missing or malformed body is still a reported failure
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("Client error report without valid body", zap.Error(err))
	}

	h.services.Lookup.ReportClientError(req.Error, req.Details, req.SKU)
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "logged"})
}

// summary handles GET /api/summary
// @Summary Lifetime event counts
// @Tags dashboard
// @Produce json
// @Security BasicAuth
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/summary [get]
func (h *Handler) summary(c *gin.Context) {
	summary, err := h.services.Aggregations.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// historical handles GET /api/historical
// @Summary Hourly event counts
// @Description Counts of one event type per local hour within an inclusive date range (default last 7 days). Empty hours are omitted.
// @Tags dashboard
// @Produce json
// @Security BasicAuth
// @Param event_type query string true "Event type" Enums(lookup_success, lookup_failure, search_product_success, search_product_failure, barcode_scan_failure, non_numerical_value)
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.HourlyCountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/historical [get]
func (h *Handler) historical(c *gin.Context) {
	var req dto.HistoricalRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid historical request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	buckets, err := h.services.Aggregations.BucketedCounts(c.Request.Context(), req.EventType, req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]dto.HourlyCountResponse, len(buckets))
	for i, b := range buckets {
		response[i] = dto.HourlyCountResponse{Hour: b.Hour, Count: b.Count}
	}
	c.JSON(http.StatusOK, response)
}

// itemEvents handles GET /api/item_events
// @Summary Event listing
// @Description Every event within an inclusive date range (default last 7 days), newest first.
// @Tags dashboard
// @Produce json
// @Security BasicAuth
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.ItemEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/item_events [get]
func (h *Handler) itemEvents(c *gin.Context) {
	var req dto.DateRangeRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid item events request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	events, err := h.services.Aggregations.RecentEvents(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]dto.ItemEventResponse, len(events))
	for i, e := range events {
		response[i] = dto.ItemEventResponse{
			EventType:  string(e.Type),
			Time:       e.Time,
			SubjectKey: e.SubjectKey,
			Detail:     e.Detail,
		}
	}
	c.JSON(http.StatusOK, response)
}

// stats handles GET /debug/stats
func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Stats.Stats())
}

// dashboard renders the admin page
func (h *Handler) dashboard(c *gin.Context) {
	summary, err := h.services.Aggregations.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load dashboard summary", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load metrics")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Metrics":    toSummaryResponse(summary),
		"EventTypes": domain.AllEventTypes,
	})
}

// respondError maps client input errors to 400 and everything else to 500
func (h *Handler) respondError(c *gin.Context, err error) {
	if service.IsClientError(err) {
		h.log.Info("Rejected request", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}

func toItemResponse(item domain.Item) dto.ItemResponse {
	return dto.ItemResponse{UPC: item.Key, Name: item.Name, Price: item.Price}
}

func toItemResponses(items []domain.Item) []dto.ItemResponse {
	if len(items) == 0 {
		return nil
	}
	out := make([]dto.ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toLookupResponse(o *service.LookupOutcome) dto.LookupResponse {
	resp := dto.LookupResponse{
		Kind:        string(o.Kind),
		Query:       o.Query,
		Found:       o.Found,
		Suggestions: toItemResponses(o.Suggestions),
		Matches:     toItemResponses(o.Matches),
	}

	switch {
	case o.Kind == service.OutcomeSearch && o.Found:
		resp.Message = fmt.Sprintf("Found %d matching products", len(o.Matches))
	case o.Kind == service.OutcomeSearch:
		resp.Message = "No products found matching your search."
	case o.Found:
		item := toItemResponse(o.Item)
		resp.Item = &item
		resp.Message = fmt.Sprintf("Item: %s, Price: $%s", o.Item.Name, service.FormatPrice(o.Item.Price))
	case len(o.Suggestions) > 0:
		resp.Message = "Item not found. Did you mean one of these?"
	default:
		resp.Message = "Item not found in the product table."
	}
	return resp
}

func toSummaryResponse(s *domain.Summary) dto.SummaryResponse {
	counts := make(map[string]int64, len(s.Counts))
	for t, n := range s.Counts {
		counts[string(t)] = n
	}
	return dto.SummaryResponse{
		Counts:                  counts,
		LookupSuccessTotal:      s.CombinedSuccess,
		LookupFailureTotal:      s.CombinedFailure,
		BarcodeScanFailureTotal: s.ScanFailures,
		SuccessRate:             s.SuccessRate,
	}
}
