package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fault-service/internal/export"
	"fault-service/internal/http/middleware"
	"fault-service/internal/model"
	"fault-service/internal/parser"
	"fault-service/internal/query"
	"fault-service/internal/service"
)

type Handler struct {
	faultService *service.FaultService
	log          zerolog.Logger
	now          func() time.Time
}

func NewHandler(faultService *service.FaultService, log zerolog.Logger) *Handler {
	return &Handler{
		faultService: faultService,
		log:          log,
		now:          time.Now,
	}
}

func (h *Handler) meta(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.faultService.Meta()))
}

func (h *Handler) parseFault(c *gin.Context) {
	if _, ok := h.writer(c); !ok {
		return
	}

	var req struct {
		RawText string `json:"raw_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report, err := h.faultService.ParseAndCreate(c.Request.Context(), req.RawText)
	if err != nil {
		var incomplete *parser.IncompleteError
		if errors.As(err, &incomplete) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "parse failed: the report must contain reporter, time, vehicle, description and responsible person",
				"missing":   incomplete.Missing,
				"extracted": incomplete.Extracted,
			})
			return
		}
		h.handleError(c, err)
		return
	}

	h.log.Info().Uint("fault_id", report.ID).Str("source", "parse").Msg("fault recorded")
	c.JSON(http.StatusCreated, successResponse(report))
}

func (h *Handler) createFault(c *gin.Context) {
	if _, ok := h.writer(c); !ok {
		return
	}

	var req struct {
		ReporterName      string `json:"reporter_name" binding:"required"`
		FaultTime         string `json:"fault_time" binding:"required"`
		VehicleID         string `json:"vehicle_id" binding:"required"`
		Category          string `json:"category" binding:"required"`
		Description       string `json:"description"`
		Solution          string `json:"solution"`
		ResponsiblePerson string `json:"responsible_person"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report, err := h.faultService.Create(c.Request.Context(), service.CreateFaultInput{
		ReporterName:      req.ReporterName,
		FaultTime:         req.FaultTime,
		VehicleID:         req.VehicleID,
		Category:          strings.ToUpper(strings.TrimSpace(req.Category)),
		Description:       req.Description,
		Solution:          req.Solution,
		ResponsiblePerson: req.ResponsiblePerson,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().Uint("fault_id", report.ID).Str("source", "form").Msg("fault recorded")
	c.JSON(http.StatusCreated, successResponse(report))
}

func (h *Handler) listFaults(c *gin.Context) {
	criteria := query.Criteria{
		Reporter:    strings.TrimSpace(c.Query("search_reporter")),
		Responsible: strings.TrimSpace(c.Query("search_responsible")),
		Vehicle:     strings.TrimSpace(c.Query("search_vehicle")),
		Status:      strings.ToUpper(strings.TrimSpace(c.Query("search_status"))),
		StartDate:   strings.TrimSpace(c.Query("search_start_date")),
		EndDate:     strings.TrimSpace(c.Query("search_end_date")),
	}
	page := query.PageRequest{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", int(query.DefaultPageSize)),
	}

	result, err := h.faultService.Search(c.Request.Context(), criteria, page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) getFault(c *gin.Context) {
	id, ok := faultID(c)
	if !ok {
		return
	}

	report, err := h.faultService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) faultHistory(c *gin.Context) {
	id, ok := faultID(c)
	if !ok {
		return
	}

	history, err := h.faultService.History(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": history}))
}

func (h *Handler) updateFault(c *gin.Context) {
	principal, ok := h.writer(c)
	if !ok {
		return
	}
	id, ok := faultID(c)
	if !ok {
		return
	}

	var req struct {
		Status        string `json:"status" binding:"required"`
		ResolutionLog string `json:"resolution_log"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.FaultStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	report, err := h.faultService.UpdateResolution(c.Request.Context(), principal, id, status, req.ResolutionLog)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) statistics(c *gin.Context) {
	stats, err := h.faultService.Statistics(
		c.Request.Context(),
		strings.TrimSpace(c.Query("group_by")),
		strings.TrimSpace(c.Query("start_date")),
		strings.TrimSpace(c.Query("end_date")),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if stats.Advisory != "" {
		h.log.Warn().Str("group_by", c.Query("group_by")).Msg("statistics dimension rejected")
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) download(c *gin.Context) {
	format, ok := export.ParseFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("format must be csv or xlsx"))
		return
	}

	var buf bytes.Buffer
	err := h.faultService.Export(
		c.Request.Context(),
		&buf,
		format,
		strings.TrimSpace(c.Query("start_date")),
		strings.TrimSpace(c.Query("end_date")),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("agv_faults_%s.%s", h.now().Format("20060102"), format.Extension())
	c.Header("Content-Disposition", "attachment;filename="+filename)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// writer resolves the principal and rejects read-only roles.
func (h *Handler) writer(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return model.Principal{}, false
	}
	if !principal.CanWrite() {
		c.JSON(http.StatusForbidden, errorResponse(service.ErrPermissionDenied.Error()))
		return model.Principal{}, false
	}
	return principal, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": fieldErr.Field})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidTimestamp):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
}

func faultID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("invalid fault id"))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def when it is
// absent or not a number.
func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
