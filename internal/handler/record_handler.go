package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmtenga/attendance-api/internal/service"
	"github.com/jmtenga/attendance-api/pkg/response"
)

// RecordHandler exposes record query and export endpoints.
type RecordHandler struct {
	records *service.RecordService
	exports *service.ExportService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records *service.RecordService, exports *service.ExportService) *RecordHandler {
	return &RecordHandler{records: records, exports: exports}
}

func recordQueryFromContext(c *gin.Context) service.RecordQuery {
	return service.RecordQuery{
		Period:        c.DefaultQuery("period", "daily"),
		Date:          c.Query("date"),
		Start:         c.Query("start_date"),
		End:           c.Query("end_date"),
		StudentNumber: c.Query("student_id"),
	}
}

// Query godoc
// @Summary Query attendance records by period
// @Tags Records
// @Produce json
// @Param period query string false "daily, weekly, monthly, yearly or custom"
// @Param date query string false "Anchor date: YYYY-MM-DD, YYYY-MM or YYYY depending on period"
// @Param start_date query string false "Custom range start (YYYY-MM-DD)"
// @Param end_date query string false "Custom range end (YYYY-MM-DD)"
// @Param student_id query string false "Restrict to one student number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /records [get]
func (h *RecordHandler) Query(c *gin.Context) {
	records, rng, err := h.records.Query(c.Request.Context(), recordQueryFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{
		"from":  rng.From.Format("2006-01-02"),
		"to":    rng.To.Format("2006-01-02"),
		"label": rng.Label,
		"count": len(records),
	})
}

// Export godoc
// @Summary Export attendance records for a period as a downloadable file
// @Tags Records
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param period query string false "daily, weekly, monthly, yearly or custom"
// @Param date query string false "Anchor date for the period"
// @Param start_date query string false "Custom range start (YYYY-MM-DD)"
// @Param end_date query string false "Custom range end (YYYY-MM-DD)"
// @Param student_id query string false "Restrict to one student number"
// @Param format query string false "xlsx (default), csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Export(c.Request.Context(), recordQueryFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

// ExportAll godoc
// @Summary Export the full attendance ledger as a downloadable file
// @Tags Records
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx (default), csv or pdf"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /records/export/all [get]
func (h *RecordHandler) ExportAll(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.ExportAll(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

func writeDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(result.Content)))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
