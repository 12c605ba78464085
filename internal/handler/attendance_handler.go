package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmtenga/attendance-api/internal/service"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
	"github.com/jmtenga/attendance-api/pkg/response"
)

// AttendanceHandler exposes the daily ledger endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark godoc
// @Summary Mark today's attendance for the authenticated student
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope "Already marked today"
// @Success 201 {object} response.Envelope "Newly marked"
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /me/attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.attendance.Mark(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.AlreadyMarked {
		status = http.StatusOK
	}
	response.JSON(c, status, result, nil)
}

// History godoc
// @Summary List the authenticated student's attendance history
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/attendance [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.attendance.History(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Roster godoc
// @Summary Daily roster across all students
// @Tags Attendance
// @Produce json
// @Param date query string false "Roster date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/roster [get]
func (h *AttendanceHandler) Roster(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidDate, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	rows, err := h.attendance.Roster(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"date": date.Format("2006-01-02")})
}
