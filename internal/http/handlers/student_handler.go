// Student HTTP handlers.
//
// This file exposes the routine back-office read endpoints:
//   - GET /students           (list, paginated, optional status filter)
//   - GET /students/expiring  (memberships lapsing soon)
//   - GET /students/{id}      (single student)
//   - GET /dashboard/stats    (landing-page aggregates)
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/repo"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/services"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/utils"
)

// StudentService defines the student read operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type StudentService interface {
	// Get fetches one student by id.
	Get(ctx context.Context, id string) (*domain.Student, error)
	// ListPage returns a page of students and the total count, optionally
	// filtered by membership status.
	ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Student, int64, error)
	// ExpiringSoon returns active students whose membership lapses within days.
	ExpiringSoon(ctx context.Context, days int) ([]domain.Student, error)
	// Dashboard returns the landing-page aggregates.
	Dashboard(ctx context.Context) (repo.DashboardStats, error)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListStudentsResponse wraps a page of students and pagination information.
type ListStudentsResponse struct {
	Students   []domain.Student `json:"students"`
	Pagination Pagination       `json:"pagination"`
}

// ExpiringStudentsResponse wraps the expiring-membership report.
type ExpiringStudentsResponse struct {
	Students []domain.Student `json:"students"`
	Days     int              `json:"days"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// clampLimit parses the "limit" query param, bounded to [1, max].
func clampLimit(c *gin.Context, def, max int) int {
	n := utils.AtoiDefault(c.Query("limit"), def)
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n
}

//
// Handlers
//

// ListStudents godoc
// @ID          listStudents
// @Summary     List students (paginated)
// @Description Returns a page of students, newest first, optionally filtered by membership status.
// @Tags        Students
// @Produce     json
//
// @Param       status     query   string  false "Membership status filter"  Enums(active, expired, suspended)
// @Param       page       query   int     false "Page number"               minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"            minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListStudentsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /students [get]
func (h *Handlers) ListStudents(c *gin.Context) {
	page, pageSize := clampPagination(c)
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	items, total, err := h.studentSvc.ListPage(c.Request.Context(), status, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListStudentsResponse{
		Students: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// ExpiringStudents godoc
// @ID          expiringStudents
// @Summary     Memberships expiring soon
// @Description Returns active students whose membership lapses within the next N days (default 7).
// @Tags        Students
// @Produce     json
//
// @Param       days  query  int  false "Window in days"  minimum(1) maximum(90) default(7)
//
// @Success     200  {object} handlers.ExpiringStudentsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /students/expiring [get]
func (h *Handlers) ExpiringStudents(c *gin.Context) {
	days := utils.AtoiDefault(c.Query("days"), 7)
	if days < 1 || days > 90 {
		days = 7
	}

	items, err := h.studentSvc.ExpiringSoon(c.Request.Context(), days)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ExpiringStudentsResponse{Students: items, Days: days})
}

// GetStudent godoc
// @ID          getStudent
// @Summary     Get a student
// @Tags        Students
// @Produce     json
//
// @Param       id  path  string  true  "Student ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Student
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Student not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /students/{id} [get]
func (h *Handlers) GetStudent(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "student id must be a UUID")
		return
	}

	student, err := h.studentSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "student not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, student)
}

// DashboardStats godoc
// @ID          dashboardStats
// @Summary     Dashboard aggregates
// @Description Returns active-student and seat counts plus current-month revenue and expenses.
// @Tags        Dashboard
// @Produce     json
//
// @Success     200  {object} repo.DashboardStats
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /dashboard/stats [get]
func (h *Handlers) DashboardStats(c *gin.Context) {
	stats, err := h.studentSvc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}
