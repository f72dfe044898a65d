package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/codegrapher/graphers/internal/candidate"
	"github.com/codegrapher/graphers/internal/candidate/service"
	"github.com/codegrapher/graphers/internal/export"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/response"
	"github.com/gin-gonic/gin"
)

// CreateRequest is the body of POST /candidate/.
type CreateRequest struct {
	FullName        string   `json:"fullname" binding:"required,min=2,max=50"`
	Email           string   `json:"email" binding:"required,email"`
	Address         string   `json:"address" binding:"required"`
	Education       string   `json:"education" binding:"required"`
	PhoneNumber     string   `json:"phone_number" binding:"required"`
	ExperienceYears *float64 `json:"experience_years" binding:"required,gte=0"`
	Skills          []string `json:"skills" binding:"required"`
}

// UpdateRequest is the body of PUT /candidate/:id. Absent fields stay unchanged.
type UpdateRequest struct {
	FullName        *string  `json:"fullname" binding:"omitempty,min=2,max=50"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	Address         *string  `json:"address"`
	Education       *string  `json:"education"`
	PhoneNumber     *string  `json:"phone_number"`
	ExperienceYears *float64 `json:"experience_years" binding:"omitempty,gte=0"`
	Skills          []string `json:"skills"`
}

func (r UpdateRequest) patch() candidate.Patch {
	return candidate.Patch{
		FullName:        r.FullName,
		Email:           r.Email,
		Address:         r.Address,
		Education:       r.Education,
		PhoneNumber:     r.PhoneNumber,
		ExperienceYears: r.ExperienceYears,
		Skills:          r.Skills,
	}
}

type listQuery struct {
	Page   int    `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" json:"search"`
}

// Exporter produces the CSV report served by /generate-report.
type Exporter interface {
	Export(ctx context.Context) (*export.Result, error)
}

type Handler struct {
	svc      *service.Service
	exporter Exporter
	timeout  time.Duration
}

// RegisterRoutes mounts the candidate routes on rg. The caller applies
// authentication to rg. timeout bounds a whole report export; zero disables it.
func RegisterRoutes(rg gin.IRouter, svc *service.Service, exp Exporter, timeout time.Duration) {
	h := &Handler{svc: svc, exporter: exp, timeout: timeout}
	rg.GET("/generate-report", h.GenerateReport)
	rg.POST("/", h.Create)
	rg.GET("/all-candidates", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, candidate.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Not Found", "candidate doesn't exist.")
	case errors.Is(err, candidate.ErrDuplicateEmail):
		response.Error(c, http.StatusBadRequest, "Bad Request", "Email already registered")
	case errors.Is(err, candidate.ErrEmptyUpdate):
		response.Error(c, http.StatusBadRequest, "Bad Request", "no fields to update")
	default:
		logger.Errorf("candidate %s: %v", op, err)
		response.Error(c, http.StatusInternalServerError, "Internal Server Error", "candidate store unavailable")
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), &candidate.Candidate{
		FullName:        req.FullName,
		Email:           req.Email,
		Address:         req.Address,
		Education:       req.Education,
		PhoneNumber:     req.PhoneNumber,
		ExperienceYears: req.ExperienceYears,
		Skills:          req.Skills,
	})
	if err != nil {
		h.storeError(c, "create", err)
		return
	}
	response.OK(c, http.StatusOK, created, "Candidate added successfully.")
}

func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), candidate.Query{Page: q.Page, Limit: q.Limit, Search: q.Search})
	if err != nil {
		h.storeError(c, "list", err)
		return
	}
	msg := "Candidates data retrieved successfully"
	if len(list) == 0 {
		msg = "Empty list returned"
	}
	response.OK(c, http.StatusOK, list, msg)
}

func (h *Handler) Get(c *gin.Context) {
	got, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "get", err)
		return
	}
	response.OK(c, http.StatusOK, got, "Candidate data retrieved successfully")
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		h.storeError(c, "update", err)
		return
	}
	response.OK(c, http.StatusOK, updated, "Candidate updated successfully")
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, "delete", err)
		return
	}
	response.OK(c, http.StatusOK, fmt.Sprintf("Candidate with ID: %s removed", id), "Candidate deleted successfully")
}

// GenerateReport exports every candidate and streams the file back. A client
// disconnect cancels the export and discards the partial file.
func (h *Handler) GenerateReport(c *gin.Context) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.exporter.Export(ctx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			response.Error(c, http.StatusInternalServerError, "Internal Server Error", "report generation timed out")
		case errors.Is(err, export.ErrWrite):
			response.Error(c, http.StatusInternalServerError, "Internal Server Error", "Error writing report")
		default:
			response.Error(c, http.StatusInternalServerError, "Internal Server Error", "candidate store unavailable")
		}
		return
	}
	c.Header("Content-Type", export.ContentType+"; charset=utf-8")
	c.FileAttachment(res.Path, filepath.Base(res.Path))
}
