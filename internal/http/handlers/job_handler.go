package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/repository"
	"github.com/ignatzorin/jobmarket-backend/internal/service"
	"github.com/ignatzorin/jobmarket-backend/internal/validation"
)

// JobHandler обслуживает маршруты заказов.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт новый хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// CreateJobRequest — тело запроса на размещение заказа.
type CreateJobRequest struct {
	CategoryID  string  `json:"category_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       int64   `json:"price" binding:"required"`
	Location    *string `json:"location"`
	DeadlineAt  *string `json:"deadline_at"`
}

// CreateJob обрабатывает POST /api/jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondBadRequest(c, "category_id должен быть валидным UUID")
		return
	}

	if err := validation.ValidateJobTitle(req.Title); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateJobDescription(req.Description); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidatePrice(req.Price); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var deadline *time.Time
	if req.DeadlineAt != nil && *req.DeadlineAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.DeadlineAt)
		if err != nil {
			respondBadRequest(c, "deadline_at должен быть в формате RFC3339")
			return
		}
		deadline = &parsed
	}
	if err := validation.ValidateDeadline(deadline); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	job, sub, err := h.jobs.CreateJob(c.Request.Context(), service.CreateJobInput{
		CompanyID:   userID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		DeadlineAt:  deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"job": job,
		"subscription": gin.H{
			"job_limit":   sub.JobLimit,
			"jobs_posted": sub.JobsPosted,
			"remaining":   sub.Remaining(),
		},
	})
}

// ListJobs обрабатывает GET /api/jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	params := repository.JobListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}

	if rawCategory := c.Query("category_id"); rawCategory != "" {
		categoryID, err := uuid.Parse(rawCategory)
		if err != nil {
			respondBadRequest(c, "category_id должен быть валидным UUID")
			return
		}
		params.CategoryID = &categoryID
	}

	if c.Query("mine") == "true" {
		userID, err := currentUserID(c)
		if err != nil {
			respondUnauthorized(c, err.Error())
			return
		}
		params.CompanyID = &userID
	}

	result, err := h.jobs.ListJobs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result.Jobs,
		"pagination": gin.H{
			"total":    result.Total,
			"limit":    result.Limit,
			"offset":   result.Offset,
			"has_more": result.HasMore,
		},
	})
}

// GetJob обрабатывает GET /api/jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CancelJob обрабатывает POST /api/jobs/:id/cancel.
func (h *JobHandler) CancelJob(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	if err := h.jobs.CancelJob(c.Request.Context(), jobID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "заказ отменён"})
}
