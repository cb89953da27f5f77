package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/service"
	"github.com/ignatzorin/jobmarket-backend/internal/validation"
)

// AgreementHandler обслуживает выбор фрилансера и соглашения.
type AgreementHandler struct {
	agreements *service.AgreementService
}

// NewAgreementHandler создаёт новый хэндлер.
func NewAgreementHandler(agreements *service.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreements: agreements}
}

// SelectFreelancerRequest — тело запроса на выбор фрилансера.
type SelectFreelancerRequest struct {
	FreelancerID string `json:"freelancer_id" binding:"required"`
}

// SelectFreelancer обрабатывает POST /api/jobs/:id/select.
func (h *AgreementHandler) SelectFreelancer(c *gin.Context) {
	companyID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	var req SelectFreelancerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	freelancerID, err := uuid.Parse(req.FreelancerID)
	if err != nil {
		respondBadRequest(c, "freelancer_id должен быть валидным UUID")
		return
	}

	selection, err := h.agreements.SelectFreelancer(c.Request.Context(), jobID, freelancerID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"selection": selection})
}

// CreateAgreementRequest — тело запроса на создание соглашения.
type CreateAgreementRequest struct {
	JobID        string `json:"job_id" binding:"required"`
	FreelancerID string `json:"freelancer_id" binding:"required"`
	QuoteID      string `json:"quote_id" binding:"required"`
	Price        int64  `json:"price" binding:"required"`
}

// CreateAgreement обрабатывает POST /api/agreements.
func (h *AgreementHandler) CreateAgreement(c *gin.Context) {
	companyID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	var req CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		respondBadRequest(c, "job_id должен быть валидным UUID")
		return
	}
	freelancerID, err := uuid.Parse(req.FreelancerID)
	if err != nil {
		respondBadRequest(c, "freelancer_id должен быть валидным UUID")
		return
	}
	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		respondBadRequest(c, "quote_id должен быть валидным UUID")
		return
	}

	if err := validation.ValidatePrice(req.Price); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	agreement, err := h.agreements.CreateAgreement(c.Request.Context(), service.CreateAgreementInput{
		JobID:        jobID,
		FreelancerID: freelancerID,
		CompanyID:    companyID,
		QuoteID:      quoteID,
		Price:        req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"agreement": agreement})
}

// AcceptAgreement обрабатывает POST /api/agreements/:id/accept.
func (h *AgreementHandler) AcceptAgreement(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор соглашения")
		return
	}

	agreement, err := h.agreements.Accept(c.Request.Context(), agreementID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}

// RejectAgreement обрабатывает POST /api/agreements/:id/reject.
func (h *AgreementHandler) RejectAgreement(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор соглашения")
		return
	}

	agreement, err := h.agreements.Reject(c.Request.Context(), agreementID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}

// ListMyAgreements обрабатывает GET /api/agreements/my.
func (h *AgreementHandler) ListMyAgreements(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	agreements, err := h.agreements.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}
