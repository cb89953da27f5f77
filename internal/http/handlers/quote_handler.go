package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/service"
	"github.com/ignatzorin/jobmarket-backend/internal/validation"
)

// QuoteHandler обслуживает маршруты откликов фрилансеров.
type QuoteHandler struct {
	quotes *service.QuoteService
}

// NewQuoteHandler создаёт новый хэндлер.
func NewQuoteHandler(quotes *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// SubmitQuoteRequest — тело запроса на отклик.
type SubmitQuoteRequest struct {
	Price       int64  `json:"price" binding:"required"`
	CoverLetter string `json:"cover_letter"`
}

// SubmitQuote обрабатывает POST /api/jobs/:id/quotes.
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
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

	var req SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	if err := validation.ValidatePrice(req.Price); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateCoverLetter(req.CoverLetter); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	quote, err := h.quotes.SubmitQuote(c.Request.Context(), jobID, userID, req.Price, req.CoverLetter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quote": quote})
}

// ListJobQuotes обрабатывает GET /api/jobs/:id/quotes — только для владельца заказа.
func (h *QuoteHandler) ListJobQuotes(c *gin.Context) {
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

	quotes, err := h.quotes.ListForJob(c.Request.Context(), jobID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// ListMyQuotes обрабатывает GET /api/quotes/my.
func (h *QuoteHandler) ListMyQuotes(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	quotes, err := h.quotes.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}
