package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/service"
)

// PaymentHandler обслуживает оплату выполненных заказов.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт новый хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateJobPayment обрабатывает POST /api/jobs/:id/payment.
func (h *PaymentHandler) CreateJobPayment(c *gin.Context) {
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

	result, err := h.payments.CreateJobPayment(c.Request.Context(), jobID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CaptureJobPaymentRequest — тело запроса на захват платежа по заказу.
type CaptureJobPaymentRequest struct {
	JobID   string `json:"job_id" binding:"required"`
	OrderID string `json:"order_id" binding:"required"`
}

// CaptureJobPayment обрабатывает POST /api/jobs/payment/capture.
func (h *PaymentHandler) CaptureJobPayment(c *gin.Context) {
	var req CaptureJobPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		respondBadRequest(c, "job_id должен быть валидным UUID")
		return
	}

	payment, err := h.payments.CaptureJobPayment(c.Request.Context(), jobID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
