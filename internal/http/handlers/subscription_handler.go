package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/service"
)

// SubscriptionHandler обслуживает тарифные планы и покупку подписок.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
	payments      *service.PaymentService
}

// NewSubscriptionHandler создаёт новый хэндлер.
func NewSubscriptionHandler(subscriptions *service.SubscriptionService, payments *service.PaymentService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, payments: payments}
}

// ListPlans обрабатывает GET /api/subscriptions/plans.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.payments.Plans()})
}

// GetActive обрабатывает GET /api/subscriptions/active.
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	sub, err := h.subscriptions.GetActive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"remaining":    sub.Remaining(),
	})
}

// ListMy обрабатывает GET /api/subscriptions/my.
func (h *SubscriptionHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	subs, err := h.subscriptions.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// CreatePaymentRequest — тело запроса на покупку подписки.
type CreatePaymentRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

// CreatePayment обрабатывает POST /api/subscriptions/payment.
func (h *SubscriptionHandler) CreatePayment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}

	result, err := h.payments.CreateSubscriptionPayment(c.Request.Context(), userID, req.PlanType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ExecutePayment обрабатывает GET /api/subscriptions/payment/execute.
// Вызывается после возврата пользователя со страницы оплаты шлюза.
func (h *SubscriptionHandler) ExecutePayment(c *gin.Context) {
	trackingID, err := uuid.Parse(c.Query("tracking_id"))
	if err != nil {
		respondBadRequest(c, "tracking_id должен быть валидным UUID")
		return
	}

	orderID := c.Query("order_id")
	if orderID == "" {
		respondBadRequest(c, "order_id обязателен")
		return
	}

	sub, err := h.payments.CaptureSubscriptionPayment(c.Request.Context(), trackingID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"message":      "подписка активирована",
	})
}

// Webhook обрабатывает POST /api/subscriptions/payment/webhook.
// Шлюз ретраит не-200 ответы, поэтому всегда отвечаем 200, а ошибки
// обработки только логируем.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	var payload struct {
		TrackingID string `json:"tracking_id"`
		OrderID    string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	trackingID, err := uuid.Parse(payload.TrackingID)
	if err != nil || payload.OrderID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if _, err := h.payments.CaptureSubscriptionPayment(c.Request.Context(), trackingID, payload.OrderID); err != nil {
		if logger.Log != nil {
			logger.Log.WithField("tracking_id", payload.TrackingID).
				WithError(err).Warn("ошибка обработки webhook платежа")
		}
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
