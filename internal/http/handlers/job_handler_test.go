package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fakeUserID() uuid.UUID {
	return uuid.MustParse("3f9a6f5e-1111-2222-3333-444455556666")
}

func TestJobHandler_CreateJob_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{jobs: nil}
	r.POST("/jobs", handler.CreateJob)

	req, _ := http.NewRequest("POST", "/jobs", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_GetJob_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{jobs: nil}
	r.GET("/jobs/:id", handler.GetJob)

	req, _ := http.NewRequest("GET", "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_CancelJob_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{jobs: nil}
	r.POST("/jobs/:id/cancel", handler.CancelJob)

	req, _ := http.NewRequest("POST", "/jobs/3f9a6f5e-1111-2222-3333-444455556666/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuoteHandler_SubmitQuote_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &QuoteHandler{quotes: nil}
	r.POST("/jobs/:id/quotes", handler.SubmitQuote)

	req, _ := http.NewRequest("POST", "/jobs/3f9a6f5e-1111-2222-3333-444455556666/quotes", strings.NewReader(`{"price": 1000}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAgreementHandler_Accept_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AgreementHandler{agreements: nil}
	r.POST("/agreements/:id/accept", func(c *gin.Context) {
		c.Set("userID", fakeUserID())
		handler.AcceptAgreement(c)
	})

	req, _ := http.NewRequest("POST", "/agreements/bad-id/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_CaptureJobPayment_BadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/jobs/payment/capture", handler.CaptureJobPayment)

	req, _ := http.NewRequest("POST", "/jobs/payment/capture", strings.NewReader(`{"job_id": ""}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_Webhook_AlwaysOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &SubscriptionHandler{payments: nil}
	r.POST("/subscriptions/payment/webhook", handler.Webhook)

	// мусорное тело не должно давать шлюзу повод для ретраев
	req, _ := http.NewRequest("POST", "/subscriptions/payment/webhook", strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
