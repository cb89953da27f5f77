package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/ignatzorin/jobmarket-backend/internal/logger"
)

// Статусы, которые шлюз считает успешным захватом.
const statusApproved = "approved"

// MercadoPagoGateway — адаптер внешнего платёжного шлюза Mercado Pago.
// При пустом access token работает в mock-режиме: заказы создаются и
// подтверждаются локально, что используется в development и тестах.
type MercadoPagoGateway struct {
	client   payment.Client
	timeout  time.Duration
	mockMode bool
}

// NewMercadoPagoGateway создаёт адаптер шлюза.
func NewMercadoPagoGateway(accessToken string, timeout time.Duration) (*MercadoPagoGateway, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if accessToken == "" {
		if logger.Log != nil {
			logger.Log.Warn("payments: токен шлюза не задан, включён mock-режим")
		}
		return &MercadoPagoGateway{timeout: timeout, mockMode: true}, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("payments: не удалось инициализировать SDK: %w", err)
	}

	return &MercadoPagoGateway{client: payment.NewClient(cfg), timeout: timeout}, nil
}

// CreateOrder создаёт заказ во внешнем шлюзе и возвращает его идентификатор.
// Сумма хранится в минорных единицах; конвертация в десятичную форму
// происходит только здесь, на границе с SDK.
func (g *MercadoPagoGateway) CreateOrder(ctx context.Context, amount int64, description string) (string, error) {
	if g.mockMode {
		orderID := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		if logger.Log != nil {
			logger.Log.WithField("order_id", orderID).Debug("payments: mock заказ создан")
		}
		return orderID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := payment.Request{
		TransactionAmount: float64(amount) / 100,
		Description:       description,
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("payments: создание заказа в шлюзе: %w", err)
	}

	return strconv.Itoa(resp.ID), nil
}

// CaptureOrder запрашивает у шлюза состояние заказа и сообщает, был ли
// платёж подтверждён. Любая ошибка связи трактуется вызывающим кодом как
// неуспех захвата: локальная транзакция откатывается, захват можно повторить.
func (g *MercadoPagoGateway) CaptureOrder(ctx context.Context, externalOrderID string) (bool, error) {
	if g.mockMode {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	id, err := strconv.Atoi(externalOrderID)
	if err != nil {
		return false, fmt.Errorf("payments: некорректный идентификатор заказа %q: %w", externalOrderID, err)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("payments: запрос статуса заказа: %w", err)
	}

	return resp.Status == statusApproved, nil
}
