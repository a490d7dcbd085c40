package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза.
// Шлюз работает по двухфазной схеме: checkout резервирует средства,
// approve подтверждает списание уже после проверки слота.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL string, secretKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateCheckout инициализирует платежную сессию для заказа
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.postJSON(ctx, "/v1/payments/checkout", req, &session); err != nil {
		return nil, err
	}

	if session.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: empty checkout url for order %s", ErrInvalidResponse, req.OrderID)
	}

	return &session, nil
}

// Approve подтверждает платеж по ключу, выданному шлюзом.
// Отклоненный платеж возвращается как ErrPaymentDeclined.
func (c *Client) Approve(ctx context.Context, req ApproveRequest) (*Approval, error) {
	var approval Approval
	if err := c.postJSON(ctx, "/v1/payments/approve", req, &approval); err != nil {
		return nil, err
	}

	if approval.Status != approvalStatusApproved {
		c.log.Warn("Payment declined by gateway: orderID=%s, status=%s", req.OrderID, approval.Status)
		return nil, fmt.Errorf("%w: order %s, status %s", ErrPaymentDeclined, req.OrderID, approval.Status)
	}

	return &approval, nil
}

// Refund выполняет полный возврат платежа по заказу
func (c *Client) Refund(ctx context.Context, req RefundRequest) error {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.postJSON(ctx, "/v1/payments/refund", req, &result); err != nil {
		return err
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Paygate request failed: path=%s, error=%v", path, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return ErrPaymentNotFound
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusConflict:
		gwErr := decodeError(resp.Body)
		c.log.Warn("Payment rejected by gateway: path=%s, code=%s, message=%s", path, gwErr.Code, gwErr.Message)
		return fmt.Errorf("%w: %s", ErrPaymentDeclined, gwErr.Message)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.log.Error("Paygate unavailable: path=%s, status=%d", path, resp.StatusCode)
		return fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

func decodeError(r io.Reader) ErrorResponse {
	var gwErr ErrorResponse
	if err := json.NewDecoder(r).Decode(&gwErr); err != nil {
		gwErr.Message = "unknown gateway error"
	}
	return gwErr
}
