package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type PaymentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// paymentHTTPClient talks to a card-processing API with a form-encoded
// payment-intents surface, authenticated by a bearer secret key.
type paymentHTTPClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
	log       *logrus.Logger
}

func NewPaymentHTTPClient(baseURL, secretKey string, timeout time.Duration, logger *logrus.Logger) PaymentClient {
	return &paymentHTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
		log:       logger,
	}
}

func (c *paymentHTTPClient) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req, "create intent")
}

func (c *paymentHTTPClient) RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req, "retrieve intent")
}

func (c *paymentHTTPClient) do(req *http.Request, op string) (*PaymentIntent, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("PaymentClient: %s failed: %v", op, err)
		return nil, fmt.Errorf("failed to communicate with payment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: payment intent not found", domain.ErrNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Errorf("PaymentClient: %s returned status %d: %s", op, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return &intent, nil
}
