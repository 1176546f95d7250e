package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

const (
	DefaultChannelID = 2175
	DefaultProvider  = "m-pesa"
	DefaultTimeout   = 60 * time.Second

	// maxErrorBody bounds how much of a rejection body is kept on the error.
	maxErrorBody = 4 << 10
)

type Config struct {
	URL         string
	Username    string
	Password    string
	CallbackURL string
	ChannelID   int
	Provider    string
	Timeout     time.Duration
}

// PayHeroClient initiates STK pushes. It holds no per-request state and never
// retries: after a transport failure the push may already have been delivered.
type PayHeroClient struct {
	cfg    Config
	http   *http.Client
	logger *logger.Logger
}

var _ domain.PaymentGateway = (*PayHeroClient)(nil)

func NewPayHeroClient(cfg Config, log *logger.Logger) *PayHeroClient {
	if cfg.ChannelID == 0 {
		cfg.ChannelID = DefaultChannelID
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &PayHeroClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
}

type stkPushRequest struct {
	Amount            int64  `json:"amount"`
	PhoneNumber       string `json:"phone_number"`
	ChannelID         int    `json:"channel_id"`
	Provider          string `json:"provider"`
	ExternalReference string `json:"external_reference"`
	CustomerName      string `json:"customer_name"`
	CallbackURL       string `json:"callback_url"`
}

func (c *PayHeroClient) Initiate(ctx context.Context, req domain.PaymentRequest) (*domain.GatewayAck, error) {
	body, err := json.Marshal(stkPushRequest{
		Amount:            req.Amount,
		PhoneNumber:       req.PhoneNumber,
		ChannelID:         c.cfg.ChannelID,
		Provider:          c.cfg.Provider,
		ExternalReference: req.ExternalReference,
		CustomerName:      req.CustomerName,
		CallbackURL:       c.cfg.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encode stk push request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGatewayUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	c.logger.Debug(ctx, "Sending STK push",
		"amount", req.Amount,
		"channel_id", c.cfg.ChannelID,
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn(ctx, "STK push rejected",
			"status_code", resp.StatusCode,
			"body", string(raw),
		)
		return nil, &domain.GatewayRejectedError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	var ack domain.GatewayAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, &domain.GatewayRejectedError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("undecodable response: %v", err),
		}
	}

	c.logger.Info(ctx, "STK push accepted",
		"checkout_request_id", ack.CheckoutRequestID,
		"gateway_status", ack.Status,
		"success", ack.Success,
	)

	return &ack, nil
}
