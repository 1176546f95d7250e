package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/realtime"
	"github.com/grachmannico95/donation-be/internal/service"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

const (
	maxClientMessageSize = 8 << 10
	pingWriteWait        = 10 * time.Second
	defaultPingInterval  = 30 * time.Second

	destinationConnect = "connect"
	destinationDonate  = "donate"
)

type WebSocketConfig struct {
	AllowedOrigins []string
	PingInterval   time.Duration

	// Limiter is keyed by client IP; nil means donations are not limited.
	Limiter echoMiddleware.RateLimiterStore
}

type WebSocketHandler struct {
	service      service.DonationService
	hub          *realtime.Hub
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	limiter      echoMiddleware.RateLimiterStore
	logger       *logger.Logger
}

func NewWebSocketHandler(svc service.DonationService, hub *realtime.Hub, cfg WebSocketConfig, log *logger.Logger) *WebSocketHandler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}

	return &WebSocketHandler{
		service: svc,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		pingInterval: cfg.PingInterval,
		limiter:      cfg.Limiter,
		logger:       log,
	}
}

// originChecker accepts requests without an Origin header, any listed
// origin, or everything when "*" is listed.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

type clientEnvelope struct {
	Destination string          `json:"destination"`
	Body        json.RawMessage `json:"body"`
}

type donateBody struct {
	Amount            int64  `json:"amount"`
	PhoneNumber       string `json:"phone_number"`
	CustomerName      string `json:"customer_name"`
	ExternalReference string `json:"external_reference"`
}

func (h *WebSocketHandler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn(c.Request().Context(), "WebSocket upgrade failed", "error", err)
		return nil
	}

	conn := realtime.NewWSConn(ws)
	clientIP := c.RealIP()
	ctx, cancel := context.WithCancel(c.Request().Context())
	ctx = logger.WithTraceID(ctx, conn.ID)

	h.hub.Register(conn)
	h.logger.Info(ctx, "WebSocket connected", "connections", h.hub.Len())

	defer func() {
		cancel()
		h.hub.Unregister(conn)
		_ = conn.Close()
		h.logger.Info(ctx, "WebSocket disconnected", "connections", h.hub.Len())
	}()

	go h.keepAlive(ctx, conn)

	pongWait := h.pingInterval * 2
	ws.SetReadLimit(maxClientMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn(ctx, "WebSocket read failed", "error", err)
			}
			return nil
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		h.handleMessage(ctx, conn, clientIP, data)
	}
}

func (h *WebSocketHandler) keepAlive(ctx context.Context, conn *realtime.WSConn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(pingWriteWait); err != nil {
				h.logger.Debug(ctx, "Ping failed, closing connection", "error", err)
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn realtime.Conn, clientIP string, data []byte) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Invalid message format"))
		return
	}

	body, err := decodeBody(env.Body)
	if err != nil {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Invalid message format"))
		return
	}

	switch normalizeDestination(env.Destination) {
	case destinationConnect:
		h.handleConnect(ctx, conn)
	case destinationDonate:
		h.handleDonate(ctx, conn, clientIP, body)
	default:
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Unknown destination"))
	}
}

// decodeBody accepts the body as a JSON object or as a JSON string holding
// one.
func decodeBody(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, err
	}
	if strings.TrimSpace(inner) == "" {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(inner), nil
}

func normalizeDestination(dest string) string {
	dest = strings.TrimSpace(dest)
	dest = strings.TrimPrefix(dest, "/")
	dest = strings.TrimPrefix(dest, "app/")
	return strings.ToLower(dest)
}

func (h *WebSocketHandler) handleConnect(ctx context.Context, conn realtime.Conn) {
	donors, err := h.service.DonorList(ctx)
	if err != nil {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Failed to load donors"))
		return
	}
	_ = h.hub.SendTo(ctx, conn, realtime.DonorListMessage(donors))
}

func (h *WebSocketHandler) allowDonation(clientIP string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, err := h.limiter.Allow(clientIP)
	return err == nil && allowed
}

func (h *WebSocketHandler) handleDonate(ctx context.Context, conn realtime.Conn, clientIP string, body json.RawMessage) {
	var req donateBody
	if err := json.Unmarshal(body, &req); err != nil {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Invalid message format"))
		return
	}
	if req.Amount == 0 || strings.TrimSpace(req.PhoneNumber) == "" || strings.TrimSpace(req.ExternalReference) == "" {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Missing required fields: amount, phone_number, external_reference"))
		return
	}

	if !h.allowDonation(clientIP) {
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage("Too many requests, please try again later"))
		return
	}

	ref := strings.TrimSpace(req.ExternalReference)
	ctx = logger.WithReference(ctx, ref)

	// The callback can beat the gateway ack, so the link must exist first.
	claimed := h.hub.Await(ref, conn)

	_, err := h.service.InitiateDonation(ctx, domain.PaymentRequest{
		Amount:            req.Amount,
		PhoneNumber:       req.PhoneNumber,
		CustomerName:      req.CustomerName,
		ExternalReference: req.ExternalReference,
	})
	if err != nil {
		if claimed {
			h.hub.ReleaseIf(ref, conn)
		}
		_, message := describeInitiateError(err)
		_ = h.hub.SendTo(ctx, conn, realtime.ErrorMessage(message))
		return
	}

	if claimed && !h.hub.Awaiting(ref, conn) {
		h.logger.Debug(ctx, "Outcome delivered before gateway ack")
		return
	}
	_ = h.hub.SendTo(ctx, conn, realtime.DonationPendingMessage())
}
