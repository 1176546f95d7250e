package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grachmannico95/donation-be/internal/config"
	"github.com/grachmannico95/donation-be/internal/eventbus"
	"github.com/grachmannico95/donation-be/internal/gateway"
	"github.com/grachmannico95/donation-be/internal/handler"
	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/internal/realtime"
	"github.com/grachmannico95/donation-be/internal/server"
	"github.com/grachmannico95/donation-be/internal/service"
	"github.com/grachmannico95/donation-be/internal/storage"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

type testEnv struct {
	server   *httptest.Server
	payhero  *httptest.Server
	hub      *realtime.Hub
	stkCalls atomic.Int32

	// beforeAck runs inside the gateway stub after the STK push arrives and
	// before it is acknowledged.
	beforeAck func(ref, checkoutID string)
}

func setupTestServer(t *testing.T, opts ...func(*testEnv)) *testEnv {
	env := &testEnv{}
	for _, opt := range opts {
		opt(env)
	}

	env.payhero = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		n := env.stkCalls.Add(1)
		checkoutID := "CQ" + string(rune('0'+n))
		if env.beforeAck != nil {
			ref, _ := req["external_reference"].(string)
			env.beforeAck(ref, checkoutID)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":           true,
			"status":            "QUEUED",
			"reference":         req["external_reference"],
			"CheckoutRequestID": checkoutID,
		})
	}))
	t.Cleanup(env.payhero.Close)

	log := logger.NewNop()
	repo := storage.NewMemoryStore()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	env.hub = realtime.NewHub(realtime.HubConfig{SendTimeout: time.Second}, log, m)

	bus := eventbus.New(log, &eventbus.Config{ChannelBuffer: 100, MaxRetries: 3})
	consumer := eventbus.NewNotificationConsumer(env.hub, log, 2)
	require.NoError(t, bus.Subscribe(eventbus.EventTypeDonationCompleted, consumer))
	require.NoError(t, bus.Subscribe(eventbus.EventTypeDonationFailed, consumer))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Shutdown(context.Background()) })

	payhero := gateway.NewPayHeroClient(gateway.Config{
		URL:         env.payhero.URL,
		Username:    "user",
		Password:    "secret",
		CallbackURL: "http://localhost/donation/callback",
	}, log)

	svc := service.NewDonationService(repo, payhero, service.NewReconciler(repo, log), bus, m, log)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "8080", Host: "0.0.0.0"},
		Realtime: config.RealtimeConfig{AllowedOrigins: []string{"*"}},
	}

	srv := server.New(cfg, log, server.Handlers{
		Donation:  handler.NewDonationHandler(svc, log),
		WebSocket: handler.NewWebSocketHandler(svc, env.hub, handler.WebSocketConfig{AllowedOrigins: []string{"*"}}, log),
		Health:    handler.NewHealthHandler(env.hub.Len),
	}, m, registry, nil)

	env.server = httptest.NewServer(srv.Handler())
	t.Cleanup(env.server.Close)

	return env
}

type wsMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func (env *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/donation/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg wsMessage
	err := conn.ReadJSON(&msg)
	require.Error(t, err, "unexpected message %+v", msg)
}

func postJSON(t *testing.T, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func getJSON(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func callbackPayload(ref, checkoutID string, code int, receipt, desc string) map[string]interface{} {
	return map[string]interface{}{
		"forward_url": "",
		"status":      true,
		"response": map[string]interface{}{
			"Amount":             100,
			"CheckoutRequestID":  checkoutID,
			"ExternalReference":  ref,
			"MerchantRequestID":  "MRQ",
			"MpesaReceiptNumber": receipt,
			"Phone":              "254700000000",
			"ResultCode":         code,
			"ResultDesc":         desc,
			"Status":             "Success",
		},
	}
}

func TestDonationFlow_SuccessBroadcastsToAll(t *testing.T) {
	env := setupTestServer(t)

	donor := env.dial(t)
	watcher := env.dial(t)

	require.NoError(t, donor.WriteJSON(map[string]interface{}{"destination": "/app/connect", "body": "{}"}))
	assert.Equal(t, "donor_list", read(t, donor).Type)
	require.NoError(t, watcher.WriteJSON(map[string]interface{}{"destination": "connect"}))
	assert.Equal(t, "donor_list", read(t, watcher).Type)

	body, _ := json.Marshal(map[string]interface{}{
		"amount":             100,
		"phone_number":       "0700000000",
		"customer_name":      "Jane",
		"external_reference": "R1",
	})
	require.NoError(t, donor.WriteJSON(map[string]interface{}{"destination": "donate", "body": string(body)}))
	pending := read(t, donor)
	assert.Equal(t, "donation_pending", pending.Type)
	assert.Equal(t, int32(1), env.stkCalls.Load())

	status, resp := postJSON(t, env.server.URL+"/donation/callback", callbackPayload("R1", "CQ1", 0, "MR1", "ok"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Callback processed", resp["message"])

	for _, conn := range []*websocket.Conn{donor, watcher} {
		update := read(t, conn)
		assert.Equal(t, "donation_update", update.Type)
		assert.Equal(t, "success", update.Data["status"])
		assert.Equal(t, false, update.Data["replay"])
		d := update.Data["donor"].(map[string]interface{})
		assert.Equal(t, float64(100), d["amount"])
		assert.Equal(t, "Jane", d["customer_name"])
	}

	status, _ = postJSON(t, env.server.URL+"/donation/callback", callbackPayload("R1", "CQ1", 0, "MR1", "ok"))
	assert.Equal(t, http.StatusOK, status)
	replay := read(t, watcher)
	assert.Equal(t, true, replay.Data["replay"])

	res, err := http.Get(env.server.URL + "/donation/donors")
	require.NoError(t, err)
	defer res.Body.Close()
	var donors map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&donors))
	assert.Equal(t, float64(1), donors["count"])
}

func TestDonationFlow_FailureReachesOnlyDonor(t *testing.T) {
	env := setupTestServer(t)

	donor := env.dial(t)
	watcher := env.dial(t)
	require.Eventually(t, func() bool { return env.hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, donor.WriteJSON(map[string]interface{}{
		"destination": "donate",
		"body": map[string]interface{}{
			"amount":             50,
			"phone_number":       "0700000000",
			"external_reference": "R2",
		},
	}))
	assert.Equal(t, "donation_pending", read(t, donor).Type)

	status, _ := postJSON(t, env.server.URL+"/donation/callback", callbackPayload("R2", "CQ1", 1032, "", "Request cancelled by user"))
	assert.Equal(t, http.StatusOK, status)

	update := read(t, donor)
	assert.Equal(t, "donation_update", update.Type)
	assert.Equal(t, "error", update.Data["status"])
	assert.Equal(t, "Request cancelled by user", update.Data["message"])
	expectSilence(t, watcher)

	status, _ = postJSON(t, env.server.URL+"/donation/callback", callbackPayload("R2", "CQ1", 0, "MR-LATE", ""))
	assert.Equal(t, http.StatusOK, status)
	expectSilence(t, watcher)

	top := getJSON(t, env.server.URL+"/donation/top")
	assert.Empty(t, top["donors"], "a cancelled donation must not rank")
}

func TestDonationFlow_CallbackBeforeAck(t *testing.T) {
	env := setupTestServer(t, func(e *testEnv) {
		e.beforeAck = func(ref, checkoutID string) {
			status, _ := postJSON(t, e.server.URL+"/donation/callback", callbackPayload(ref, checkoutID, 1032, "", "Request cancelled by user"))
			assert.Equal(t, http.StatusOK, status)
		}
	})

	donor := env.dial(t)
	require.NoError(t, donor.WriteJSON(map[string]interface{}{
		"destination": "donate",
		"body": map[string]interface{}{
			"amount":             75,
			"phone_number":       "0700000000",
			"external_reference": "R4",
		},
	}))

	// A pending notice may or may not precede the outcome, depending on
	// whether the ack or the outcome is handled first.
	var update wsMessage
	for i := 0; i < 2; i++ {
		update = read(t, donor)
		if update.Type == "donation_update" {
			break
		}
		assert.Equal(t, "donation_pending", update.Type)
	}
	assert.Equal(t, "donation_update", update.Type)
	assert.Equal(t, "error", update.Data["status"])
	assert.Equal(t, "Request cancelled by user", update.Data["message"])
}

func TestDonationFlow_HTTPInitiate(t *testing.T) {
	env := setupTestServer(t)

	status, body := postJSON(t, env.server.URL+"/donation/initiate", map[string]interface{}{
		"amount":            10,
		"phoneNumber":       "0700000000",
		"externalReference": "R3",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	status, _ = postJSON(t, env.server.URL+"/donation/initiate", map[string]interface{}{
		"amount":            10,
		"phoneNumber":       "0700000000",
		"externalReference": "R3",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, int32(1), env.stkCalls.Load())

	status, _ = postJSON(t, env.server.URL+"/donation/callback", map[string]interface{}{"response": map[string]interface{}{"ExternalReference": "R3"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestServer(t)

	res, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assert.Eventually(t, func() bool {
		res, err := http.Get(env.server.URL + "/metrics")
		if err != nil {
			return false
		}
		defer res.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(res.Body); err != nil {
			return false
		}
		return res.StatusCode == http.StatusOK && strings.Contains(buf.String(), "donation_http_requests_total")
	}, 2*time.Second, 50*time.Millisecond)
}
