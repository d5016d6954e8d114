package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/optiview/partbench/analytics"
	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/catalog"
)

func testServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()

	svc := dispatch.NewService(zap.NewNop().Sugar())
	t.Cleanup(svc.Close)

	s := NewServer(cfg, svc, zap.NewNop().Sugar())
	ts := httptest.NewServer(http.HandlerFunc(s.handleAnalytics))
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func envelopeParts() []catalog.Part {
	return []catalog.Part{
		{Callout: "A", WidthMM: 10, HeightMM: 9, LengthMM: 100},
		{Callout: "B", WidthMM: 30, HeightMM: 2, LengthMM: 50},
	}
}

func TestAnalyticsRequestResponse(t *testing.T) {
	conn := dialWS(t, testServer(t, DefaultConfig()))

	req := dispatch.Request{
		ID:      "req-1",
		Type:    "request",
		Payload: dispatch.Payload{Kind: dispatch.KindEnvelope, Parts: envelopeParts()},
	}
	require.NoError(t, conn.WriteJSON(req))

	var resp dispatch.Response
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "req-1", resp.ID)
	assert.Equal(t, dispatch.ResponseResult, resp.Type)
	require.Nil(t, resp.Error)

	var env analytics.Envelope
	require.NoError(t, json.Unmarshal(resp.Result, &env))
	assert.Equal(t, 30.0, env.Width.ValueMM)
	assert.Equal(t, "B", env.Width.Callout)
}

func TestAnalyticsUnknownKindGetsErrorEnvelope(t *testing.T) {
	conn := dialWS(t, testServer(t, DefaultConfig()))

	req := dispatch.Request{ID: "req-2", Type: "request", Payload: dispatch.Payload{Kind: "optics_match"}}
	require.NoError(t, conn.WriteJSON(req))

	var resp dispatch.Response
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "req-2", resp.ID)
	assert.Equal(t, dispatch.ResponseError, resp.Type)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "compute_error", resp.Error.Name)
}

func TestAnalyticsMalformedEnvelope(t *testing.T) {
	conn := dialWS(t, testServer(t, DefaultConfig()))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var resp dispatch.Response
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, dispatch.ResponseError, resp.Type)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "parse_error", resp.Error.Name)
}

func TestAnalyticsRateLimiting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 1
	cfg.Burst = 1
	conn := dialWS(t, testServer(t, cfg))

	req := dispatch.Request{
		ID:      "req-a",
		Type:    "request",
		Payload: dispatch.Payload{Kind: dispatch.KindEnvelope, Parts: envelopeParts()},
	}
	require.NoError(t, conn.WriteJSON(req))

	var first dispatch.Response
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, dispatch.ResponseResult, first.Type)

	// Second request inside the same 1/s window must be rejected
	req.ID = "req-b"
	require.NoError(t, conn.WriteJSON(req))

	var second dispatch.Response
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "req-b", second.ID)
	assert.Equal(t, dispatch.ResponseError, second.Type)
	require.NotNil(t, second.Error)
	assert.Equal(t, "rate_limited", second.Error.Name)
}

func TestSequentialRequestsCorrelateByID(t *testing.T) {
	conn := dialWS(t, testServer(t, DefaultConfig()))

	for _, id := range []string{"x1", "x2", "x3"} {
		req := dispatch.Request{
			ID:      id,
			Type:    "request",
			Payload: dispatch.Payload{Kind: dispatch.KindBias, Parts: envelopeParts()},
		}
		require.NoError(t, conn.WriteJSON(req))

		var resp dispatch.Response
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, dispatch.ResponseResult, resp.Type)
	}
}
