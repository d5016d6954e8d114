package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/optiview/partbench/analytics/dispatch"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer (catalogs can be large)
	maxMessageSize = 8 * 1024 * 1024
)

var upgrader = websocket.Upgrader{
	// The endpoint serves a local engineering tool; same-host pages and
	// the Electron shell present no meaningful origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleAnalytics upgrades the connection and serves request envelopes
// until the peer disconnects. Requests are processed sequentially per
// connection; each connection gets its own token bucket.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("Failed to upgrade websocket", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s.log.Infow("Analytics client connected", "remote", r.RemoteAddr)
	limiter := rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				s.log.Warnw("Analytics client read failed", "error", err, "remote", r.RemoteAddr)
			}
			return
		}

		var req dispatch.Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.writeResponse(conn, errorResponse("", "parse_error", "malformed request envelope: "+err.Error()))
			continue
		}

		if !limiter.Allow() {
			s.writeResponse(conn, errorResponse(req.ID, "rate_limited", "request rate exceeded; slow down"))
			continue
		}

		s.writeResponse(conn, s.serve(r.Context(), req))
	}
}

// serve runs one request through the computation service and builds the
// response envelope. Exactly one response per request id, error or result.
func (s *Server) serve(ctx context.Context, req dispatch.Request) dispatch.Response {
	result, err := s.svc.Submit(ctx, req.Payload)
	if err != nil {
		s.log.Warnw("Analytics request failed",
			"request_id", req.ID,
			"kind", req.Payload.Kind,
			"error", err)
		return errorResponse(req.ID, "compute_error", err.Error())
	}
	return dispatch.Response{ID: req.ID, Type: dispatch.ResponseResult, Result: result}
}

func (s *Server) writeResponse(conn *websocket.Conn, resp dispatch.Response) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warnw("Failed to write response", "request_id", resp.ID, "error", err)
	}
}

func errorResponse(id, name, message string) dispatch.Response {
	return dispatch.Response{
		ID:    id,
		Type:  dispatch.ResponseError,
		Error: &dispatch.ErrorInfo{Name: name, Message: message},
	}
}
