package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cws "github.com/coder/websocket"
)

// newTestWSServer starts an httptest server on the full route table and
// returns the WebSocket URL, the auth secret and the Server.
func newTestWSServer(t *testing.T) (string, string, *Server) {
	t.Helper()
	secret := "ws-test-secret"
	s := NewServer(nil, "127.0.0.1:0", &RPCConfig{
		Secret:  secret,
		Version: "1.0.0",
		Commit:  "abc123",
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.rpc.Close()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/jsonrpc/ws", secret, s
}

// wsClient speaks JSON-RPC over one connection and queues the push
// notifications that arrive between responses.
type wsClient struct {
	t      *testing.T
	conn   *cws.Conn
	ctx    context.Context
	nextID int
	notes  []map[string]any
}

func dialWS(t *testing.T, wsURL, secret string) *wsClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{
			"Authorization": []string{"Bearer " + secret},
		},
	})
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(cws.StatusNormalClosure, "") })
	return &wsClient{t: t, conn: conn, ctx: ctx}
}

func (c *wsClient) read() map[string]any {
	c.t.Helper()
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		c.t.Fatalf("WebSocket read failed: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		c.t.Fatalf("unmarshal message: %v (data: %s)", err, data)
	}
	return msg
}

// call sends a request and returns its response.
func (c *wsClient) call(method string, params any) map[string]any {
	c.t.Helper()
	c.nextID++
	req := map[string]any{"jsonrpc": "2.0", "method": method, "id": c.nextID}
	if params != nil {
		req["params"] = params
	}
	data, _ := json.Marshal(req)
	if err := c.conn.Write(c.ctx, cws.MessageText, data); err != nil {
		c.t.Fatalf("WebSocket write failed: %v", err)
	}
	for {
		msg := c.read()
		if id, ok := msg["id"]; ok && id.(float64) == float64(c.nextID) {
			return msg
		}
		c.notes = append(c.notes, msg)
	}
}

// notification returns the next push notification.
func (c *wsClient) notification() map[string]any {
	c.t.Helper()
	if len(c.notes) > 0 {
		msg := c.notes[0]
		c.notes = c.notes[1:]
		return msg
	}
	return c.read()
}

// untilComplete collects step notifications until the first
// sequence.complete and returns both.
func (c *wsClient) untilComplete() ([]map[string]any, map[string]any) {
	c.t.Helper()
	var steps []map[string]any
	for {
		msg := c.notification()
		params, _ := msg["params"].(map[string]any)
		switch msg["method"] {
		case NotifyStep:
			steps = append(steps, params)
		case NotifyComplete:
			return steps, params
		default:
			c.t.Fatalf("unexpected message %v", msg)
		}
	}
}

func fastScript(texts ...string) map[string]any {
	steps := make([]any, 0, len(texts))
	for _, text := range texts {
		steps = append(steps, map[string]any{"type": "typing", "text": text})
	}
	return map[string]any{
		"options": map[string]any{"initialDelay": 0, "typingSpeed": 1, "stepDelay": 1, "messageDisplayTime": 1, "trailingBuffer": 5},
		"steps":   steps,
	}
}

func TestWebSocketEndpoint_AuthRequired(t *testing.T) {
	wsURL, _, _ := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, resp, err := cws.Dial(ctx, wsURL, nil)
	if err == nil {
		t.Fatal("expected error for unauthorized WebSocket connection")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	_, resp, err = cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer wrong-token"}},
	})
	if err == nil {
		t.Fatal("expected error for wrong token")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebSocketEndpoint_QueryToken(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := cws.Dial(ctx, wsURL+"?token="+secret, nil)
	if err != nil {
		t.Fatalf("WebSocket dial with query token failed: %v", err)
	}
	conn.Close(cws.StatusNormalClosure, "")
}

func TestWebSocketEndpoint_GetVersion(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	resp := c.call("system.getVersion", nil)
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result, got %v", resp)
	}
	if result["version"] != "1.0.0" {
		t.Fatalf("expected version 1.0.0, got %v", result["version"])
	}
}

func TestWebSocketPlay_PushesStepsThenComplete(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	resp := c.call("sequence.play", map[string]any{
		"script":       fastScript("hi $name", "bye"),
		"replacements": map[string]any{"name": "Ada"},
	})
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result, got %v", resp)
	}
	session := result["session"].(string)
	gen := result["generation"].(float64)
	if session == "" || gen < 1 {
		t.Fatalf("unexpected play result %v", result)
	}

	steps, complete := c.untilComplete()
	if len(steps) != 2 {
		t.Fatalf("expected 2 step notifications, got %d", len(steps))
	}
	for i, p := range steps {
		if p["session"] != session || p["generation"].(float64) != gen {
			t.Fatalf("step %d has wrong scope: %v", i, p)
		}
		if idx := p["step"].(map[string]any)["index"].(float64); int(idx) != i {
			t.Fatalf("step %d arrived out of order (index %v)", i, idx)
		}
	}
	if got := steps[0]["step"].(map[string]any)["text"]; got != "hi Ada" {
		t.Fatalf("expected substituted text, got %v", got)
	}
	if complete["session"] != session || complete["generation"].(float64) != gen {
		t.Fatalf("unexpected completion %v", complete)
	}
}

func TestWebSocketPlay_Preset(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	resp := c.call("sequence.play", map[string]any{"preset": "nope"})
	if code := errorCode(t, resp); code != -32001 {
		t.Fatalf("expected -32001, got %v", code)
	}
	resp = c.call("sequence.play", map[string]any{"preset": "git", "script": fastScript("x")})
	if code := errorCode(t, resp); code != -32602 {
		t.Fatalf("expected -32602, got %v", code)
	}
	resp = c.call("sequence.play", map[string]any{"preset": "routing", "params": map[string]any{"path": "/about"}})
	tl := resultOf(t, resp)["timeline"].(map[string]any)
	if n := len(tl["steps"].([]any)); n != 8 {
		t.Fatalf("expected 8 routing steps, got %d", n)
	}
	c.call("sequence.cancel", nil)
}

func TestWebSocketPlay_SupersedesPrevious(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	slow := fastScript("never shown")
	slow["options"].(map[string]any)["initialDelay"] = 2000
	first := resultOf(t, c.call("sequence.play", map[string]any{"script": slow}))
	second := resultOf(t, c.call("sequence.play", map[string]any{"script": fastScript("shown")}))
	if second["generation"].(float64) <= first["generation"].(float64) {
		t.Fatalf("generation did not advance: %v then %v", first["generation"], second["generation"])
	}

	steps, complete := c.untilComplete()
	if complete["generation"] != second["generation"] {
		t.Fatalf("expected completion of generation %v, got %v", second["generation"], complete["generation"])
	}
	for _, p := range steps {
		if p["generation"] != second["generation"] {
			t.Fatalf("superseded generation pushed a step: %v", p)
		}
	}
}

func TestWebSocketRebind(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	script := map[string]any{
		"options":      map[string]any{"initialDelay": 300, "messageDisplayTime": 1, "trailingBuffer": 5},
		"replacements": map[string]any{"x": "before"},
		"steps":        []any{map[string]any{"type": "instant", "text": "value $x"}},
	}
	play := resultOf(t, c.call("sequence.play", map[string]any{"script": script}))
	reb := resultOf(t, c.call("sequence.rebind", map[string]any{"replacements": map[string]any{"x": "after"}}))
	if reb["generation"] != play["generation"] {
		t.Fatalf("rebind answered for generation %v, want %v", reb["generation"], play["generation"])
	}

	steps, _ := c.untilComplete()
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if got := steps[0]["step"].(map[string]any)["text"]; got != "value after" {
		t.Fatalf("expected rebound text, got %v", got)
	}
}

func TestWebSocketNoActiveSequence(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	if code := errorCode(t, c.call("sequence.cancel", nil)); code != -32002 {
		t.Fatalf("cancel: expected -32002, got %v", code)
	}
	rebind := map[string]any{"replacements": map[string]any{"x": "y"}}
	if code := errorCode(t, c.call("sequence.rebind", rebind)); code != -32002 {
		t.Fatalf("rebind: expected -32002, got %v", code)
	}
}

func TestWebSocketCancel(t *testing.T) {
	wsURL, secret, _ := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)

	slow := fastScript("never shown")
	slow["options"].(map[string]any)["initialDelay"] = 5000
	play := resultOf(t, c.call("sequence.play", map[string]any{"script": slow}))
	res := resultOf(t, c.call("sequence.cancel", nil))
	if res["generation"] != play["generation"] {
		t.Fatalf("cancel answered for generation %v, want %v", res["generation"], play["generation"])
	}

	// The scope finishes on the player goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp := c.call("sequence.cancel", nil)
		if _, failed := resp["error"]; failed {
			if code := errorCode(t, resp); code != -32002 {
				t.Fatalf("expected -32002, got %v", code)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sequence still active after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(c.notes) != 0 {
		t.Fatalf("cancelled sequence pushed %v", c.notes)
	}
}

func TestWebSocketSessionsTracked(t *testing.T) {
	wsURL, secret, s := newTestWSServer(t)
	c := dialWS(t, wsURL, secret)
	c.call("system.getVersion", nil)
	if n := s.Sessions(); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}

	c.conn.Close(cws.StatusNormalClosure, "")
	deadline := time.Now().Add(2 * time.Second)
	for s.Sessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not released, %d open", s.Sessions())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
