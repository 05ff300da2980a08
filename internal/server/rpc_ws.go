package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
// Each WebSocket connection gets one wsChannel that bridges read/write
// operations between the WebSocket transport and the jrpc2 server.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection.
func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// handleWS upgrades the request and serves a push-enabled jrpc2 server
// on it until the client goes away. Every connection gets its own
// session and player.
func (rs *RPCServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		// Browsers connect from the page origin; the bearer token is the
		// access control.
		InsecureSkipVerify: true,
	})
	if err != nil {
		rs.log.Warning("websocket accept failed: %v", err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := newSession(ctx, rs)
	rs.sessions.register(sess)
	defer rs.sessions.unregister(sess)

	srv := jrpc2.NewServer(sess.methods(), &jrpc2.ServerOptions{AllowPush: true})
	sess.bind(srv)
	srv.Start(&wsChannel{conn: conn, ctx: ctx})
	rs.log.Info("session %s opened", sess.id)
	if err := srv.Wait(); err != nil {
		rs.log.Info("session %s closed: %v", sess.id, err)
	} else {
		rs.log.Info("session %s closed", sess.id)
	}
	sess.close()
}
