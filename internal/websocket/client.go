package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one browser tab of a signed-in user. Pages only listen, so
// anything the browser sends is discarded.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	userID int64
	send   chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Run serves the connection until the peer goes away, ctx ends or the hub
// drops the client.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// CloseRead consumes inbound frames and cancels ctx once the peer closes.
	ctx = c.conn.CloseRead(ctx)

	if err := c.deliver(ctx); err != nil {
		c.conn.Close(ws.StatusInternalError, "")
		return
	}
	c.conn.Close(ws.StatusNormalClosure, "")
}

// deliver forwards hub messages and keeps the link alive with pings. A nil
// return means the hub closed send.
func (c *Client) deliver(ctx context.Context) error {
	keepalive := time.NewTicker(pingInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, open := <-c.send:
			if !open {
				return nil
			}
			if err := c.write(ctx, msg); err != nil {
				return err
			}
		case <-keepalive.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(wctx, ws.MessageText, msg)
}
