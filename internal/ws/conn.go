// Package ws wraps a gorilla websocket connection behind a small send/receive
// surface: a buffered send channel drained by a write pump, a blocking
// receive, and an idempotent close.
package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const sendQueueSize = 20

type Connection struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func New(conn *websocket.Conn) *Connection {
	c := &Connection{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// Send queues a text frame for delivery. It reports false when the queue is
// full or the connection is closed; the caller is expected to buffer the
// message elsewhere, not retry. Acceptance is not delivery: frames still
// queued when the connection fails go down with it.
func (c *Connection) Send(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		log.Printf("Send queue full for %s, dropping to caller", c.conn.RemoteAddr())
		return false
	}
}

// Receive blocks until the next complete text frame arrives. Fragmented
// frames are reassembled by gorilla before they surface here, reusing its
// per-connection read buffer. Closing the connection unblocks the call with
// an error.
func (c *Connection) Receive() ([]byte, error) {
	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return payload, nil
	}
}

// Close tears the connection down exactly once. Calling it again, or on a
// connection that already failed, is a no-op.
func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *Connection) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Connection) writePump() {
	defer c.Close()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Write error to %s: %v", c.conn.RemoteAddr(), err)
				return
			}
		case <-c.done:
			return
		}
	}
}
