// Package wsbus is a WebSocket-backed busobj.Bus.
//
// It connects a process to a bus daemon over a persistent WebSocket and
// translates every registration and existence notification into one wire
// frame (lib/wire). Emissions are synchronous: a call returns once the
// frame is written, or returns the transport error unchanged - no retries.
//
//	conn, err := wsbus.Dial(ctx, "https://bus.local/endpoint",
//	    wsbus.WithLogger(logger))
//	if err != nil { ... }
//	defer conn.Close()
//
//	obj, err := busobj.New(conn, "/sensors/0", def)
package wsbus

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/buslab/busobj"
	"github.com/buslab/busobj/lib/wire"
)

const defaultWriteTimeout = 10 * time.Second

// Option configures Dial.
type Option func(*options)

type options struct {
	header       http.Header
	logger       zerolog.Logger
	writeTimeout time.Duration
}

// WithHeader sets extra HTTP headers for the WebSocket handshake (auth
// tokens, typically).
func WithHeader(h http.Header) Option {
	return func(o *options) {
		o.header = h
	}
}

// WithLogger sets the logger for emission tracing. Defaults to a no-op
// logger; the adapter logs, the busobj core never does.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWriteTimeout bounds each frame write. Defaults to 10s.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// Conn is a live bus connection. It implements busobj.Bus and is safe for
// concurrent use by every object sharing it.
type Conn struct {
	ws           *websocket.Conn
	log          zerolog.Logger
	writeTimeout time.Duration

	mu         sync.Mutex
	registered map[string]map[string]struct{} // path -> interface names
}

// Dial connects to a bus daemon. The URL scheme is derived from rawURL:
// https becomes wss, http becomes ws.
func Dial(ctx context.Context, rawURL string, opts ...Option) (*Conn, error) {
	o := &options{
		logger:       zerolog.Nop(),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	ws, _, err := websocket.Dial(ctx, wsURL(rawURL), &websocket.DialOptions{
		HTTPHeader: o.header,
	})
	if err != nil {
		return nil, fmt.Errorf("wsbus: dial %s: %w", rawURL, err)
	}

	return &Conn{
		ws:           ws,
		log:          o.logger,
		writeTimeout: o.writeTimeout,
		registered:   make(map[string]map[string]struct{}),
	}, nil
}

// Close shuts the connection down cleanly. Objects on this connection
// should be closed first so their removed notifications still go out.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}

// RegisterInterface implements busobj.Bus. Duplicate registration for the
// same (path, interface) pair is rejected locally before touching the wire.
func (c *Conn) RegisterInterface(path string, desc busobj.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registered[path][desc.Name]; ok {
		return fmt.Errorf("%w: %s at %s", busobj.ErrDuplicateInterface, desc.Name, path)
	}

	err := c.send(wire.Frame{
		Op:         wire.OpRegister,
		Path:       path,
		Interface:  desc.Name,
		Descriptor: &desc,
	})
	if err != nil {
		return err
	}

	if c.registered[path] == nil {
		c.registered[path] = make(map[string]struct{})
	}
	c.registered[path][desc.Name] = struct{}{}
	c.log.Debug().Str("path", path).Str("interface", desc.Name).Msg("interface registered")
	return nil
}

// UnregisterInterface implements busobj.Bus.
func (c *Conn) UnregisterInterface(path, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registered[path][name]; !ok {
		return fmt.Errorf("%w: %s at %s", busobj.ErrNotRegistered, name, path)
	}

	err := c.send(wire.Frame{
		Op:        wire.OpUnregister,
		Path:      path,
		Interface: name,
	})
	if err != nil {
		return err
	}

	delete(c.registered[path], name)
	c.log.Debug().Str("path", path).Str("interface", name).Msg("interface unregistered")
	return nil
}

// EmitObjectAdded implements busobj.Bus.
func (c *Conn) EmitObjectAdded(path string, interfaces []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.send(wire.Frame{
		Op:         wire.OpObjectAdded,
		Path:       path,
		Interfaces: interfaces,
	})
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("object added emission failed")
		return err
	}
	c.log.Debug().Str("path", path).Strs("interfaces", interfaces).Msg("object added")
	return nil
}

// EmitObjectRemoved implements busobj.Bus.
func (c *Conn) EmitObjectRemoved(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.send(wire.Frame{
		Op:   wire.OpObjectRemoved,
		Path: path,
	})
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("object removed emission failed")
		return err
	}
	c.log.Debug().Str("path", path).Msg("object removed")
	return nil
}

// EmitInterfaceAdded implements busobj.Bus.
func (c *Conn) EmitInterfaceAdded(path, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.send(wire.Frame{
		Op:        wire.OpInterfaceAdded,
		Path:      path,
		Interface: name,
	})
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Str("interface", name).Msg("interface added emission failed")
		return err
	}
	c.log.Debug().Str("path", path).Str("interface", name).Msg("interface added")
	return nil
}

// send marshals and writes one frame. Callers hold c.mu, which also
// serializes writers on the socket.
func (c *Conn) send(f wire.Frame) error {
	b, err := wire.Marshal(f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()

	if err := c.ws.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("wsbus: write %s frame: %w", f.Op, err)
	}
	return nil
}

// wsURL derives the WebSocket URL from an http(s) base URL.
func wsURL(u string) string {
	if strings.HasPrefix(u, "https://") {
		return "wss://" + u[len("https://"):]
	}
	if strings.HasPrefix(u, "http://") {
		return "ws://" + u[len("http://"):]
	}
	return u
}
