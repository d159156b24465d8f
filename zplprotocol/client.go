package zplprotocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dialer opens connections for a Client. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client sends programs to a network printer over raw TCP (port 9100 by
// default).
//
// By default the client connects for every send and disconnects when the
// send is done, which is what most printers expect. WithKeepOpen keeps one
// connection across sends.
//
// Thread Safety:
// The client uses a mutex to protect its state and is safe for concurrent
// use from multiple goroutines. Sends are serialized.
type Client struct {
	mu sync.Mutex

	address string
	conn    net.Conn

	connectTimeout  time.Duration
	responseTimeout time.Duration
	bufferSize      int
	keepOpen        bool

	dialer Dialer
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithConnectTimeout bounds how long a connect may take.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.connectTimeout = d }
}

// WithResponseTimeout sets how long to wait for more response data. The
// printer does not mark the end of a reply, so every read that wants a
// response lasts until the printer closes or this much time passes.
func WithResponseTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.responseTimeout = d }
}

// WithReadBufferSize sets the size of each socket read.
func WithReadBufferSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithKeepOpen keeps the connection open between sends.
func WithKeepOpen(keep bool) ClientOption {
	return func(c *Client) { c.keepOpen = keep }
}

// WithDialer replaces the dialer.
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) { c.dialer = d }
}

// WithLogger sets the logger for connection events. The default discards.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for address ("host" or "host:port").
func NewClient(address string, opts ...ClientOption) *Client {
	c := &Client{
		address:         withDefaultPort(address),
		connectTimeout:  ConnectionTimeout,
		responseTimeout: ResponseTimeout,
		bufferSize:      ReadBufferSize,
		dialer:          &net.Dialer{},
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func withDefaultPort(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, strconv.Itoa(DefaultPort))
}

// Address returns the printer address with its port.
func (c *Client) Address() string {
	return c.address
}

// IsConnected returns true if a connection is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect opens the connection. Sends connect on their own when needed,
// so Connect is only useful together with WithKeepOpen.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return ErrAlreadyConnected
	}
	return c.connectLocked(ctx, c.logger)
}

func (c *Client) connectLocked(ctx context.Context, log *slog.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, err := c.dialer.DialContext(connectCtx, "tcp", c.address)
	if err != nil {
		log.Debug("connect failed", "addr", c.address, "error", err)
		return NewConnectionError("failed to connect to "+c.address, err)
	}
	log.Debug("connected", "addr", c.address)
	c.conn = conn
	return nil
}

// Disconnect closes the connection, if any.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectLocked()
}

func (c *Client) disconnectLocked() {
	if c.conn == nil {
		return
	}
	c.conn.Close()
	c.conn = nil
}

// Send implements Sender.
func (c *Client) Send(ctx context.Context, payload []byte, wantResponse bool) (string, error) {
	resp, err := c.SendBatch(ctx, [][]byte{payload}, wantResponse)
	if err != nil || !wantResponse {
		return "", err
	}
	return resp[0], nil
}

// SendBatch implements BatchSender. All payloads go over one connection.
func (c *Client) SendBatch(ctx context.Context, payloads [][]byte, wantResponse bool) ([]string, error) {
	log := c.logger.With("job", uuid.NewString(), "printer", c.address)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(ctx, log); err != nil {
			return nil, err
		}
	}
	if !c.keepOpen {
		defer c.disconnectLocked()
	}

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	var responses []string
	for i, p := range payloads {
		if err := c.write(ctx, conn, p); err != nil {
			log.Warn("send failed", "payload", i, "error", err)
			c.disconnectLocked()
			return responses, err
		}
		log.Debug("sent", "payload", i, "bytes", len(p))
		if !wantResponse {
			continue
		}
		resp, err := c.read(ctx, conn)
		if err != nil {
			log.Warn("receive failed", "payload", i, "error", err)
			if !errors.Is(err, ErrTimeout) {
				c.disconnectLocked()
			}
			return responses, err
		}
		log.Debug("received", "payload", i, "bytes", len(resp))
		responses = append(responses, resp)
	}
	return responses, nil
}

func (c *Client) write(ctx context.Context, conn net.Conn, payload []byte) error {
	deadline, _ := ctx.Deadline()
	conn.SetWriteDeadline(deadline)
	if _, err := conn.Write(payload); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return NewConnectionError("failed to send", ctxErr)
		}
		return NewConnectionError("failed to send", err)
	}
	return nil
}

// read collects response data until the printer closes the connection or
// no data arrives before the response deadline. A deadline with nothing
// received is ErrTimeout.
func (c *Client) read(ctx context.Context, conn net.Conn) (string, error) {
	deadline := time.Now().Add(c.responseTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetReadDeadline(deadline)
	defer conn.SetReadDeadline(time.Time{})

	var out bytes.Buffer
	buf := make([]byte, c.bufferSize)
	for {
		n, err := conn.Read(buf)
		out.Write(buf[:n])
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			if ctx.Err() != nil && out.Len() == 0 {
				return "", NewConnectionError("failed to receive", ctx.Err())
			}
			if out.Len() == 0 {
				return "", ErrTimeout
			}
			break
		}
		return out.String(), NewConnectionError("failed to receive", err)
	}
	return out.String(), nil
}

// HostStatus sends ~HS and decodes the reply.
func (c *Client) HostStatus(ctx context.Context) (*HostStatus, error) {
	resp, err := c.Send(ctx, []byte(HostStatusRequest.String()), true)
	if err != nil {
		return nil, err
	}
	return ParseHostStatus(resp)
}
