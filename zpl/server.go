// =============================================================================
// server.go - Virtual Printer
// =============================================================================
//
// `zpl serve` listens on a TCP port the way a network printer does and logs
// every command it receives. Host queries are answered with canned replies:
//
//	~HS  three STX/ETX framed status lines (an idle, ready printer)
//	~HI  model, firmware, density and memory
//
// Printers start acting on ~HS as soon as the token arrives, so responses
// are not held back until a line break.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

const (
	// defaultListenAddress is where `zpl serve` listens by default.
	defaultListenAddress = "127.0.0.1:9100"

	// virtualIdentification is the ~HI reply of the virtual printer.
	virtualIdentification = "\x02ZPLCOMMANDER,V" + version + ",8,8192KB\x03\r\n"
)

// virtualPrinter accepts raw ZPL over TCP.
type virtualPrinter struct {
	listener net.Listener
	log      *slog.Logger
	syntax   zplprotocol.Syntax

	// status is sent in reply to ~HS.
	status string

	wg     sync.WaitGroup
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	labels atomic.Int64
}

// newVirtualPrinter listens on addr.
func newVirtualPrinter(addr string, syntax zplprotocol.Syntax, log *slog.Logger) (*virtualPrinter, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &virtualPrinter{
		listener: ln,
		log:      log,
		syntax:   syntax,
		status:   zplprotocol.CannedHostStatus,
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

// Addr returns the listening address.
func (v *virtualPrinter) Addr() string {
	return v.listener.Addr().String()
}

// Labels returns how many complete labels (^XZ) have been received.
func (v *virtualPrinter) Labels() int {
	return int(v.labels.Load())
}

// GO CONCEPT: context.AfterFunc
// -----------------------------
// Accept blocks and takes no context. context.AfterFunc runs a function in
// its own goroutine once ctx is done; closing the listener there makes
// Accept return net.ErrClosed. The returned stop cancels the callback if
// Serve ends first.
// Serve accepts connections until ctx is done, then closes every open
// connection and waits for their handlers.
func (v *virtualPrinter) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { v.listener.Close() })
	defer stop()

	v.log.Info("virtual printer listening", "addr", v.Addr())
	for {
		conn, err := v.listener.Accept()
		if err != nil {
			v.closeAll()
			v.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		v.mu.Lock()
		v.conns[conn] = struct{}{}
		v.mu.Unlock()

		v.wg.Add(1)
		go v.handle(conn)
	}
}

// Close stops accepting connections.
func (v *virtualPrinter) Close() error {
	return v.listener.Close()
}

func (v *virtualPrinter) closeAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for c := range v.conns {
		c.Close()
	}
}

func (v *virtualPrinter) handle(conn net.Conn) {
	defer v.wg.Done()
	defer func() {
		v.mu.Lock()
		delete(v.conns, conn)
		v.mu.Unlock()
		conn.Close()
	}()

	log := v.log.With("remote", conn.RemoteAddr().String())
	log.Debug("connection opened")

	syntax := v.syntax
	buf := make([]byte, zplprotocol.ReadBufferSize)
	var pending string
	for {
		n, err := conn.Read(buf)
		pending += string(buf[:n])
		for {
			i := strings.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			syntax = v.process(conn, log, pending[:i+1], syntax)
			pending = pending[i+1:]
		}
		if strings.Contains(pending, zplprotocol.HostStatusRequest.Prefixed(syntax)) ||
			strings.Contains(pending, zplprotocol.HostIdentification.Prefixed(syntax)) ||
			(err != nil && pending != "") {
			syntax = v.process(conn, log, pending, syntax)
			pending = ""
		}
		if err != nil {
			log.Debug("connection closed")
			return
		}
	}
}

// process parses one chunk of program text in syntax, logs its commands
// and answers host queries. It returns the syntax in force after the chunk.
func (v *virtualPrinter) process(conn net.Conn, log *slog.Logger, chunk string, syntax zplprotocol.Syntax) zplprotocol.Syntax {
	chunk = strings.TrimRight(chunk, "\r\n")
	if chunk == "" {
		return syntax
	}
	b, err := zplprotocol.Parse(chunk, zplprotocol.ParseOptions{Syntax: syntax, Lenient: true})
	if err != nil {
		log.Warn("unparseable input", "text", chunk, "error", err)
		return syntax
	}
	props := zplprotocol.DefaultProperties()
	props.Syntax = syntax
	for _, e := range b.Entries() {
		c, ok := e.(*zplprotocol.Command)
		if !ok {
			log.Warn("unknown input", "text", e.Dump(zplprotocol.FlatRenderOptions()).Text)
			continue
		}
		d := c.Descriptor()
		log.Info("command", "name", d.Name(), "zpl", c.Render(props.Syntax))

		var reply string
		switch d {
		case zplprotocol.HostStatusRequest:
			reply = v.status
		case zplprotocol.HostIdentification:
			reply = virtualIdentification
		case zplprotocol.LabelEnd:
			v.labels.Add(1)
		}
		if reply != "" {
			if _, err := conn.Write([]byte(reply)); err != nil {
				log.Warn("reply failed", "error", err)
			}
		}
		props = c.Dump(zplprotocol.RenderOptions{Props: props}).Props
	}
	return props.Syntax
}

func cmdServe(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("serve")
	listen := fs.String("listen", defaultListenAddress, "address to listen on")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	v, err := newVirtualPrinter(*listen, a.cfg.syntax(), a.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "virtual printer on %s\n", v.Addr())
	err = v.Serve(ctx)
	a.log.Info("virtual printer stopped", "labels", v.Labels())
	return err
}
