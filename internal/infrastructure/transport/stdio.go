package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// maxMessageSize bounds a single JSON-RPC message, whether a stdio line or
// an HTTP response body.
const maxMessageSize = 16 << 20

// StdioTransport exchanges newline-delimited JSON-RPC messages with a server
// over a reader/writer pair, typically the pipes of a child process.
type StdioTransport struct {
	*rpcSession

	dial   func() (*stdioConn, error)
	keep   bool
	logger *logging.Logger

	mu   sync.Mutex
	conn *stdioConn
}

// StdioOption configures a StdioTransport.
type StdioOption func(*stdioOptions)

type stdioOptions struct {
	clientInfo shared.ServerInfo
	logger     *logging.Logger
}

// WithStdioClientInfo sets the client identity sent in initialize.
func WithStdioClientInfo(info shared.ServerInfo) StdioOption {
	return func(o *stdioOptions) {
		o.clientInfo = info
	}
}

// WithStdioLogger sets the logger.
func WithStdioLogger(logger *logging.Logger) StdioOption {
	return func(o *stdioOptions) {
		o.logger = logger
	}
}

func newStdio(dial func(*logging.Logger) (*stdioConn, error), keep bool, opts []StdioOption) *StdioTransport {
	o := &stdioOptions{}
	for _, opt := range opts {
		opt(o)
	}
	logger := logging.OrDefault(o.logger).With(logging.Fields{"transport": "stdio"})

	t := &StdioTransport{
		dial:   func() (*stdioConn, error) { return dial(logger) },
		keep:   keep,
		logger: logger,
	}
	t.rpcSession = newRPCSession(t, o.clientInfo)
	return t
}

// NewStdioTransport speaks to a server reading from r and writing to w. The
// pipes are owned by the caller and survive Disconnect.
func NewStdioTransport(r io.Reader, w io.Writer, opts ...StdioOption) *StdioTransport {
	var (
		once sync.Once
		conn *stdioConn
	)
	dial := func(logger *logging.Logger) (*stdioConn, error) {
		once.Do(func() {
			conn = newStdioConn(r, w, nil, logger)
		})
		return conn, nil
	}
	return newStdio(dial, true, opts)
}

// NewCommandTransport starts command on Connect and speaks to it over its
// stdin and stdout. Disconnect stops the process.
func NewCommandTransport(command string, args []string, opts ...StdioOption) *StdioTransport {
	dial := func(logger *logging.Logger) (*stdioConn, error) {
		cmd := exec.Command(command, args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, errors.Wrap(err, "failed to open stdin pipe")
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, errors.Wrap(err, "failed to open stdout pipe")
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, errors.Wrap(err, "failed to open stderr pipe")
		}
		if err := cmd.Start(); err != nil {
			return nil, errors.Wrapf(err, "failed to start %s", command)
		}
		logger.Info("server process started", logging.Fields{"command": command, "pid": cmd.Process.Pid})

		go func() {
			scanner := bufio.NewScanner(stderr)
			for scanner.Scan() {
				logger.Debug("server stderr", logging.Fields{"line": scanner.Text()})
			}
		}()

		stop := func() error {
			_ = stdin.Close()
			done := make(chan error, 1)
			go func() { done <- cmd.Wait() }()
			select {
			case err := <-done:
				return err
			case <-time.After(2 * time.Second):
				_ = cmd.Process.Kill()
				return <-done
			}
		}
		return newStdioConn(stdout, stdin, stop, logger), nil
	}
	return newStdio(dial, false, opts)
}

// Connect opens the connection if needed and performs the handshake.
func (t *StdioTransport) Connect(ctx context.Context) error {
	if _, err := t.current(); err != nil {
		return mcperrors.NewNetworkError("failed to open stdio connection", err)
	}
	return t.rpcSession.Connect(ctx)
}

// Disconnect forgets the handshake and, for command transports, stops the
// process. It is idempotent.
func (t *StdioTransport) Disconnect() error {
	t.reset()
	if t.keep {
		return nil
	}

	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.close()
}

func (t *StdioTransport) current() (*stdioConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil && !t.conn.closed() {
		return t.conn, nil
	}
	conn, err := t.dial()
	if err != nil {
		return nil, err
	}
	t.conn = conn
	return conn, nil
}

func (t *StdioTransport) call(ctx context.Context, method string, params, result interface{}) error {
	conn, err := t.current()
	if err != nil {
		return mcperrors.NewNetworkError("stdio connection unavailable", err)
	}
	return conn.call(ctx, method, params, result)
}

func (t *StdioTransport) notify(ctx context.Context, method string, params interface{}) error {
	conn, err := t.current()
	if err != nil {
		return mcperrors.NewNetworkError("stdio connection unavailable", err)
	}
	req, err := shared.NewRequest(nil, method, params)
	if err != nil {
		return mcperrors.NewInvalidArgumentError(err.Error(), nil)
	}
	return conn.send(req)
}

// stdioConn multiplexes requests over one reader/writer pair, matching
// responses to requests by ID.
type stdioConn struct {
	w       io.Writer
	writeMu sync.Mutex
	closeFn func() error
	logger  *logging.Logger

	mu      sync.Mutex
	pending map[string]chan shared.JSONRPCResponse
	done    chan struct{}
	err     error
}

func newStdioConn(r io.Reader, w io.Writer, closeFn func() error, logger *logging.Logger) *stdioConn {
	c := &stdioConn{
		w:       w,
		closeFn: closeFn,
		logger:  logger,
		pending: make(map[string]chan shared.JSONRPCResponse),
		done:    make(chan struct{}),
	}
	go c.readLoop(r)
	return c
}

func (c *stdioConn) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp shared.JSONRPCResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			c.logger.Warn("discarding malformed message", logging.Fields{logging.FieldError: err})
			continue
		}
		if resp.ID == nil {
			c.logger.Debug("ignoring server notification")
			continue
		}

		id := fmt.Sprint(resp.ID)
		c.mu.Lock()
		ch, ok := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("ignoring response to unknown request", logging.Fields{"id": id})
			continue
		}
		ch <- resp
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

func (c *stdioConn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *stdioConn) send(req shared.JSONRPCRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.w.Write(data); err != nil {
		return mcperrors.NewNetworkError("failed to write request", err)
	}
	return nil
}

func (c *stdioConn) call(ctx context.Context, method string, params, result interface{}) error {
	id := uuid.New().String()
	req, err := shared.NewRequest(id, method, params)
	if err != nil {
		return mcperrors.NewInvalidArgumentError(err.Error(), nil)
	}

	ch := make(chan shared.JSONRPCResponse, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	if err := c.send(req); err != nil {
		forget()
		return err
	}

	select {
	case resp := <-ch:
		return decodeResponse(&resp, result)
	case <-ctx.Done():
		forget()
		return abortError(ctx.Err())
	case <-c.done:
		forget()
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return mcperrors.NewNetworkError("stdio connection closed", err)
	}
}

func (c *stdioConn) close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}
