package rline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rohanthewiz/rline/consts"
	"github.com/rohanthewiz/serr"
)

// Server accepts connections, reads one request line from each,
// routes it and closes the connection when the response is complete.
type Server struct {
	*Router
	options      ServerOptions
	logger       *log.Logger
	errorHandler func(*Request, *Response, error)
}

// NewServer creates a new server.
func NewServer(options ...ServerOptions) *Server {
	var opts ServerOptions
	if len(options) > 0 {
		opts = options[0]
	}
	opts = opts.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(os.Stderr, opts.LogLevel)
	}

	s := &Server{
		Router:  NewRouter(RouterOptions{Logger: logger}),
		options: opts,
		logger:  logger,
	}
	s.errorHandler = s.defaultErrorHandler

	if opts.StaticDir != "" {
		if err := s.Use(StaticFiles(opts.StaticPrefix, opts.StaticDir, 0)); err != nil {
			logger.Error("unable to register static files", "err", err)
		}
	}
	if opts.DiagnosticsPath != "" {
		if err := s.Get(opts.DiagnosticsPath, s.RouteIndex); err != nil {
			logger.Error("unable to register diagnostics", "err", err)
		}
	}

	return s
}

// Options returns the effective server options.
func (s *Server) Options() ServerOptions {
	return s.options
}

// Logger returns the server logger.
func (s *Server) Logger() *log.Logger {
	return s.logger
}

// SetErrorHandler replaces the handler for errors left unhandled by the routes.
func (s *Server) SetErrorHandler(fn func(*Request, *Response, error)) {
	if fn != nil {
		s.errorHandler = fn
	}
}

// StaticFiles serves files under targetDir for selectors starting with reqDir.
// nbrOfTokensToStrip removes leading path segments when mapping to file paths.
func (s *Server) StaticFiles(reqDir string, targetDir string, nbrOfTokensToStrip int) error {
	return s.Use(StaticFiles(reqDir, targetDir, nbrOfTokensToStrip))
}

// Request performs a synthetic request and returns the response.
// The response is kept in memory, which is handy in tests.
func (s *Server) Request(line string) *Response {
	res := NewResponse(nil)
	s.serve(context.Background(), line, "synthetic", res)
	return res
}

// RunOpts are per-run settings for Run.
type RunOpts struct {
	// StatusChan is signalled when the server is about to enter its accept loop.
	// It should be buffered (cap 1 is all that is needed) so the server does not hang.
	StatusChan chan struct{}
}

// Run listens on the configured address and serves until ctx is done
// or the process receives SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context, runOpts ...RunOpts) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen(consts.ProtocolTCP, s.options.Address)
	if err != nil {
		return serr.Wrap(err, "unable to listen", "address", s.options.Address)
	}

	if len(runOpts) > 0 && runOpts[0].StatusChan != nil {
		runOpts[0].StatusChan <- struct{}{}
	}

	if s.options.Verbose {
		s.logger.Info("server is running", "address", listener.Addr().String())
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done.
// The listener is closed on return; in-flight connections are waited for.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	var wg sync.WaitGroup
	served := make(chan struct{})

	defer func() {
		close(served)
		_ = listener.Close()
		wg.Wait()
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = listener.Close()
		case <-served:
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", "err", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection reads the request line and serves it.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if s.options.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.options.ReadTimeout))
	}

	res := NewResponse(conn)
	reader := bufio.NewReaderSize(conn, s.options.MaxLineLength+len(consts.CRLF))

	line, err := readLine(reader, s.options.MaxLineLength)
	if err != nil {
		if errors.Is(err, errLineTooLong) {
			res.writeFinal(consts.ErrorLinePrefix + consts.MsgLineTooLong + consts.CRLF)
			_ = res.flush()
			lingerClose(conn, reader, s.options.MaxLineLength)
		}
		s.logger.Debug("unable to read request line", "remote", conn.RemoteAddr().String(), "err", err)
		return
	}

	s.serve(ctx, line, conn.RemoteAddr().String(), res)
}

// lingerClose half-closes conn and drains what the client is still sending,
// so the error line is not lost to a reset.
func lingerClose(conn net.Conn, r io.Reader, limit int) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, int64(limit)*4))
}

var errLineTooLong = errors.New(consts.MsgLineTooLong)

// readLine reads up to and including the first newline.
// A final line without a newline is accepted.
// The line, without its LF or CRLF terminator, must not exceed maxLen bytes.
func readLine(r *bufio.Reader, maxLen int) (string, error) {
	b, err := r.ReadSlice(consts.RuneNewLine)
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", errLineTooLong
		}
		if !errors.Is(err, io.EOF) || len(b) == 0 {
			return "", err
		}
	}

	if len(bytes.TrimSuffix(bytes.TrimSuffix(b, []byte{consts.RuneNewLine}), []byte{consts.RuneCarriageRet})) > maxLen {
		return "", errLineTooLong
	}
	return string(b), nil
}

// serve routes one request line and waits until the router is done,
// the response has ended, or the handler timeout expires.
func (s *Server) serve(ctx context.Context, line string, remote string, res *Response) {
	ctx, cancel := context.WithTimeout(ctx, s.options.HandlerTimeout)
	defer cancel()

	req := NewRequest(ctx, line)
	req.remoteAddr = remote

	finished := make(chan Outcome, 1)
	s.Handle(req, res, func(o Outcome) {
		finished <- o
	})

	select {
	case o := <-finished:
		s.complete(req, res, o)
	case <-res.Done():
	case <-ctx.Done():
		s.logger.Warn("request did not complete", "path", req.Path(), "id", req.ID(), "err", ctx.Err())
		if res.Written() == 0 {
			res.writeFinal(consts.ErrorLinePrefix + consts.MsgTimeout + consts.CRLF)
		}
	}

	res.End()
	if err := res.flush(); err != nil {
		s.logger.Debug("unable to flush response", "path", req.Path(), "id", req.ID(), "err", err)
	}
}

// complete handles the final routing outcome.
func (s *Server) complete(req *Request, res *Response, o Outcome) {
	if err := o.Err(); err != nil {
		s.errorHandler(req, res, err)
		return
	}

	if !res.Ended() && res.Written() == 0 {
		res.writeFinal(consts.ErrorLinePrefix + consts.MsgNotFound + consts.CRLF)
	}
}

func (s *Server) defaultErrorHandler(req *Request, res *Response, err error) {
	s.logger.Error("request failed", "path", req.Path(), "id", req.ID(), "err", err)

	if res.Ended() || res.Written() > 0 {
		return
	}

	msg := err.Error()
	var pe *PanicError
	if errors.As(err, &pe) {
		msg = consts.MsgServerError
	}
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)

	res.writeFinal(consts.ErrorLinePrefix + msg + consts.CRLF)
}
