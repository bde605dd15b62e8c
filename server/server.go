package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hellodex/otcboard/filter"
	"github.com/hellodex/otcboard/logger"
	"github.com/hellodex/otcboard/model"
	"github.com/hellodex/otcboard/queue"
	"github.com/hellodex/otcboard/store"
	"github.com/rs/zerolog"
)

// SellerSource fetches one page of online sellers.
type SellerSource interface {
	FetchOnlineSellers(ctx context.Context, params model.Params) (model.OnlineItems, error)
}

// PaymentSource fetches the payment-method catalog.
type PaymentSource interface {
	FetchPaymentCatalog(ctx context.Context) (model.PaymentCatalog, error)
}

// PageRenderer turns the eligible sellers into the response body.
type PageRenderer interface {
	RenderPage(sellers []model.Seller) (string, error)
}

type SnapshotWriter interface {
	Write(data []byte) error
}

type Options struct {
	ReadLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Workers      int
	QueueSize    int
}

type Server struct {
	opts     Options
	sellers  SellerSource
	page     PageRenderer
	snapshot SnapshotWriter
	catalog  *store.Catalog
	payments PaymentSource
	reload   sync.Mutex
	log      zerolog.Logger
}

// rejectReadWait bounds how long a rejected connection may take to send its request.
var rejectReadWait = 200 * time.Millisecond

func New(opts Options, sellers SellerSource, page PageRenderer, snapshot SnapshotWriter, log zerolog.Logger) *Server {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 9999
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Server{
		opts:     opts,
		sellers:  sellers,
		page:     page,
		snapshot: snapshot,
		log:      log.With().Str(logger.CategoryField, logger.CategoryServer).Logger(),
	}
}

// WithCatalog makes the server warn about requested payment ids the platform does not list.
func (s *Server) WithCatalog(c *store.Catalog) *Server {
	s.catalog = c
	return s
}

// LoadCatalog fetches the payment catalog into the server's catalog. src is kept and used
// again whenever the catalog goes stale, even when this first load fails.
func (s *Server) LoadCatalog(ctx context.Context, src PaymentSource) error {
	if s.catalog == nil {
		return errors.New("no catalog configured")
	}
	s.reload.Lock()
	defer s.reload.Unlock()
	s.payments = src
	return s.loadCatalog(ctx)
}

func (s *Server) loadCatalog(ctx context.Context) error {
	catalog, err := s.payments.FetchPaymentCatalog(ctx)
	if err != nil {
		return err
	}
	payments := catalog.Payments()
	s.catalog.Load(payments)
	s.log.Info().Int("payments", len(payments)).Msg("payment catalog loaded")
	return nil
}

func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Serve accepts connections until ln is closed or ctx is done. Each connection is answered
// once and closed. With one worker connections are handled strictly one at a time.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	q := queue.New(s.opts.Workers, s.opts.QueueSize, s.log)
	q.Start(ctx)
	defer q.Close()

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	s.log.Info().Str("addr", ln.Addr().String()).Int("workers", s.opts.Workers).Msg("Listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				s.log.Info().Msg("listener closed")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn().Err(err).Msg("accept timeout")
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		log := s.log.With().Str("request_id", uuid.NewString()).Logger()
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Connection from")

		if err := q.Add(func(ctx context.Context) {
			s.handle(ctx, conn, log)
		}); err != nil {
			st := q.Stats()
			log.Error().Err(err).
				Int("queued", st.Queued).
				Int64("processing", st.Processing).
				Int64("rejected", st.Rejected).
				Msg("connection rejected")
			go s.reject(conn, log)
		}
	}
}

// reject answers a connection the queue had no room for. The request is read first so the
// close does not reset a peer that is still sending.
func (s *Server) reject(conn net.Conn, log zerolog.Logger) {
	defer conn.Close()
	if err := conn.SetReadDeadline(time.Now().Add(rejectReadWait)); err == nil {
		if _, err := readRequest(conn, s.opts.ReadLimit); err != nil {
			log.Debug().Err(err).Msg("read rejected request")
		}
	}
	s.write(conn, errorResponse(), log)
}

// handle answers one connection with either the full page or the fixed error page.
func (s *Server) handle(ctx context.Context, conn net.Conn, log zerolog.Logger) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("handler panicked")
			s.write(conn, errorResponse(), log)
		}
	}()

	body, err := s.serveConn(ctx, conn, log)
	if err != nil {
		log.Error().Err(err).Msg("Unable to serve")
		s.write(conn, errorResponse(), log)
		return
	}
	s.write(conn, okResponse(body), log)
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, log zerolog.Logger) (string, error) {
	if s.opts.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
			return "", err
		}
	}

	raw, err := readRequest(conn, s.opts.ReadLimit)
	if err != nil {
		return "", fmt.Errorf("read request: %w", err)
	}
	line, err := firstLine(raw)
	if err != nil {
		return "", &ParseError{Err: err}
	}
	log.Info().Str("request_line", line).Send()

	params, err := ParseRequestLine(line)
	if err != nil {
		return "", err
	}
	return s.Render(ctx, params, log)
}

// Render runs the remote query, the eligibility filter and the page renderer for params.
func (s *Server) Render(ctx context.Context, params model.Params, log zerolog.Logger) (string, error) {
	thresholds, err := filter.ParseThresholds(params)
	if err != nil {
		return "", &ParseError{Err: err}
	}
	s.checkPayments(ctx, params, log)

	items, err := s.sellers.FetchOnlineSellers(ctx, params)
	if err != nil {
		return "", err
	}

	if err := s.snapshot.Write(items.Raw); err != nil {
		return "", err
	}

	eligible := filter.FilterEligible(items.Sellers, thresholds)
	log.Debug().Int("sellers", len(items.Sellers)).Int("eligible", len(eligible)).Msg("sellers filtered")

	return s.page.RenderPage(eligible)
}

func (s *Server) checkPayments(ctx context.Context, params model.Params, log zerolog.Logger) {
	if s.catalog == nil || !params.Has(model.ParamPayment) {
		return
	}
	s.refreshCatalog(ctx, log)
	if unknown := s.catalog.Unknown(params.List(model.ParamPayment, nil)); len(unknown) > 0 {
		log.Warn().Strs("payment", unknown).Msg("payment ids not in catalog")
	}
}

// refreshCatalog reloads a stale catalog. A failed reload keeps the old entries and
// waits a full ttl before trying again.
func (s *Server) refreshCatalog(ctx context.Context, log zerolog.Logger) {
	if !s.catalog.Stale() {
		return
	}
	s.reload.Lock()
	defer s.reload.Unlock()
	if s.payments == nil || !s.catalog.Stale() {
		return
	}
	if err := s.loadCatalog(ctx); err != nil {
		log.Warn().Err(err).Msg("payment catalog reload failed")
		s.catalog.Touch()
	}
}

func (s *Server) write(conn net.Conn, data []byte, log zerolog.Logger) {
	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if _, err := conn.Write(data); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}
