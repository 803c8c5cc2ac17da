package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/flashbots/flashwatch/chain"
	"github.com/flashbots/flashwatch/config"
	"github.com/flashbots/flashwatch/detector"
	"github.com/flashbots/flashwatch/logutils"
	"github.com/flashbots/flashwatch/metrics"
	"github.com/flashbots/flashwatch/types"
)

type blockScanner interface {
	Scan(ctx context.Context, blockNumber uint64) (*types.BlockReport, error)
}

type Server struct {
	cfg     *config.Config
	failure chan error
	logger  *zap.Logger

	chain   *chain.Client
	scanner blockScanner

	api     *fasthttp.Server
	metrics *http.Server
}

func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  zap.L(),
		failure: make(chan error, 16),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := chain.Dial(ctx, cfg.Eth)
	if err != nil {
		return nil, err
	}
	s.chain = c
	s.scanner = detector.New(cfg.Detector, c)

	s.api = &fasthttp.Server{
		Handler:            s.handle,
		Logger:             logutils.FasthttpLogger(s.logger),
		MaxRequestBodySize: 4 * 1024,
		Name:               "flashwatch",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       cfg.Server.ScanTimeout + 5*time.Second,
	}

	mux := http.NewServeMux()
	mux.Handle("/", promhttp.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	s.metrics = &http.Server{
		Addr:              cfg.Metrics.ListenAddress,
		Handler:           mux,
		MaxHeaderBytes:    1024,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s, nil
}

func (s *Server) Run() error {
	l := s.logger
	ctx := logutils.ContextWithLogger(context.Background(), l)

	if err := metrics.Setup(ctx); err != nil {
		return err
	}

	go func() { // run the metrics server
		l.Info("Metrics server is going up...",
			zap.String("server_listen_address", s.cfg.Metrics.ListenAddress),
		)
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.failure <- err
		}
		l.Info("Metrics server is down")
	}()

	go func() { // run the api server
		l.Info("Api server is going up...",
			zap.String("server_listen_address", s.cfg.Server.ListenAddress),
			zap.String("eth_rpc_url", s.cfg.Eth.RpcURL),
		)
		if err := s.api.ListenAndServe(s.cfg.Server.ListenAddress); err != nil {
			s.failure <- err
		}
		l.Info("Api server is down")
	}()

	errs := []error{}
	{ // wait until termination or internal failure
		terminator := make(chan os.Signal, 1)
		signal.Notify(terminator, os.Interrupt, syscall.SIGTERM)

		select {
		case stop := <-terminator:
			l.Info("Stop signal received; shutting down...",
				zap.String("signal", stop.String()),
			)
		case err := <-s.failure:
			l.Error("Internal failure; shutting down...",
				zap.Error(err),
			)
			errs = append(errs, err)
		exhaustErrors:
			for { // exhaust the errors
				select {
				case err := <-s.failure:
					l.Error("Extra internal failure",
						zap.Error(err),
					)
					errs = append(errs, err)
				default:
					break exhaustErrors
				}
			}
		}
	}

	{ // stop the api server
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.api.ShutdownWithContext(ctx); err != nil {
			l.Error("Api server shutdown failed",
				zap.Error(err),
			)
		}
	}

	{ // stop metrics server
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			l.Error("Metrics server shutdown failed",
				zap.Error(err),
			)
		}
	}

	s.chain.Close()

	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}
