package server

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/flashbots/flashwatch/logutils"
	"github.com/flashbots/flashwatch/metrics"
	"github.com/flashbots/flashwatch/utils"
)

type detectAttackRequest struct {
	BlockNumber uint64 `json:"blockNumber"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	switch utils.Str(ctx.Path()) {
	case "/detect-attack":
		if !ctx.IsPost() {
			s.respondError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleDetectAttack(ctx)

	case "/healthcheck":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")

	default:
		s.respondError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) handleDetectAttack(ctx *fasthttp.RequestCtx) {
	l := s.logger

	req := detectAttackRequest{}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	if req.BlockNumber == 0 {
		s.respondError(ctx, fasthttp.StatusBadRequest, "blockNumber is required")
		return
	}

	scanCtx, cancel := context.WithTimeout(
		logutils.ContextWithLogger(context.Background(), l),
		s.cfg.Server.ScanTimeout,
	)
	defer cancel()

	start := time.Now()
	report, err := s.scanner.Scan(scanCtx, req.BlockNumber)
	metrics.ScanDuration.Record(scanCtx, time.Since(start).Seconds())
	if err != nil {
		// the error kind stays in the logs; the response is generic so
		// that upstream details don't leak
		l.Error("Block scan failed",
			zap.Uint64("block_number", req.BlockNumber),
			zap.Error(err),
		)
		metrics.ScanFailureCount.Add(scanCtx, 1)
		s.respondError(ctx, fasthttp.StatusInternalServerError, "error detecting attack")
		return
	}
	metrics.ScanSuccessCount.Add(scanCtx, 1)

	body, err := json.Marshal(report)
	if err != nil {
		l.Error("Failed to serialize block report",
			zap.Uint64("block_number", req.BlockNumber),
			zap.Error(err),
		)
		s.respondError(ctx, fasthttp.StatusInternalServerError, "error detecting attack")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func (s *Server) respondError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		ctx.Error(message, status)
		return
	}

	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
