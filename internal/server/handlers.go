package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/quickfib/internal/calculator"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/logging"
	memmetrics "github.com/agbru/quickfib/internal/metrics"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/sysmon"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FibResponse is the body of a successful /fib request.
type FibResponse struct {
	N          uint64 `json:"n"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	Overflowed bool   `json:"overflowed"`
	Duration   string `json:"duration"`
}

// RangeValue is one element of a RangeResponse.
type RangeValue struct {
	N          uint64 `json:"n"`
	Value      string `json:"value"`
	Overflowed bool   `json:"overflowed"`
}

// RangeResponse is the body of a successful /range request.
type RangeResponse struct {
	Type     string       `json:"type"`
	From     uint64       `json:"from"`
	To       uint64       `json:"to"`
	Values   []RangeValue `json:"values"`
	Duration string       `json:"duration"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	Goroutines    int     `json:"goroutines"`
	HeapAlloc     uint64  `json:"heap_alloc"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Backends      int     `json:"backends"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleFib(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	n, err := s.parseIndex(q, "n")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	calc, err := s.backend(q.Get("type"))
	if err == nil {
		err = s.checkUnbounded(calc, n)
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.calculationContext(r.Context())
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "fibonacci.calculate", trace.WithAttributes(
		attribute.String("fib.type", calc.Name()),
		attribute.Int64("fib.n", int64(n)),
	))
	defer span.End()

	start := time.Now()
	res, err := calc.Calculate(ctx, nil, 0, n)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.As(err, new(apperrors.OverflowError)) {
			s.metrics.ObserveCalculation(calc.Name(), duration, true)
		}
		s.writeCalculationError(w, r, err)
		return
	}
	span.SetAttributes(attribute.Bool("fib.overflowed", res.Overflowed))
	s.metrics.ObserveCalculation(calc.Name(), duration, res.Overflowed)

	s.writeJSON(w, http.StatusOK, FibResponse{
		N:          n,
		Type:       calc.Name(),
		Value:      res.Value.String(),
		Overflowed: res.Overflowed,
		Duration:   duration.String(),
	})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	from, err := s.parseIndex(q, "from")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := s.parseIndex(q, "to")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if from <= to && to-from >= MaxRangeLength {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("range too long: at most %d indices", MaxRangeLength))
		return
	}
	calc, err := s.backend(q.Get("type"))
	if err == nil {
		err = s.checkUnbounded(calc, max(from, to))
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.calculationContext(r.Context())
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "fibonacci.range", trace.WithAttributes(
		attribute.String("fib.type", calc.Name()),
		attribute.Int64("fib.from", int64(from)),
		attribute.Int64("fib.to", int64(to)),
	))
	defer span.End()

	start := time.Now()
	entries, err := orchestration.ExecuteRange(ctx, calc, from, to, orchestration.NullProgressReporter{}, io.Discard)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.writeCalculationError(w, r, err)
		return
	}

	values := make([]RangeValue, len(entries))
	wrapped := false
	for i, e := range entries {
		values[i] = RangeValue{N: e.N, Value: e.Value.String(), Overflowed: e.Overflowed}
		wrapped = wrapped || e.Overflowed
	}
	s.metrics.ObserveCalculation(calc.Name(), duration, wrapped)

	s.writeJSON(w, http.StatusOK, RangeResponse{
		Type:     calc.Name(),
		From:     from,
		To:       to,
		Values:   values,
		Duration: duration.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats := sysmon.Sample()
	mem := memmetrics.NewMemoryCollector().Snapshot()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     mem.HeapAlloc,
		CPUPercent:    stats.CPUPercent,
		MemoryPercent: stats.MemPercent,
		Backends:      len(s.factory.List()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// parseIndex reads a required unsigned index bounded by MaxNValue.
func (s *Server) parseIndex(q url.Values, key string) (uint64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter %q: must be a non-negative integer", key)
	}
	if maxN := s.cfg.Security.MaxNValue; maxN > 0 && v > maxN {
		return 0, fmt.Errorf("parameter %q exceeds the maximum of %d", key, maxN)
	}
	return v, nil
}

func (s *Server) backend(name string) (calculator.Calculator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultType
	}
	calc, err := s.factory.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown type %q (available: %s)", name, strings.Join(s.factory.List(), ", "))
	}
	return calc, nil
}

// checkUnbounded applies MaxUnboundedNValue to arbitrary-precision backends.
func (s *Server) checkUnbounded(calc calculator.Calculator, n uint64) error {
	limit := s.cfg.Security.MaxUnboundedNValue
	if limit == 0 || calc.MaxIndex() != calculator.Unbounded || n <= limit {
		return nil
	}
	return fmt.Errorf("index %d exceeds the maximum of %d for the %s backend", n, limit, calc.Name())
}

func (s *Server) calculationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(parent, s.cfg.RequestTimeout)
	}
	return context.WithCancel(parent)
}

// writeCalculationError maps calculation failures to HTTP statuses.
func (s *Server) writeCalculationError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation apperrors.ValidationError
		overflow   apperrors.OverflowError
	)
	switch {
	case errors.As(err, &validation):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &overflow):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, r, http.StatusGatewayTimeout, "calculation timed out")
	case errors.Is(err, context.Canceled):
		s.writeError(w, r, http.StatusServiceUnavailable, "calculation canceled")
	default:
		if s.logger != nil {
			s.logger.Error("calculation failed", err, logging.String("request_id", RequestID(r.Context())))
		}
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if s.logger != nil {
		s.logger.Debug("request rejected", logging.Int("status", status), logging.String("reason", msg))
	}
	s.writeJSON(w, status, ErrorResponse{Error: msg, RequestID: RequestID(r.Context())})
}
