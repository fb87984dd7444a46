package gateway

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kbvcri/internal/kbv/metrics"
	"kbvcri/internal/kbv/models"
)

// Transport performs the blocking provider round-trips. It carries no
// mapping logic; the Gateway shapes traffic on both sides of the call.
type Transport interface {
	SAA(ctx context.Context, req *SAARequest) (*ProviderResponse, error)
	RTQ(ctx context.Context, req *RTQRequest) (*ProviderResponse, error)
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger configures a logger for the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithMetrics configures the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// Gateway drives the two provider operations through an injected transport.
type Gateway struct {
	transport Transport
	mapper    *Mapper
	tracer    trace.Tracer
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New constructs a Gateway over the given transport and mapper.
func New(transport Transport, mapper *Mapper, opts ...Option) *Gateway {
	g := &Gateway{
		transport: transport,
		mapper:    mapper,
		tracer:    otel.Tracer("kbvcri/internal/kbv/gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetQuestions performs the start-authentication operation for a session's
// first contact and returns the normalized result.
func (g *Gateway) GetQuestions(ctx context.Context, req models.QuestionRequest) (*models.QuestionsResponse, error) {
	ctx, span := g.tracer.Start(ctx, "kbv.provider.saa")
	defer span.End()

	start := time.Now()
	raw, err := g.transport.SAA(ctx, g.mapper.BuildStartRequest(req))
	g.metrics.ObserveProviderLatency("saa", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := g.mapper.ParseResponse(raw)
	g.observe(ctx, "saa", resp)
	return resp, nil
}

// SubmitAnswers performs the respond-to-questions operation for a fully
// answered batch and returns the normalized result.
func (g *Gateway) SubmitAnswers(ctx context.Context, req models.QuestionAnswerRequest) (*models.QuestionsResponse, error) {
	ctx, span := g.tracer.Start(ctx, "kbv.provider.rtq")
	defer span.End()

	start := time.Now()
	raw, err := g.transport.RTQ(ctx, g.mapper.BuildAnswerRequest(req))
	g.metrics.ObserveProviderLatency("rtq", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := g.mapper.ParseResponse(raw)
	g.observe(ctx, "rtq", resp)
	return resp, nil
}

func (g *Gateway) observe(ctx context.Context, operation string, resp *models.QuestionsResponse) {
	if resp.Results != nil {
		g.metrics.IncrementProviderResult(operation, resp.Results.AuthenticationResult)
		if g.logger != nil {
			g.logger.InfoContext(ctx, "provider results received",
				"operation", operation,
				"outcome", resp.Results.Outcome,
				"authentication_result", resp.Results.AuthenticationResult,
			)
		}
	}
	if resp.Error != nil {
		g.metrics.IncrementProviderError(operation, resp.Error.Code)
		if g.logger != nil {
			g.logger.WarnContext(ctx, "provider returned structured error",
				"operation", operation,
				"code", resp.Error.Code,
			)
		}
	}
}
