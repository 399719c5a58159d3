// Package service holds the land-registry use cases: the Coordinator issues
// ledger writes and mirrors them into the index, the Projector builds the
// gallery, and the Reconciler repairs index drift from the ledger.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Index,AuditPublisher
//go:generate mockgen -destination=mocks/contract.go -package=mocks landregistry/internal/property/models Contract

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"landregistry/internal/audit"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
	"landregistry/pkg/requestcontext"
)

// Index is the off-chain property index. It does not enforce identifier
// uniqueness and may lag the ledger.
type Index interface {
	Insert(ctx context.Context, rec *models.Record) (string, error)
	ListByCreatedDesc(ctx context.Context) ([]*models.Record, error)
	ListByCreator(ctx context.Context, creator domain.Address) ([]*models.Record, error)
	FindByIdentifier(ctx context.Context, id domain.PropertyID) ([]*models.Record, error)
	Update(ctx context.Context, recordID string, patch models.Patch) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

const tracerName = "landregistry/property"

// deps are the ambient collaborators shared by every service in the package.
type deps struct {
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*deps)

func WithLogger(logger *slog.Logger) Option {
	return func(d *deps) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(d *deps) {
		d.auditPublisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *deps) {
		d.tracer = tracer
	}
}

func newDeps(opts []Option) deps {
	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(tracerName)
	}
	return d
}

// emit forwards an audit event to the publisher, whose store owns the audit
// log line. Publisher failures never fail the action.
func (d *deps) emit(ctx context.Context, event audit.Event) {
	if d.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := d.auditPublisher.Emit(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "failed to publish audit event", "action", event.Action, "error", err)
	}
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
