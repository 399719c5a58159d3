package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/property/models"
	"landregistry/internal/property/service"
	"landregistry/internal/property/view"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
)

// Registry performs ledger writes and mirrors them into the index.
type Registry interface {
	Register(ctx context.Context, sess *models.Session, identifier string) (*models.Receipt, error)
	Transfer(ctx context.Context, sess *models.Session, identifier, newOwner string) (*models.Receipt, error)
}

// Gallery reads index records for a view mode.
type Gallery interface {
	Fetch(ctx context.Context, mode domain.ViewMode, account domain.Address) ([]*models.Record, error)
}

// Repairer realigns index owners with the ledger.
type Repairer interface {
	Reconcile(ctx context.Context, sess *models.Session, identifier string) (*service.ReconcileResult, error)
}

var errBusy = dErrors.New(dErrors.CodeConflict, "another action is in progress")

// Handler serves the registry page and its JSON API for one session.
// A nil session means the ledger connector failed; every write is then
// refused as not ready.
type Handler struct {
	registry Registry
	gallery  Gallery
	repairer Repairer
	session  *models.Session
	state    *view.State
	feedback *view.Feedback
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs a property handler with its dependencies.
func New(
	registry Registry,
	gallery Gallery,
	repairer Repairer,
	session *models.Session,
	state *view.State,
	feedback *view.Feedback,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		registry: registry,
		gallery:  gallery,
		repairer: repairer,
		session:  session,
		state:    state,
		feedback: feedback,
		logger:   logger,
		metrics:  m,
	}
}

// Register mounts the page, form actions and API routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandlePage)
	r.Post("/register", h.HandleRegisterForm)
	r.Post("/transfer", h.HandleTransferForm)
	r.Post("/view", h.HandleViewForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.HandleSession)
		r.Get("/feedback", h.HandleFeedback)
		r.Get("/properties", h.HandleListProperties)
		r.Post("/properties", h.HandleRegister)
		r.Post("/properties/transfer", h.HandleTransfer)
		r.Post("/properties/{identifier}/reconcile", h.HandleReconcile)
	})
}

func (h *Handler) account() domain.Address {
	if h.session == nil {
		return ""
	}
	return h.session.Account
}

// register runs one registration under the in-flight flag and sets the banner.
func (h *Handler) register(ctx context.Context, identifier string) (*models.Receipt, error) {
	if !h.state.TryBegin() {
		return nil, errBusy
	}
	defer h.state.End()

	h.feedback.Clear()
	h.state.SetPendingRegister(identifier)
	receipt, err := h.registry.Register(ctx, h.session, identifier)
	if err != nil {
		kind, text := registerFailure(identifier, err)
		h.feedback.Set(kind, text)
		return nil, err
	}
	h.state.SetPendingRegister("")
	h.feedback.Success(msgRegistered)
	h.refresh(ctx)
	return receipt, nil
}

// transfer runs one transfer under the in-flight flag and sets the banner.
func (h *Handler) transfer(ctx context.Context, identifier, newOwner string) (*models.Receipt, error) {
	if !h.state.TryBegin() {
		return nil, errBusy
	}
	defer h.state.End()

	h.feedback.Clear()
	h.state.SetPendingTransfer(identifier, newOwner)
	h.feedback.Info(msgSigning)
	receipt, err := h.registry.Transfer(ctx, h.session, identifier, newOwner)
	if err != nil {
		kind, text := transferFailure(err)
		h.feedback.Set(kind, text)
		return nil, err
	}
	h.state.SetPendingTransfer("", "")
	h.feedback.Success(transferredMessage(identifier, newOwner))
	h.refresh(ctx)
	return receipt, nil
}

// refresh re-reads the index for the current mode. The result is committed
// unless the mode was switched meanwhile.
func (h *Handler) refresh(ctx context.Context) {
	h.fetch(ctx, h.state.BeginFetch())
}

// fetch reads the index for ticket and commits the result. It returns the
// records and true when they belong to the mode still selected.
func (h *Handler) fetch(ctx context.Context, ticket view.Ticket) ([]*models.Record, bool) {
	records, err := h.gallery.Fetch(ctx, ticket.Mode, h.account())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch properties", "mode", ticket.Mode, "error", err)
		return nil, false
	}
	if !h.state.Commit(ticket, records) {
		h.logger.DebugContext(ctx, "discarded fetch for a replaced view", "mode", ticket.Mode)
		return nil, false
	}
	return records, true
}
