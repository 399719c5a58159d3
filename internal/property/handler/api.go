package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/ledger"
	"landregistry/internal/property/service"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

// HandleSession handles GET /api/session.
func (h *Handler) HandleSession(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(h.session, h.state.Busy()))
}

// HandleFeedback handles GET /api/feedback.
func (h *Handler) HandleFeedback(w http.ResponseWriter, _ *http.Request) {
	resp := FeedbackResponse{}
	if msg, ok := h.feedback.Current(); ok {
		resp.Message = &msg
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleListProperties handles GET /api/properties?view=ALL|MINE. It reads
// the index directly and leaves the page's view state alone.
func (h *Handler) HandleListProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode, err := domain.ParseViewMode(r.URL.Query().Get("view"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	records, err := h.gallery.Fetch(ctx, mode, h.account())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list properties",
			"request_id", requestcontext.RequestID(ctx),
			"mode", mode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	rows := service.ProjectAll(records, h.account(), mode)
	httputil.WriteJSON(w, http.StatusOK, PropertiesResponse{Mode: mode.String(), Count: len(rows), Rows: rows})
}

// HandleRegister handles POST /api/properties.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	receipt, err := h.register(ctx, req.Identifier)
	if err != nil {
		_, text := registerFailure(req.Identifier, err)
		h.logger.WarnContext(ctx, "property registration failed",
			"request_id", requestID,
			"property_id", req.Identifier,
			"error", err,
		)
		writeActionError(w, err, text)
		return
	}

	h.logger.InfoContext(ctx, "property registered",
		"request_id", requestID,
		"property_id", req.Identifier,
		"tx_hash", receipt.TxHash,
		"indexed", receipt.Indexed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toReceiptResponse(receipt, msgRegistered))
}

// HandleTransfer handles POST /api/properties/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	receipt, err := h.transfer(ctx, req.Identifier, req.NewOwner)
	if err != nil {
		_, text := transferFailure(err)
		h.logger.WarnContext(ctx, "property transfer failed",
			"request_id", requestID,
			"property_id", req.Identifier,
			"error", err,
		)
		writeActionError(w, err, text)
		return
	}

	h.logger.InfoContext(ctx, "property transferred",
		"request_id", requestID,
		"property_id", req.Identifier,
		"new_owner", req.NewOwner,
		"tx_hash", receipt.TxHash,
		"indexed", receipt.Indexed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toReceiptResponse(receipt, transferredMessage(req.Identifier, req.NewOwner)))
}

// HandleReconcile handles POST /api/properties/{identifier}/reconcile.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := chi.URLParam(r, "identifier")

	result, err := h.repairer.Reconcile(ctx, h.session, identifier)
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile failed",
			"request_id", requestcontext.RequestID(ctx),
			"property_id", identifier,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if result.Repaired > 0 {
		h.refresh(ctx)
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func writeActionError(w http.ResponseWriter, err error, message string) {
	code := dErrors.CodeOf(err)
	resp := ActionErrorResponse{
		Error:            string(code),
		ErrorDescription: dErrors.MessageOf(err),
		Message:          message,
	}
	var we *ledger.WriteError
	if errors.As(err, &we) {
		resp.FailureKind = string(we.Kind)
	}
	if code == dErrors.CodeInternal {
		resp.ErrorDescription = ""
	}
	httputil.WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
