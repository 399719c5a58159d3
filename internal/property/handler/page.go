package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"landregistry/internal/ledger"
	"landregistry/internal/property/models"
	"landregistry/internal/property/service"
	"landregistry/internal/property/view"
	"landregistry/pkg/domain"
	"landregistry/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Ready        bool
	Account      string
	AccountShort string
	Balance      string
	Contract     string
	Banner       *view.Message
	BannerTTLms  int64
	Mode         string
	Mine         bool
	Rows         []models.DisplayRow
	Count        int
	Busy         bool
	Pending      view.Pending
}

// HandlePage renders the registry page for the current view mode.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticket := h.state.BeginFetch()
	mode := ticket.Mode
	records, ok := h.fetch(ctx, ticket)
	if !ok {
		mode, records = h.state.Snapshot()
	}

	data := pageData{
		Ready:       h.session.Ready(),
		Mode:        mode.String(),
		Mine:        mode == domain.ViewMine,
		Rows:        service.ProjectAll(records, h.account(), mode),
		Busy:        h.state.Busy(),
		Pending:     h.state.Pending(),
		BannerTTLms: h.feedback.TTL().Milliseconds(),
	}
	data.Count = len(data.Rows)
	if h.session != nil {
		data.Account = h.session.Account.String()
		data.AccountShort = service.TruncateAddress(data.Account)
		data.Balance = ledger.FormatEther(h.session.Balance)
		if c, ok := h.session.Contract.(interface{ Address() common.Address }); ok {
			data.Contract = c.Address().Hex()
		}
	}
	if msg, ok := h.feedback.Current(); ok {
		data.Banner = &msg
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// HandleRegisterForm handles POST /register from the page form.
func (h *Handler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.feedback.Error(msgInputRequired)
		redirectHome(w, r)
		return
	}
	_, err := h.register(r.Context(), r.PostFormValue("property_id"))
	if errors.Is(err, errBusy) {
		h.feedback.Info(msgActionInProgress)
	}
	redirectHome(w, r)
}

// HandleTransferForm handles POST /transfer from the page form.
func (h *Handler) HandleTransferForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.feedback.Error(msgFieldsRequired)
		redirectHome(w, r)
		return
	}
	_, err := h.transfer(r.Context(), r.PostFormValue("property_id"), r.PostFormValue("new_owner"))
	if errors.Is(err, errBusy) {
		h.feedback.Info(msgActionInProgress)
	}
	redirectHome(w, r)
}

// HandleViewForm switches between the global registry and the portfolio.
func (h *Handler) HandleViewForm(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mode, err := domain.ParseViewMode(r.PostFormValue("view"))
	if err != nil {
		mode = domain.ViewAll
	}
	h.fetch(r.Context(), h.state.SetMode(mode))
	redirectHome(w, r)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
