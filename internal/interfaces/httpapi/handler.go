package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
	"github.com/riskibarqy/sleeper-league-viewer/internal/view"
	"github.com/unrolled/render"
)

type Handler struct {
	sessions     *view.Sessions
	render       *render.Render
	logger       *logging.Logger
	validator    *validator.Validate
	secureCookie bool
}

type HandlerConfig struct {
	Sessions     *view.Sessions
	Logger       *logging.Logger
	SecureCookie bool
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		sessions:     cfg.Sessions,
		render:       newRender(),
		logger:       logger,
		validator:    validator.New(),
		secureCookie: cfg.SecureCookie,
	}
}

type pageData struct {
	Page    view.PageView
	Refresh bool
}

type weekForm struct {
	Week string `validate:"required"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Page")
	defer span.End()

	s, ok := sessionFromContext(ctx)
	if !ok {
		writeInternalError(ctx, w)
		return
	}

	page := s.Root.View()
	if err := h.render.HTML(w, http.StatusOK, "index", pageData{Page: page, Refresh: page.Loading()}); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "session_id", s.ID, "error", err)
	}
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.State")
	defer span.End()

	s, ok := sessionFromContext(ctx)
	if !ok {
		writeInternalError(ctx, w)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, s.Root.View())
}

// SubmitLeague runs the league lookup to completion before redirecting, so
// the next page load already shows its outcome.
func (h *Handler) SubmitLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLeague")
	defer span.End()

	s, ok := sessionFromContext(ctx)
	if !ok {
		writeInternalError(ctx, w)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: parse form: %v", usecase.ErrInvalidInput, err))
		return
	}

	// Detached so a dropped connection does not cancel the lookup.
	s.Root.SubmitLeague(context.WithoutCancel(ctx), r.PostForm.Get("league_id"))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) SetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetWeek")
	defer span.End()

	s, ok := sessionFromContext(ctx)
	if !ok {
		writeInternalError(ctx, w)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: parse form: %v", usecase.ErrInvalidInput, err))
		return
	}

	form := weekForm{Week: strings.TrimSpace(r.PostForm.Get("week"))}
	if err := h.validateRequest(ctx, form); err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := strconv.Atoi(form.Week)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: week must be an integer", usecase.ErrInvalidInput))
		return
	}

	s.Root.SetWeek(week)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
