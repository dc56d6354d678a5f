package quote

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ryokan-quote/internal/common"
)

// Handler exposes the quote endpoints.
type Handler struct {
	service       *Service
	validate      *validator.Validate
	render        Renderer
	maxExtraItems int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service       *Service
	Validator     *validator.Validate
	Renderer      Renderer
	MaxExtraItems int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = NewValidator()
	}
	return &Handler{
		service:       cfg.Service,
		validate:      v,
		render:        cfg.Renderer,
		maxExtraItems: cfg.MaxExtraItems,
	}
}

// Routes mounts the quote endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/defaults", h.Defaults)
	r.Get("/policy", h.Policy)
}

// Create handles POST /api/v1/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "quote service not configured", nil)
		return
	}
	var payload Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("quote payload rejected")
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		common.WriteError(w, common.NewAppError(common.CodeValidationFailed, "invalid quote request", http.StatusUnprocessableEntity, err).
			WithDetails(validationDetails(err)))
		return
	}
	if h.maxExtraItems > 0 && payload.ExtraItems() > h.maxExtraItems {
		common.WriteError(w, common.NewAppError(common.CodeTooManyItems,
			fmt.Sprintf("at most %d extra items per quote", h.maxExtraItems), http.StatusUnprocessableEntity, nil).
			WithDetails(map[string]int{"max": h.maxExtraItems, "got": payload.ExtraItems()}))
		return
	}

	q := h.service.Quote(r.Context(), payload.ToPricing())
	common.Data(w, http.StatusOK, h.render.Response(q, h.service.Policy))
}

// Defaults handles GET /api/v1/quotes/defaults.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, DefaultRequest())
}

// Policy handles GET /api/v1/quotes/policy.
func (h *Handler) Policy(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "quote service not configured", nil)
		return
	}
	common.Data(w, http.StatusOK, PolicyResponse{
		MealsDiscountable: h.service.Policy.MealsDiscountable,
		ExtraDiscounts:    h.service.Policy.ExtraDiscounts,
		MaxExtraItems:     h.maxExtraItems,
		CurrencySymbol:    h.render.symbol(),
	})
}
