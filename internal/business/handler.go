package business

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Handler wires business-profile endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a business-profile handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers profile routes. The address segments keep the wire
// names of the replaced system, businese_address included.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.fetchAll)
	r.Get("/search", h.search)
	r.Post("/", h.create)
	r.Get("/{id}", h.fetchOne)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	r.Post("/{id}/businese_address", h.addAddress(AddressKindBusiness))
	r.Put("/{id}/businese_address/{address_id}", h.updateAddress(AddressKindBusiness))
	r.Delete("/{id}/businese_address/{address_id}", h.removeAddress(AddressKindBusiness))
	r.Post("/{id}/shipping_address", h.addAddress(AddressKindShipping))
	r.Put("/{id}/shipping_address/{address_id}", h.updateAddress(AddressKindShipping))
	r.Delete("/{id}/shipping_address/{address_id}", h.removeAddress(AddressKindShipping))
}

func (h *Handler) fetchAll(w http.ResponseWriter, r *http.Request) {
	q := shared.ParseListQuery(r).Normalize("name")
	items, total, err := h.service.FetchAll(r.Context(), q)
	if err != nil {
		h.logger.Error("fetch business profiles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Paginated(w, q.Page, q.PerPage, total, ToResponses(items))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "search query is required")
		return
	}
	q := shared.ParseListQuery(r).Normalize("name")
	items, total, err := h.service.Search(r.Context(), text, q)
	if err != nil {
		h.logger.Error("search business profiles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Paginated(w, q.Page, q.PerPage, total, ToResponses(items))
}

func (h *Handler) fetchOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
		return
	}
	item, err := h.service.FetchOne(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(item))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateBusinessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ToResponse(item))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
		return
	}
	var req UpdateBusinessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(item))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addAddress(kind AddressKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
			return
		}
		var req AddressInput
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		item, err := h.service.AddAddress(r.Context(), id, kind, req)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, ToResponse(item))
	}
}

func (h *Handler) updateAddress(kind AddressKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
			return
		}
		addressID, err := uuid.Parse(chi.URLParam(r, "address_id"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid address id")
			return
		}
		var req AddressPatch
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		item, err := h.service.UpdateAddress(r.Context(), id, kind, addressID, req)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(item))
	}
}

func (h *Handler) removeAddress(kind AddressKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid profile id")
			return
		}
		addressID, err := uuid.Parse(chi.URLParam(r, "address_id"))
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid address id")
			return
		}
		item, err := h.service.RemoveAddress(r.Context(), id, kind, addressID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, ToResponse(item))
	}
}
