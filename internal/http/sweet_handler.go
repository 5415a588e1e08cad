package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/pkg/validator"
)

type createSweetRequest struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

type updateSweetRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	Category *string  `json:"category" validate:"omitempty,min=1"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// purchaseRequest leaves amount validation to the service for the same
// not-found-first ordering as restock.
type purchaseRequest struct {
	Quantity *int `json:"quantity"`
}

// restockRequest is not validator-checked: the service owns the
// positive-amount rule so a 404 on a missing sweet wins over a bad amount.
type restockRequest struct {
	Quantity int `json:"quantity"`
}

type sweetResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type purchaseResponse struct {
	Message           string  `json:"message"`
	PurchasedQuantity int     `json:"purchased_quantity"`
	RemainingQuantity int     `json:"remaining_quantity"`
	TotalCost         float64 `json:"total_cost"`
}

type restockResponse struct {
	Message           string `json:"message"`
	RestockedQuantity int    `json:"restocked_quantity"`
	PreviousQuantity  int    `json:"previous_quantity"`
	NewQuantity       int    `json:"new_quantity"`
}

type sweetHandler struct {
	sweetSvc  service.SweetService
	validator validator.Validator
	rs        *responder
}

func newSweetHandler(sweetSvc service.SweetService, v validator.Validator, rs *responder) *sweetHandler {
	return &sweetHandler{
		sweetSvc:  sweetSvc,
		validator: v,
		rs:        rs,
	}
}

func (h *sweetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rs.Err(w, r, err)
		return
	}

	sweet, err := h.sweetSvc.CreateSweet(r.Context(), service.CreateSweetParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusCreated, sweetToResponse(sweet))
}

func (h *sweetHandler) list(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweetSvc.ListSweets(r.Context())
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, sweetsToResponse(sweets))
}

func (h *sweetHandler) search(w http.ResponseWriter, r *http.Request) {
	params := repository.SearchSweetsParams{}

	query := r.URL.Query()
	if name := query.Get("name"); name != "" {
		params.Name = &name
	}
	if category := query.Get("category"); category != "" {
		params.Category = &category
	}

	minPrice, err := priceParam(query.Get("min_price"))
	if err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WithMsg("min_price must be a number").WrapParent(err))
		return
	}
	params.MinPrice = minPrice

	maxPrice, err := priceParam(query.Get("max_price"))
	if err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WithMsg("max_price must be a number").WrapParent(err))
		return
	}
	params.MaxPrice = maxPrice

	sweets, err := h.sweetSvc.SearchSweets(r.Context(), params)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, sweetsToResponse(sweets))
}

func (h *sweetHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	sweet, err := h.sweetSvc.GetSweet(r.Context(), id)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, sweetToResponse(sweet))
}

func (h *sweetHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	var req updateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rs.Err(w, r, err)
		return
	}

	sweet, err := h.sweetSvc.UpdateSweet(r.Context(), id, service.UpdateSweetParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, sweetToResponse(sweet))
}

func (h *sweetHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	if err := h.sweetSvc.DeleteSweet(r.Context(), id); err != nil {
		h.rs.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *sweetHandler) purchase(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	// A missing quantity buys a single unit.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := h.sweetSvc.Purchase(r.Context(), id, quantity)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, purchaseResponse{
		Message:           "Purchase successful",
		PurchasedQuantity: result.PurchasedQuantity,
		RemainingQuantity: result.RemainingQuantity,
		TotalCost:         result.TotalCost,
	})
}

func (h *sweetHandler) restock(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rs.Err(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	result, err := h.sweetSvc.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		h.rs.Err(w, r, err)
		return
	}

	h.rs.JSON(w, r, http.StatusOK, restockResponse{
		Message:           "Restock successful",
		RestockedQuantity: result.RestockedQuantity,
		PreviousQuantity:  result.PreviousQuantity,
		NewQuantity:       result.NewQuantity,
	})
}

// sweetID parses the path id. A non-numeric id maps to the same 404 as a
// missing row.
func sweetID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.SweetNotFoundErr
	}
	return id, nil
}

func priceParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func sweetToResponse(sweet model.Sweet) sweetResponse {
	return sweetResponse{
		ID:       sweet.ID,
		Name:     sweet.Name,
		Category: sweet.Category,
		Price:    sweet.Price,
		Quantity: sweet.Quantity,
	}
}

func sweetsToResponse(sweets []model.Sweet) []sweetResponse {
	items := make([]sweetResponse, 0, len(sweets))
	for _, sweet := range sweets {
		items = append(items, sweetToResponse(sweet))
	}
	return items
}
