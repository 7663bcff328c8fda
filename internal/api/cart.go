package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"healthportal/m/domain"
	"healthportal/m/internal/cart"
)

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.Cart.Catalog(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Cart.Lines(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: lines, Total: cart.ComputeTotal(lines)})
}

type addCartItemRequest struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   *int      `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Added to cart", err)
		return
	}
	delta := 1
	if req.Quantity != nil {
		delta = *req.Quantity
	}
	item, err := h.Cart.AddOrIncrement(r.Context(), sessionFrom(r), req.MedicineID, delta)
	h.notifyOutcome(r, "Added to cart", "The item was added to your cart", err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type setCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type setCartItemResponse struct {
	Item    *domain.CartItem `json:"item"`
	Present bool             `json:"present"`
}

func (h *Handler) setCartItem(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathUUID(r, "medicineID")
	if err != nil {
		h.mutationFailed(w, r, "Cart updated", err)
		return
	}
	var req setCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Cart updated", err)
		return
	}
	item, present, err := h.Cart.SetQuantity(r.Context(), sessionFrom(r), medicineID, req.Quantity)
	h.notifyOutcome(r, "Cart updated", "Your cart quantity was updated", err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	resp := setCartItemResponse{Present: present}
	if present {
		resp.Item = &item
	}
	respondJSON(w, http.StatusOK, resp)
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Order placed", err)
		return
	}
	order, err := h.Cart.Checkout(r.Context(), sessionFrom(r), req.ShippingAddress)
	h.notifyOutcome(r, "Order placed", "Your order is pending", err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Cart.Orders(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}
