package orders

import (
	"encoding/json"
	"net/http"

	"kirana/models"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
)

// GetAllOrders lists every order for the admin UI, optionally filtered
// by status.
//
// Endpoint: GET /api/orders/admin/all?page&limit&status
func (s *Service) GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	orders, total, err := s.ListAll(r.Context(), opts.Status, opts.Page, opts.Limit)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"orders":     orders,
		"pagination": utils.Paginate(opts.Page, opts.Limit, total, len(orders)),
	})
}

// UpdateOrderStatus applies a single admin status transition.
//
// Endpoint: PUT /api/orders/status/:id
func (s *Service) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		OrderStatus string `json:"orderStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := s.UpdateStatus(r.Context(), ps.ByName("id"), body.OrderStatus)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// BulkUpdateOrderStatus applies one batch status change.
//
// Endpoint: PUT /api/orders/bulk-status
func (s *Service) BulkUpdateOrderStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		OrderIDs      []string `json:"orderIds"`
		OrderStatus   string   `json:"orderStatus"`
		PaymentStatus string   `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	count, err := s.BulkUpdate(r.Context(), body.OrderIDs, body.OrderStatus, body.PaymentStatus)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Order statuses updated",
		"modifiedCount": count,
	})
}
