package orders

import (
	"encoding/json"
	"net/http"

	"kirana/models"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
)

type placeOrderBody struct {
	DeliveryPin            string                  `json:"deliveryPin"`
	Distance               *float64                `json:"distance"`
	ShippingCost           *float64                `json:"shippingCost"`
	DeliveryAddress        *models.DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod          string                  `json:"paymentMethod"`
	IsDelhiveryServiceable bool                    `json:"isDelhiveryServiceable"`
}

// PlaceOrder converts the caller's cart into an order.
//
// Endpoint: POST /api/orders/place
func (s *Service) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var body placeOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := s.Place(r.Context(), userID, PlaceRequest{
		DeliveryPin:            body.DeliveryPin,
		Distance:               body.Distance,
		ShippingCost:           body.ShippingCost,
		DeliveryAddress:        body.DeliveryAddress,
		PaymentMethod:          body.PaymentMethod,
		IsDelhiveryServiceable: body.IsDelhiveryServiceable,
	})
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Order placed successfully",
		"data":    order,
	})
}

// GetMyOrders lists the caller's orders, newest first.
//
// Endpoint: GET /api/orders/my-orders?page&limit
func (s *Service) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	opts := utils.ParseQueryOptions(r)

	orders, total, err := s.ListMine(r.Context(), userID, opts.Page, opts.Limit)
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

// GetOrderByID returns one of the caller's orders.
//
// Endpoint: GET /api/orders/order/:id
func (s *Service) GetOrderByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	order, err := s.Get(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": order})
}

// CancelOrder cancels one of the caller's orders, including the carrier
// shipment when one was manifested.
//
// Endpoint: PUT /api/orders/cancel/:id
func (s *Service) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	order, err := s.Cancel(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Order cancelled successfully",
		"data":    order,
	})
}
