package shipping

import (
	"encoding/json"
	"net/http"

	"kirana/utils"

	"github.com/julienschmidt/httprouter"
)

// CalculateShipping quotes shipping for a PIN pair and weight.
//
// Endpoint: POST /api/shipping/calculate
func CalculateShipping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		PickupPin   string  `json:"pickupPin"`
		DeliveryPin string  `json:"deliveryPin"`
		TotalWeight float64 `json:"totalWeight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	quote, err := Estimate(req.PickupPin, req.DeliveryPin, req.TotalWeight)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// CheckServiceabilityHandler answers whether a PIN is deliverable.
//
// Endpoint: POST /api/shipping/check-serviceability
func CheckServiceabilityHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Pincode string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	result, err := CheckServiceability(req.Pincode)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}
