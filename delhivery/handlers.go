package delhivery

import (
	"log"
	"net/http"

	"kirana/shipping"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
)

// CheckPincodeHandler exposes the carrier coverage lookup.
//
// Endpoint: GET /api/pincode/:pincode
func (c *Client) CheckPincodeHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pincode := ps.ByName("pincode")
	if !shipping.ValidPin(pincode) {
		utils.RespondWithError(w, http.StatusBadRequest, "Please enter a valid 6-digit PIN code")
		return
	}

	result, err := c.CheckPincode(r.Context(), pincode)
	if err != nil {
		log.Println("pincode check failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Pincode check failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}
