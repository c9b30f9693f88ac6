// Package address manages a user's saved delivery addresses and the
// one-default-per-user invariant.
package address

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"kirana/apperr"
	"kirana/models"
	"kirana/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type addressRequest struct {
	AddressType  string `json:"addressType"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	IsDefault    *bool  `json:"isDefault"`
}

func (req *addressRequest) validate() error {
	if req.FullName == "" || req.AddressLine1 == "" || req.City == "" ||
		req.State == "" || req.Pincode == "" || req.Phone == "" {
		return apperr.New(apperr.Validation, "Please provide all required fields")
	}
	return nil
}

// CreateAddress adds an address for the caller. When isDefault is set,
// every sibling loses the flag in the same request.
//
// Endpoint: POST /api/addresses
func (s *Service) CreateAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	now := time.Now()
	a := &models.Address{
		AddressID:    uuid.NewString(),
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Country:      req.Country,
		AddressType:  req.AddressType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.Country == "" {
		a.Country = "India"
	}
	if a.AddressType == "" {
		a.AddressType = "home"
	}

	if err := s.store.Insert(r.Context(), a); err != nil {
		log.Println("CreateAddress insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create address")
		return
	}

	if req.IsDefault != nil && *req.IsDefault {
		if err := s.store.SetDefault(r.Context(), userID, a.AddressID); err != nil {
			log.Println("CreateAddress set default error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to set default address")
			return
		}
		a.IsDefault = true
	}

	utils.RespondWithJSON(w, http.StatusCreated, a)
}

// GetAddresses lists the caller's addresses, default first, newest first.
//
// Endpoint: GET /api/addresses
func (s *Service) GetAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	addresses, err := s.store.ListByUser(r.Context(), userID)
	if err != nil {
		log.Println("GetAddresses error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch addresses")
		return
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

// GetUserAddresses lists another user's addresses, admin only.
//
// Endpoint: GET /api/addresses/user/:userid
func (s *Service) GetUserAddresses(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	addresses, err := s.store.ListByUser(r.Context(), ps.ByName("userid"))
	if err != nil {
		log.Println("GetUserAddresses error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch addresses")
		return
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

// loadOwned fetches an address and checks the caller may touch it.
// Admins may read any address; mutation stays owner-only.
func (s *Service) loadOwned(r *http.Request, id string, adminRead bool) (*models.Address, error) {
	a, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "address lookup failed", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.NotFound, "Address not found")
	}
	if a.UserID != utils.GetUserIDFromRequest(r) {
		if adminRead && slices.Contains(utils.GetRolesFromRequest(r), "admin") {
			return a, nil
		}
		return nil, apperr.New(apperr.Authorization, "Not authorized")
	}
	return a, nil
}

// GetAddressByID returns one address.
//
// Endpoint: GET /api/addresses/address/:id
func (s *Service) GetAddressByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := s.loadOwned(r, ps.ByName("id"), true)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

// UpdateAddress patches an owned address; empty fields keep old values.
//
// Endpoint: PUT /api/addresses/address/:id
func (s *Service) UpdateAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := s.loadOwned(r, ps.ByName("id"), false)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.AddressType != "" {
		a.AddressType = req.AddressType
	}
	if req.FullName != "" {
		a.FullName = req.FullName
	}
	if req.Phone != "" {
		a.Phone = req.Phone
	}
	if req.AddressLine1 != "" {
		a.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != "" {
		a.AddressLine2 = req.AddressLine2
	}
	if req.City != "" {
		a.City = req.City
	}
	if req.State != "" {
		a.State = req.State
	}
	if req.Pincode != "" {
		a.Pincode = req.Pincode
	}
	if req.Country != "" {
		a.Country = req.Country
	}

	if err := s.store.Update(r.Context(), a); err != nil {
		log.Println("UpdateAddress error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update address")
		return
	}

	if req.IsDefault != nil && *req.IsDefault && !a.IsDefault {
		if err := s.store.SetDefault(r.Context(), a.UserID, a.AddressID); err != nil {
			log.Println("UpdateAddress set default error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to set default address")
			return
		}
		a.IsDefault = true
	}

	utils.RespondWithJSON(w, http.StatusOK, a)
}

// DeleteAddress removes an owned address.
//
// Endpoint: DELETE /api/addresses/address/:id
func (s *Service) DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := s.loadOwned(r, ps.ByName("id"), false)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := s.store.Delete(r.Context(), a.AddressID); err != nil {
		log.Println("DeleteAddress error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Address removed"})
}

// SetDefaultAddress marks one owned address as the default.
//
// Endpoint: PUT /api/addresses/address/:id/default
func (s *Service) SetDefaultAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := s.loadOwned(r, ps.ByName("id"), false)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := s.store.SetDefault(r.Context(), a.UserID, a.AddressID); err != nil {
		log.Println("SetDefaultAddress error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to set default address")
		return
	}
	a.IsDefault = true
	utils.RespondWithJSON(w, http.StatusOK, a)
}
