// Package shipping estimates shipping cost from a PIN pair and weight.
// The distance formula is a deterministic-plus-jitter placeholder for a
// real routing service.
package shipping

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"

	"kirana/apperr"
)

var pinRegex = regexp.MustCompile(`^[0-9]{6}$`)

const (
	baseCost      = 50.0
	perKgCost     = 10.0
	perKmCost     = 0.5
	samePinKm     = 10
	minMockKm     = 50
	mockKmSpread  = 450
	jitterMaxKm   = 50
	minETADays    = 3
	etaDaysSpread = 5
)

// Breakdown itemizes the shipping cost.
type Breakdown struct {
	BaseCost     float64 `json:"baseCost"`
	WeightCost   float64 `json:"weightCost"`
	DistanceCost float64 `json:"distanceCost"`
}

// Quote is the estimator result.
type Quote struct {
	Distance     int       `json:"distance"`
	ShippingCost float64   `json:"shippingCost"`
	Breakdown    Breakdown `json:"breakdown"`
}

// ValidPin reports whether s looks like a 6-digit Indian PIN code.
func ValidPin(s string) bool {
	return pinRegex.MatchString(s)
}

// Estimate validates the inputs and returns the quote. Bad PIN format or
// non-positive weight fail with a validation error, never a coerced value.
func Estimate(pickupPin, deliveryPin string, totalWeight float64) (*Quote, error) {
	if pickupPin == "" || deliveryPin == "" || totalWeight == 0 {
		return nil, apperr.New(apperr.Validation, "Pickup PIN, delivery PIN, and total weight are required")
	}
	if !ValidPin(pickupPin) || !ValidPin(deliveryPin) {
		return nil, apperr.New(apperr.Validation, "Please enter valid 6-digit PIN codes")
	}
	if totalWeight <= 0 {
		return nil, apperr.New(apperr.Validation, "Total weight must be greater than 0")
	}

	distance := mockDistance(pickupPin, deliveryPin)
	b := Breakdown{
		BaseCost:     baseCost,
		WeightCost:   totalWeight * perKgCost,
		DistanceCost: float64(distance) * perKmCost,
	}
	return &Quote{
		Distance:     distance,
		ShippingCost: math.Round(b.BaseCost + b.WeightCost + b.DistanceCost),
		Breakdown:    b,
	}, nil
}

// mockDistance stands in for a distance-matrix lookup. Same PIN means a
// local delivery; otherwise the PIN difference seeds a 50-500 km range
// with some jitter on top.
func mockDistance(pickupPin, deliveryPin string) int {
	if pickupPin == deliveryPin {
		return samePinKm
	}
	pickup, _ := strconv.Atoi(pickupPin)
	delivery, _ := strconv.Atoi(deliveryPin)
	diff := pickup - delivery
	if diff < 0 {
		diff = -diff
	}
	return minMockKm + diff%mockKmSpread + rand.Intn(jitterMaxKm)
}

// Serviceability is the mocked courier-coverage answer.
type Serviceability struct {
	Pincode               string `json:"pincode"`
	Serviceable           bool   `json:"serviceable"`
	EstimatedDeliveryDays int    `json:"estimatedDeliveryDays"`
	Message               string `json:"message"`
}

// CheckServiceability validates the PIN format and returns a mocked
// serviceable flag with a 3-7 day delivery window.
func CheckServiceability(pincode string) (*Serviceability, error) {
	if pincode == "" {
		return nil, apperr.New(apperr.Validation, "PIN code is required")
	}
	if !ValidPin(pincode) {
		return nil, apperr.New(apperr.Validation, "Please enter a valid 6-digit PIN code")
	}
	days := minETADays + rand.Intn(etaDaysSpread)
	return &Serviceability{
		Pincode:               pincode,
		Serviceable:           true,
		EstimatedDeliveryDays: days,
		Message:               "Delivery available in " + strconv.Itoa(days) + " days",
	}, nil
}
