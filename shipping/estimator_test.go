package shipping

import (
	"testing"

	"kirana/apperr"
)

func TestEstimate(t *testing.T) {
	t.Run("same pin is a local delivery", func(t *testing.T) {
		quote, err := Estimate("600001", "600001", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if quote.Distance != 10 {
			t.Errorf("expected distance 10, got %d", quote.Distance)
		}
		// round(50 + 2*10 + 10*0.5) = 75
		if quote.ShippingCost != 75 {
			t.Errorf("expected shipping cost 75, got %v", quote.ShippingCost)
		}
		if quote.Breakdown.BaseCost != 50 || quote.Breakdown.WeightCost != 20 || quote.Breakdown.DistanceCost != 5 {
			t.Errorf("unexpected breakdown: %+v", quote.Breakdown)
		}
	})

	t.Run("different pins stay in the mock range", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			quote, err := Estimate("600001", "110001", 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.Distance < 50 || quote.Distance > 549 {
				t.Fatalf("distance %d outside 50-549", quote.Distance)
			}
			want := quote.Breakdown.BaseCost + quote.Breakdown.WeightCost + quote.Breakdown.DistanceCost
			if quote.ShippingCost < want-0.5 || quote.ShippingCost > want+0.5 {
				t.Fatalf("cost %v not a rounding of %v", quote.ShippingCost, want)
			}
		}
	})

	t.Run("rejects malformed pins", func(t *testing.T) {
		for _, pin := range []string{"60001", "6000011", "60000a", "abcdef"} {
			_, err := Estimate(pin, "600001", 1)
			if apperr.KindOf(err) != apperr.Validation {
				t.Errorf("pin %q: expected validation error, got %v", pin, err)
			}
		}
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		if _, err := Estimate("600001", "110001", -1); apperr.KindOf(err) != apperr.Validation {
			t.Errorf("expected validation error, got %v", err)
		}
		if _, err := Estimate("600001", "110001", 0); apperr.KindOf(err) != apperr.Validation {
			t.Errorf("expected validation error for zero weight, got %v", err)
		}
	})
}

func TestCheckServiceability(t *testing.T) {
	t.Run("valid pin gets a 3-7 day window", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			result, err := CheckServiceability("600001")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Serviceable {
				t.Fatal("expected serviceable")
			}
			if result.EstimatedDeliveryDays < 3 || result.EstimatedDeliveryDays > 7 {
				t.Fatalf("days %d outside 3-7", result.EstimatedDeliveryDays)
			}
		}
	})

	t.Run("rejects malformed pin", func(t *testing.T) {
		if _, err := CheckServiceability("123"); apperr.KindOf(err) != apperr.Validation {
			t.Errorf("expected validation error, got %v", err)
		}
		if _, err := CheckServiceability(""); apperr.KindOf(err) != apperr.Validation {
			t.Errorf("expected validation error for empty pin, got %v", err)
		}
	})
}
