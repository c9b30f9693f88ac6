package delhivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kirana/rdx"
)

const pincodeCacheTTL = 6 * time.Hour

// PincodeResult is the serviceability answer for one PIN.
type PincodeResult struct {
	Serviceable bool   `json:"serviceable"`
	Message     string `json:"message"`
}

type pincodeReply struct {
	DeliveryCodes []struct {
		PostalCode struct {
			Remark string `json:"remark"`
		} `json:"postal_code"`
	} `json:"delivery_codes"`
}

// CheckPincode looks the PIN up against the carrier's coverage API.
// Results are cached in Redis since coverage changes rarely.
func (c *Client) CheckPincode(ctx context.Context, pincode string) (*PincodeResult, error) {
	cacheKey := "pincode:serviceable:" + pincode
	if cached := rdx.Get(ctx, cacheKey); cached != "" {
		var result PincodeResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	url := fmt.Sprintf("%s/c/api/pin-codes/json/?filter_codes=%s", c.BaseURL, pincode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("delhivery pincode lookup: status %d", resp.StatusCode)
	}

	var reply pincodeReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("delhivery pincode lookup: malformed response: %w", err)
	}

	result := interpretPincodeReply(reply)
	if encoded, err := json.Marshal(result); err == nil {
		rdx.Set(ctx, cacheKey, string(encoded), pincodeCacheTTL)
	}
	return result, nil
}

func interpretPincodeReply(reply pincodeReply) *PincodeResult {
	if len(reply.DeliveryCodes) == 0 {
		return &PincodeResult{Serviceable: false, Message: "Non-serviceable pincode"}
	}
	if reply.DeliveryCodes[0].PostalCode.Remark == "Embargo" {
		return &PincodeResult{Serviceable: false, Message: "Delivery temporarily unavailable (Embargo)"}
	}
	return &PincodeResult{Serviceable: true, Message: "Delivery available"}
}
