package models

import "time"

// Address is a user-owned delivery address. At most one address per user
// carries IsDefault.
type Address struct {
	AddressID    string    `json:"addressId" bson:"_id"`
	UserID       string    `json:"userId" bson:"userId"`
	FullName     string    `json:"fullName" bson:"fullName"`
	Phone        string    `json:"phone" bson:"phone"`
	AddressLine1 string    `json:"addressLine1" bson:"addressLine1"`
	AddressLine2 string    `json:"addressLine2" bson:"addressLine2"`
	City         string    `json:"city" bson:"city"`
	State        string    `json:"state" bson:"state"`
	Pincode      string    `json:"pincode" bson:"pincode"`
	Country      string    `json:"country" bson:"country"`
	AddressType  string    `json:"addressType" bson:"addressType"` // home, work, other
	IsDefault    bool      `json:"isDefault" bson:"isDefault"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
