package models

import "time"

type Address struct {
	AddressID   string `json:"addressId" bson:"addressId"`
	AddressType string `json:"addressType,omitempty" bson:"addressType,omitempty"`
	Street      string `json:"street" bson:"street"`
	City        string `json:"city" bson:"city"`
	State       string `json:"state" bson:"state"`
	Pincode     string `json:"pincode" bson:"pincode"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	IsDefault   bool   `json:"isDefault" bson:"isDefault"`
}

type User struct {
	UserID        string     `json:"userId" bson:"userId"`
	Name          string     `json:"name" bson:"name"`
	Email         string     `json:"email" bson:"email"`
	PasswordHash  string     `json:"-" bson:"passwordHash"`
	Phone         string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Addresses     []Address  `json:"addresses" bson:"addresses"`
	IsActive      bool       `json:"isActive" bson:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	RefreshToken  string     `json:"-" bson:"refreshToken,omitempty"`
	RefreshExpiry *time.Time `json:"-" bson:"refreshExpiry,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// DefaultAddress returns the default address, falling back to the first
// one on file. Returns nil when the user has no addresses.
func (u *User) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	if len(u.Addresses) > 0 {
		return &u.Addresses[0]
	}
	return nil
}

// AddressByID looks up an address on the user, or nil.
func (u *User) AddressByID(addressID string) *Address {
	for i := range u.Addresses {
		if u.Addresses[i].AddressID == addressID {
			return &u.Addresses[i]
		}
	}
	return nil
}

type Admin struct {
	AdminID      string     `json:"adminId" bson:"adminId"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"passwordHash"`
	Role         string     `json:"role" bson:"role"`
	IsActive     bool       `json:"isActive" bson:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}
