package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a broadband/Starlink subscriber.
type Client struct {
	ID           int64               `json:"id" db:"id"`
	FullName     *string             `json:"full_name" db:"full_name"`
	Email        *string             `json:"email" db:"email"`
	Phone        *string             `json:"phone" db:"phone"`
	Location     *string             `json:"location" db:"location"`
	ServiceType  *string             `json:"service_type" db:"service_type"`
	Price        decimal.NullDecimal `json:"price" db:"price"`
	SerialNumber *string             `json:"serial_number" db:"serial_number"` // Only meaningful for Starlink kits
	Supporter    *string             `json:"supporter" db:"supporter"`
	HasBonus     bool                `json:"has_bonus" db:"has_bonus"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the client's name, or "#<id>" when no name was recorded.
func (c Client) DisplayName() string {
	if c.FullName == nil || *c.FullName == "" {
		return "#" + strconv.FormatInt(c.ID, 10)
	}
	return *c.FullName
}

// ClientPage is the paginated envelope returned by the clients listing.
type ClientPage struct {
	Data         []Client `json:"data"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	TotalClients int      `json:"totalClients"`
}
