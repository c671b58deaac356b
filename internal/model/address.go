package model

import "github.com/google/uuid"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// Address is a registered address of a client or restaurant. Coordinates
// are optional; geocoding happens outside this service.
type Address struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	OwnerID   uuid.UUID    `json:"ownerId" db:"owner_id"`
	Street    string       `json:"street" db:"street"`
	City      string       `json:"city" db:"city"`
	Principal bool         `json:"principal" db:"principal"`
	Coords    *Coordinates `json:"coords,omitempty"`
}

// DeliveryAddress is the address snapshot stored on an order at creation
// time. It is a copy, not a live reference.
type DeliveryAddress struct {
	Street string       `json:"street"`
	City   string       `json:"city"`
	Coords *Coordinates `json:"coords,omitempty"`
}
