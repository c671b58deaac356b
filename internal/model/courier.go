package model

import (
	"time"

	"github.com/google/uuid"
)

// CourierStatus is the platform approval state of a courier. Only APPROVED
// couriers may accept orders.
type CourierStatus string

const (
	CourierPendingApproval CourierStatus = "PENDING_APPROVAL"
	CourierApproved        CourierStatus = "APPROVED"
	CourierSuspended       CourierStatus = "SUSPENDED"
)

// VehicleType affects assumed travel speed and the routing profile.
type VehicleType string

const (
	VehicleBicycle    VehicleType = "BICYCLE"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleCar        VehicleType = "CAR"
)

// Courier is an independent delivery partner. The live position lives in
// the tracking store; Position is populated on read when known.
type Courier struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Status    CourierStatus `json:"status" db:"status"`
	Vehicle   VehicleType   `json:"vehicle" db:"vehicle"`
	Position  *Coordinates  `json:"position,omitempty"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// UpdatePositionRequest is the payload for a courier position report.
type UpdatePositionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
