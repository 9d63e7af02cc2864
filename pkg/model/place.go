package model

import (
	"time"
)

// Place is a bookable location owned by a business. Employees and services
// belong to a place; bookings reference it by ID only.
type Place struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusinessID string    `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	City       string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Address    string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	TimeZone   string    `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type PlaceUpdate struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	City     string `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Address  string `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	TimeZone string `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}
