package model

import "time"

// SlotLock is an advisory lock keyed on a slot's coordinates. Inserting it
// into a unique-index collection makes the check-then-insert of a booking
// atomic: a duplicate-key failure means another writer holds the slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
