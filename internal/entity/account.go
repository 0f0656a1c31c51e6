package entity

import "time"

// Account is one persisted tracker record row: the raw encoded state plus the
// owner credential and an optimistic-concurrency version. The encoded bytes
// are opaque to the storage layer; only the processor interprets them.
type Account struct {
	Address   string    `gorm:"primaryKey"`         // Deterministic address derived from the tracker seed
	OwnerHash string    `gorm:"not null" json:"-"`  // BCrypt hash of the capability token that created the record
	Data      []byte    `gorm:"not null"`           // Fixed-size encoded tracker state
	Version   uint64    `gorm:"not null;default=0"` // Bumped on every write; guards against lost updates
	Epoch     uint64    `gorm:"index;default=0"`    // System epoch of the last write to this row
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
