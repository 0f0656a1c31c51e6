package entity

// System state, represented by the couple (ID, CurrentEpoch).
// ID exists only to have a single stable row; CurrentEpoch counts the write
// transitions the tracker has applied (Initialize and every PlaySeason), so
// readers can tell how current the state they observed is.
type SystemState struct {
	ID           uint64 `gorm:"primaryKey"`
	CurrentEpoch uint64 `gorm:"not null;default=0"`
}
