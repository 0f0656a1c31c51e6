package repository

import (
	"tracker/internal/entity"

	"gorm.io/gorm"
)

// This repository holds the system epoch, a counter of every write transition
// applied to the tracker. Each applied instruction increments it, so it traces
// how many state changes the record has endured.
type GlobalRepository interface {
	Create(*entity.SystemState) error             // Creates the system state row
	GetSystemState() (*entity.SystemState, error) // Retrieves the system state
	GetCurrentEpoch() (uint64, error)             // Retrieves the epoch from the system state
}

// Implementation of the repository using a SQLite DB
type SQLiteGlobalRepository struct {
	db *gorm.DB
}

func NewSQLiteGlobalRepository(db *gorm.DB) GlobalRepository {
	return &SQLiteGlobalRepository{db}
}

func (g *SQLiteGlobalRepository) Create(e *entity.SystemState) error {
	return g.db.Create(e).Error
}

func (g *SQLiteGlobalRepository) GetSystemState() (*entity.SystemState, error) {
	var state *entity.SystemState
	err := g.db.First(&state, 1).Error
	return state, err
}

func (g *SQLiteGlobalRepository) GetCurrentEpoch() (uint64, error) {
	state, err := g.GetSystemState()
	if err != nil {
		return 0, err
	}
	return state.CurrentEpoch, nil
}
