package repository

import (
	"errors"

	"tracker/internal/entity"
	"tracker/internal/tracker"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository for the tracker record rows. Every write goes through a single
// transaction that also bumps the system epoch, so a transition is either
// fully applied (data, version, epoch) or not at all.
type AccountRepository interface {
	Get(address string) (*entity.Account, error)                            // tracker.ErrNotFound when the address holds nothing
	Insert(account *entity.Account) (uint64, error)                         // Creates the row, failing if the address is already taken
	Update(account *entity.Account, expectedVersion uint64) (uint64, error) // Guarded write; a stale version loses with tracker.ErrConflict
}

// Implementation of the repository using a SQLite DB
type SQLiteAccountRepository struct {
	db *gorm.DB
}

func NewSQLiteAccountRepository(db *gorm.DB) AccountRepository {
	return &SQLiteAccountRepository{db}
}

func (repo *SQLiteAccountRepository) Get(address string) (*entity.Account, error) {
	var account entity.Account
	err := repo.db.Where("address = ?", address).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tracker.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (repo *SQLiteAccountRepository) Insert(account *entity.Account) (uint64, error) {

	var epoch uint64 = 0
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var existing entity.Account
		err := tx.Where("address = ?", account.Address).First(&existing).Error
		if err == nil {
			return tracker.ErrAlreadyInitialized
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var state entity.SystemState
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&state, 1).Error; err != nil {
			return err
		}
		state.CurrentEpoch++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		account.Version = 1
		account.Epoch = state.CurrentEpoch
		epoch = state.CurrentEpoch

		return tx.Create(account).Error
	})

	return epoch, err
}

func (repo *SQLiteAccountRepository) Update(account *entity.Account, expectedVersion uint64) (uint64, error) {

	var epoch uint64 = 0
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var state entity.SystemState
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&state, 1).Error; err != nil {
			return err
		}
		state.CurrentEpoch++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		epoch = state.CurrentEpoch

		// The version guard is what decides concurrent writers: the loser
		// matches zero rows and the whole transaction rolls back.
		res := tx.Model(&entity.Account{}).
			Where("address = ? AND version = ?", account.Address, expectedVersion).
			Updates(map[string]any{
				"data":       account.Data,
				"owner_hash": account.OwnerHash,
				"version":    expectedVersion + 1,
				"epoch":      state.CurrentEpoch,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tracker.ErrConflict
		}

		account.Version = expectedVersion + 1
		account.Epoch = state.CurrentEpoch
		return nil
	})

	return epoch, err
}
