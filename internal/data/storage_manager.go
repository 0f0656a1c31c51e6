package data

import (
	"sync/atomic"

	"tracker/internal/entity"
	"tracker/internal/repository"

	"gorm.io/gorm"
)

// EpochCache exposes the system epoch without a database round trip.
type EpochCache interface {
	GetCachedEpoch() uint64
	UpdateEpochCache(uint64)
}

// Storage manager gathers the repositories needed for the tracker in a single
// container and seeds the system state row on first start.
type StorageManager struct {
	db *gorm.DB // Under the hood we use the SQLite implementation

	cacheEpoch atomic.Uint64 // Epoch of the system, cached to speed up reads without hitting the DB each time

	// Repositories
	systemRepo  repository.GlobalRepository
	accountRepo repository.AccountRepository
}

func NewStorageManager(db *gorm.DB) *StorageManager {
	s := &StorageManager{
		db:         db,
		cacheEpoch: atomic.Uint64{},
	}

	s.systemRepo = repository.NewSQLiteGlobalRepository(db)
	s.accountRepo = repository.NewSQLiteAccountRepository(db)

	state, err := s.systemRepo.GetSystemState()
	if err != nil {
		newState := entity.SystemState{ID: 1, CurrentEpoch: 0}
		s.systemRepo.Create(&newState)
		s.cacheEpoch.Store(0)
	} else {
		s.cacheEpoch.Store(state.CurrentEpoch)
	}

	return s
}

func (s *StorageManager) UpdateEpochCache(newEpoch uint64) {
	s.cacheEpoch.Store(newEpoch)
}

func (s *StorageManager) GetCachedEpoch() uint64 {
	return s.cacheEpoch.Load()
}

func (s *StorageManager) GetGlobalRepository() repository.GlobalRepository {
	return s.systemRepo
}

func (s *StorageManager) GetAccountRepository() repository.AccountRepository {
	return s.accountRepo
}
