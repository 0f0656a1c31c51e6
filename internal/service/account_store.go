package service

import (
	"tracker/internal/entity"
	"tracker/internal/repository"
	"tracker/internal/tracker"
)

// accountStore adapts the account repository to the processor's storage
// accessor contract. It is the only place where entity rows and the
// processor's raw records meet.
type accountStore struct {
	accounts repository.AccountRepository
}

func (s *accountStore) Read(address string) (tracker.StoredRecord, error) {
	account, err := s.accounts.Get(address)
	if err != nil {
		return tracker.StoredRecord{}, err
	}
	return tracker.StoredRecord{
		Address:   account.Address,
		Data:      account.Data,
		OwnerHash: account.OwnerHash,
		Version:   account.Version,
	}, nil
}

func (s *accountStore) Insert(rec tracker.StoredRecord) (uint64, error) {
	return s.accounts.Insert(&entity.Account{
		Address:   rec.Address,
		OwnerHash: rec.OwnerHash,
		Data:      rec.Data,
	})
}

func (s *accountStore) Save(rec tracker.StoredRecord) (uint64, error) {
	return s.accounts.Update(&entity.Account{
		Address:   rec.Address,
		OwnerHash: rec.OwnerHash,
		Data:      rec.Data,
	}, rec.Version)
}
