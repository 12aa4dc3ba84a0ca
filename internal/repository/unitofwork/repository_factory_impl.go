package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

func (f *gormRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// Units of work live for one request. The shared *gorm.DB is handed in
	// here; the transaction itself starts only when the caller invokes Begin.
	return NewUnitOfWork(f.db)
}
