package mysql

import (
	"ddd-kernel/domain/shared"
	"ddd-kernel/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

type UnitOfWorkFactory struct {
	db          *gorm.DB
	dispatcher  *shared.Dispatcher
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, dispatcher *shared.Dispatcher, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		dispatcher:  dispatcher,
		retryConfig: retryConfig,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db, f.dispatcher)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
