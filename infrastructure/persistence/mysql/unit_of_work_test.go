package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-kernel/domain/shared"
	"ddd-kernel/infrastructure/persistence"
	"ddd-kernel/infrastructure/persistence/retry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const kindOpened shared.EventKind = "ledger.opened"

type ledgerOpened struct {
	shared.BaseEvent
	Name string `json:"name"`
}

type ledger struct {
	shared.AggregateBase
}

func openLedger(marker shared.EventMarker, name string) *ledger {
	l := &ledger{AggregateBase: shared.NewAggregateBase(shared.UniqueEntityID{}, marker)}
	l.AddDomainEvent(&ledgerOpened{BaseEvent: shared.NewBaseEvent(kindOpened, l.ID()), Name: name})
	return l
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestExecuteWritesOutboxThenDispatchesAfterCommit(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := shared.NewDispatcher()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `outbox_events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var handled []string
	shared.Subscribe(dispatcher, kindOpened, func(e *ledgerOpened) error {
		// the transaction is already committed when handlers run
		assert.NoError(t, mock.ExpectationsWereMet())
		handled = append(handled, e.Name)
		return nil
	})

	uow := NewUnitOfWork(db, dispatcher)
	l := openLedger(dispatcher, "cash")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		assert.NotNil(t, persistence.TxFromContext(ctx))
		uow.RegisterNew(l)
		uow.RegisterDirty(l)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"cash"}, handled)
	assert.Empty(t, l.DomainEvents())
	assert.False(t, dispatcher.IsMarked(l.ID()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRollsBackWithoutDispatch(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := shared.NewDispatcher()
	called := false
	dispatcher.Register(kindOpened, func(shared.DomainEvent) error {
		called = true
		return nil
	})

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := NewUnitOfWork(db, dispatcher)
	l := openLedger(dispatcher, "cash")
	want := shared.NewValidationError("ledger", "name", "name is required")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterNew(l)
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.False(t, called)
	assert.Len(t, l.DomainEvents(), 1)
	assert.False(t, dispatcher.IsMarked(l.ID()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRetriesConflicts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := NewUnitOfWork(db, nil)
	uow.SetRetryConfig(fastRetry())

	attempts := 0
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return shared.NewConcurrentModificationError("ledger")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteReportsDispatchFailureAfterCommit(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := shared.NewDispatcher()
	handlerErr := errors.New("projection unavailable")
	dispatcher.Register(kindOpened, func(shared.DomainEvent) error { return handlerErr })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `outbox_events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db, dispatcher)
	// not bound to the dispatcher: the unit of work marks it itself
	l := openLedger(nil, "cash")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterNew(l)
		return nil
	})

	require.ErrorIs(t, err, shared.ErrEventDispatch)
	assert.ErrorIs(t, err, handlerErr)
	assert.True(t, dispatcher.IsMarked(l.ID()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteWithoutDispatcherClearsEvents(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `outbox_events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db, nil)
	l := openLedger(nil, "cash")

	require.NoError(t, uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterNew(l)
		return nil
	}))
	assert.Empty(t, l.DomainEvents())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkFactory(t *testing.T) {
	db, _ := newMockDB(t)
	factory := NewUnitOfWorkFactory(db, shared.NewDispatcher(), fastRetry())

	uow, ok := factory.New().(*UnitOfWork)
	require.True(t, ok)
	assert.Equal(t, time.Millisecond, uow.retryConfig.InitialDelay)
}
