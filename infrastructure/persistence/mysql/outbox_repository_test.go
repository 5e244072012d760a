package mysql

import (
	"context"
	"testing"

	"ddd-kernel/domain/shared"
	"ddd-kernel/infrastructure/persistence/mysql/po"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveEventStandaloneOpensTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `outbox_events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l := openLedger(nil, "cash")
	require.NoError(t, repo.SaveEvent(context.Background(), l.DomainEvents()[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEventRejectsInvalidEvent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	err := repo.SaveEvent(context.Background(), &ledgerOpened{BaseEvent: shared.NewBaseEvent(kindOpened, shared.UniqueEntityID{})})
	assert.ErrorContains(t, err, "invalid domain event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPendingEvents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	rows := sqlmock.NewRows([]string{"id", "aggregate_id", "event_kind", "payload", "status", "retry_count"}).
		AddRow("e1", "a1", "ledger.opened", `{"event_kind":"ledger.opened"}`, "PENDING", 0).
		AddRow("e2", "a1", "ledger.closed", `{"event_kind":"ledger.closed"}`, "PENDING", 1)
	mock.ExpectQuery("SELECT \\* FROM `outbox_events` WHERE status = \\?").WillReturnRows(rows)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ledger.opened", events[0].EventKind)
	assert.Equal(t, 1, events[1].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkEventProcessingContention(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectExec("UPDATE `outbox_events` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkEventProcessing(context.Background(), "e1")
	assert.ErrorContains(t, err, "already being processed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEventsInsertsAggregateEventsInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	l := openLedger(nil, "cash")
	l.AddDomainEvent(&ledgerOpened{BaseEvent: shared.NewBaseEvent(kindOpened, l.ID()), Name: "savings"})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `outbox_events`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveEvents(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEventsWithoutEventsSkipsDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	l := openLedger(nil, "cash")
	l.ClearEvents()

	require.NoError(t, repo.SaveEvents(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

const markFailedSQL = "UPDATE `outbox_events` SET `retry_count`=retry_count \\+ 1,`status`=CASE WHEN retry_count >= \\? THEN \\? ELSE \\? END,`updated_at`=NOW\\(\\)"

func TestMarkEventFailedIsSingleConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectExec(markFailedSQL).
		WithArgs(3, string(po.EventStatusFailed), string(po.EventStatusPending), "e1", string(po.EventStatusProcessing)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkEventFailed(context.Background(), "e1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkEventFailedRequiresProcessingState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectExec(markFailedSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkEventFailed(context.Background(), "e1", 3)
	assert.ErrorContains(t, err, "not being processed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkEventPublishedRequiresProcessingState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectExec("UPDATE `outbox_events` SET `status`=\\?,`updated_at`=NOW\\(\\)").
		WithArgs(string(po.EventStatusPublished), "e1", string(po.EventStatusProcessing)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkEventPublished(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
