package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestIncrementProcessed_SingleAtomicUpdate pins the SQL shape of the
// progress counter: one UPDATE with the addition evaluated inside the
// database, never a read-modify-write from Go.
func TestIncrementProcessed_SingleAtomicUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	jobID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "import_jobs" SET "processed_rows"=processed_rows + $1 WHERE id = $2`,
	)).
		WithArgs(25, jobID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGormImportJobRepository(db)
	require.NoError(t, repo.IncrementProcessed(context.Background(), jobID, 25))
	require.NoError(t, mock.ExpectationsWereMet())
}
