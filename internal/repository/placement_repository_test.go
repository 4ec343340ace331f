package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

func newPlacementMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPlacementRepositoryPlace(t *testing.T) {
	db, mock, cleanup := newPlacementMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms").
		WithArgs("room-1", models.RoomStatusOccupied, sqlmock.AnyArg(), models.RoomStatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO placements").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placement := &models.Placement{StudentID: "student-1", RoomID: "room-1", BlockID: "block-1"}
	err := repo.Place(context.Background(), placement)
	require.NoError(t, err)
	assert.NotEmpty(t, placement.ID)
	assert.Equal(t, models.PlacementStatusActive, placement.Status)
	assert.NotZero(t, placement.Year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryPlaceRoomFilled(t *testing.T) {
	db, mock, cleanup := newPlacementMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms").
		WithArgs("room-1", models.RoomStatusOccupied, sqlmock.AnyArg(), models.RoomStatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Place(context.Background(), &models.Placement{StudentID: "student-1", RoomID: "room-1", BlockID: "block-1"})
	assert.ErrorIs(t, err, ErrRoomFilled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newPlacementMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM placements").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE rooms SET current_occupancy = 0").
		WithArgs(models.RoomStatusAvailable, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	removed, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryList(t *testing.T) {
	db, mock, cleanup := newPlacementMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "room_id", "block_id", "year", "status", "assigned_date", "created_at", "student_code", "student_name", "room_number", "block_code", "block_name"}).
		AddRow("p-1", "s-1", "r-1", "b-1", 2026, models.PlacementStatusActive, time.Now().UTC(), time.Now().UTC(), "DMU001", "Abebe Kebede", "101", "B1", "Block One")
	mock.ExpectQuery("SELECT p.id, p.student_id").
		WithArgs("b-1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	placements, total, err := repo.List(context.Background(), models.PlacementFilter{BlockID: "b-1"})
	require.NoError(t, err)
	assert.Len(t, placements, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "DMU001", placements[0].StudentCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
