package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryListUnassigned(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_code", "full_name", "gender", "disability", "status", "department", "year_level", "phone"}).
		AddRow("s-1", "DMU001", "Abebe Kebede", models.GenderMale, models.DisabilityNone, models.StudentStatusActive, "CS", 2, "0911").
		AddRow("s-2", "DMU002", "Mulu Alemu", models.GenderFemale, models.DisabilityNone, models.StudentStatusActive, "EE", 1, "0912")
	mock.ExpectQuery("SELECT s.id, s.student_code").
		WithArgs(models.PlacementStatusActive, models.StudentStatusActive).
		WillReturnRows(rows)

	students, err := repo.ListUnassigned(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "DMU001", students[0].Code)
	assert.Equal(t, "DMU002", students[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListUnassignedLimit(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_code", "full_name", "gender", "disability", "status", "department", "year_level", "phone"}).
		AddRow("s-1", "DMU001", "Abebe Kebede", models.GenderMale, models.DisabilityNone, models.StudentStatusActive, "CS", 2, "0911")
	mock.ExpectQuery("ORDER BY s.student_code ASC LIMIT 1").
		WithArgs(models.PlacementStatusActive, models.StudentStatusActive).
		WillReturnRows(rows)

	students, err := repo.ListUnassigned(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM students WHERE student_code").
		WithArgs("DMU001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "DMU001", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM students WHERE student_code").
		WithArgs("DMU999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err = repo.ExistsByCode(context.Background(), "DMU999", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{Code: "DMU001", FullName: "Abebe Kebede", Gender: models.GenderMale}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.DisabilityNone, student.Disability)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryBulkUpdateStatus(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET status").
		WithArgs(models.StudentStatusInactive, models.StudentStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	affected, err := repo.BulkUpdateStatus(context.Background(), models.StudentStatusInactive, models.StudentStatusActive)
	require.NoError(t, err)
	assert.Equal(t, 4, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
