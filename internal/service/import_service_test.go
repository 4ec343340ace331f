package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type mockImportStore struct {
	existing map[string]bool
	created  []models.Student
}

func (m *mockImportStore) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return m.existing[code], nil
}

func (m *mockImportStore) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "id-" + student.Code
	}
	m.created = append(m.created, *student)
	if m.existing == nil {
		m.existing = make(map[string]bool)
	}
	m.existing[student.Code] = true
	return nil
}

type mockImportAssigner struct {
	failFor map[string]bool
	calls   []string
}

func (m *mockImportAssigner) AssignStudent(ctx context.Context, studentID, actorID string) (*models.Placement, error) {
	m.calls = append(m.calls, studentID)
	if m.failFor[studentID] {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "No available rooms found")
	}
	return &models.Placement{ID: "pl-" + studentID, StudentID: studentID}, nil
}

func TestImportCSV(t *testing.T) {
	store := &mockImportStore{existing: map[string]bool{"DMU0300": true}}
	csvData := strings.Join([]string{
		"student_code,full_name,gender,disability,department,year_level,phone",
		"DMU0100,Abebe Kebede,male,none,Software Engineering,2,0911000001",
		"DMU0200,Sara Alemu,female,,Nursing,1,",
		"DMU0300,Duplicate Entry,male,none,Law,3,",
		"DMU0400,Bad Gender,robot,none,Law,3,",
	}, "\n")

	svc := NewImportService(store, nil, nil, validator.New(), zap.NewNop(), ImportServiceConfig{})
	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Len(t, report.Errors, 2)
	require.Len(t, store.created, 2)
	assert.Equal(t, models.DisabilityNone, store.created[1].Disability)
}

func TestImportCSVAssignsWhenConfigured(t *testing.T) {
	store := &mockImportStore{}
	assigner := &mockImportAssigner{failFor: map[string]bool{"id-DMU0200": true}}
	audit := &mockAuditSink{}
	csvData := strings.Join([]string{
		"student_code,full_name,gender",
		"DMU0100,Abebe Kebede,male",
		"DMU0200,Sara Alemu,female",
	}, "\n")

	svc := NewImportService(store, assigner, audit, validator.New(), zap.NewNop(), ImportServiceConfig{AssignOnImport: true})
	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Assigned)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "DMU0200")
	assert.Len(t, assigner.calls, 2)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionStudentImport, audit.logs[0].Action)
}

func TestImportCSVMissingColumns(t *testing.T) {
	svc := NewImportService(&mockImportStore{}, nil, nil, validator.New(), zap.NewNop(), ImportServiceConfig{})

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("name,phone\nA,123"), "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student_code")
}

func TestImportCSVRowLimit(t *testing.T) {
	store := &mockImportStore{}
	rows := []string{"student_code,full_name,gender"}
	rows = append(rows, "DMU0100,A,male", "DMU0200,B,male", "DMU0300,C,male")
	svc := NewImportService(store, nil, nil, validator.New(), zap.NewNop(), ImportServiceConfig{MaxRows: 2})

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(strings.Join(rows, "\n")), "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 2 rows")
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Imported)
	assert.Len(t, store.created, 2)
}
