package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

type mockExitPaperRepo struct {
	papers  map[string]models.ExitPaperDetail
	decided []string
}

func (m *mockExitPaperRepo) List(ctx context.Context, filter models.ExitPaperFilter) ([]models.ExitPaperDetail, int, error) {
	out := make([]models.ExitPaperDetail, 0, len(m.papers))
	for _, p := range m.papers {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockExitPaperRepo) FindByID(ctx context.Context, id string) (*models.ExitPaperDetail, error) {
	if p, ok := m.papers[id]; ok {
		paper := p
		return &paper, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockExitPaperRepo) Create(ctx context.Context, paper *models.ExitPaper) error {
	if m.papers == nil {
		m.papers = make(map[string]models.ExitPaperDetail)
	}
	if paper.ID == "" {
		paper.ID = "generated"
	}
	m.papers[paper.ID] = models.ExitPaperDetail{ExitPaper: *paper}
	return nil
}

func (m *mockExitPaperRepo) Decide(ctx context.Context, id, status, note, decidedBy string) (bool, error) {
	p, ok := m.papers[id]
	if !ok || p.Status != models.ExitPaperStatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	p.Status = status
	p.DecisionNote = note
	p.DecidedBy = &decidedBy
	p.DecidedAt = &now
	m.papers[id] = p
	m.decided = append(m.decided, id)
	return true, nil
}

type mockExitPaperStudents struct {
	students map[string]models.Student
}

func (m *mockExitPaperStudents) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &models.StudentDetail{Student: s}, nil
	}
	return nil, sql.ErrNoRows
}

type mockExitPaperNotifier struct {
	notified []string
}

func (m *mockExitPaperNotifier) NotifyExitPaperDecision(paper *models.ExitPaperDetail) {
	m.notified = append(m.notified, paper.ID)
}

type mockAuditSink struct {
	logs []models.AuditLog
}

func (m *mockAuditSink) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func newExitPaperService(repo *mockExitPaperRepo, students *mockExitPaperStudents, notifier *mockExitPaperNotifier, audit *mockAuditSink, cfg ExitPaperServiceConfig) *ExitPaperService {
	return NewExitPaperService(ExitPaperServiceParams{
		Repo:      repo,
		Students:  students,
		Audit:     audit,
		Notifier:  notifier,
		Validator: validator.New(),
		Logger:    zap.NewNop(),
		Config:    cfg,
	})
}

func TestExitPaperCreate(t *testing.T) {
	repo := &mockExitPaperRepo{}
	students := &mockExitPaperStudents{students: map[string]models.Student{
		"s1": {ID: "s1", Code: "DMU001", Status: models.StudentStatusActive},
	}}
	svc := newExitPaperService(repo, students, nil, nil, ExitPaperServiceConfig{})

	paper, err := svc.Create(context.Background(), dto.CreateExitPaperRequest{
		StudentID:  "s1",
		Reason:     "family visit",
		LeaveDate:  "2026-09-01",
		ReturnDate: "2026-09-05",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExitPaperStatusPending, paper.Status)
}

func TestExitPaperCreateRejectsBackwardDates(t *testing.T) {
	repo := &mockExitPaperRepo{}
	students := &mockExitPaperStudents{students: map[string]models.Student{
		"s1": {ID: "s1", Code: "DMU001", Status: models.StudentStatusActive},
	}}
	svc := newExitPaperService(repo, students, nil, nil, ExitPaperServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateExitPaperRequest{
		StudentID:  "s1",
		Reason:     "family visit",
		LeaveDate:  "2026-09-05",
		ReturnDate: "2026-09-01",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "return date")
}

func TestExitPaperDecideApproves(t *testing.T) {
	repo := &mockExitPaperRepo{papers: map[string]models.ExitPaperDetail{
		"ep1": {ExitPaper: models.ExitPaper{ID: "ep1", StudentID: "s1", Status: models.ExitPaperStatusPending}, StudentCode: "DMU001"},
	}}
	notifier := &mockExitPaperNotifier{}
	audit := &mockAuditSink{}
	svc := newExitPaperService(repo, nil, notifier, audit, ExitPaperServiceConfig{})

	paper, err := svc.Decide(context.Background(), "ep1", dto.DecideExitPaperRequest{Decision: models.ExitPaperStatusApproved, Note: "ok"}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExitPaperStatusApproved, paper.Status)
	assert.Contains(t, notifier.notified, "ep1")
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionExitPaperDecide, audit.logs[0].Action)
}

func TestExitPaperDecideOnlyOnce(t *testing.T) {
	repo := &mockExitPaperRepo{papers: map[string]models.ExitPaperDetail{
		"ep1": {ExitPaper: models.ExitPaper{ID: "ep1", StudentID: "s1", Status: models.ExitPaperStatusApproved}},
	}}
	svc := newExitPaperService(repo, nil, nil, nil, ExitPaperServiceConfig{})

	_, err := svc.Decide(context.Background(), "ep1", dto.DecideExitPaperRequest{Decision: models.ExitPaperStatusRejected}, "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already decided")
}

func TestExitPaperExportPDF(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockExitPaperRepo{papers: map[string]models.ExitPaperDetail{
		"ep1": {
			ExitPaper:   models.ExitPaper{ID: "ep1", StudentID: "s1", Status: models.ExitPaperStatusApproved, LeaveDate: now, ReturnDate: now, DecidedAt: &now},
			StudentCode: "DMU001",
			StudentName: "Abebe Kebede",
		},
	}}
	svc := newExitPaperService(repo, nil, nil, nil, ExitPaperServiceConfig{PDFExport: true})

	payload, filename, err := svc.ExportPDF(context.Background(), "ep1")
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Equal(t, "exit_paper_DMU001.pdf", filename)
}

func TestExitPaperExportPDFDisabled(t *testing.T) {
	svc := newExitPaperService(&mockExitPaperRepo{}, nil, nil, nil, ExitPaperServiceConfig{PDFExport: false})

	_, _, err := svc.ExportPDF(context.Background(), "ep1")
	require.Error(t, err)
}

func TestExitPaperExportPDFRequiresDecision(t *testing.T) {
	repo := &mockExitPaperRepo{papers: map[string]models.ExitPaperDetail{
		"ep1": {ExitPaper: models.ExitPaper{ID: "ep1", Status: models.ExitPaperStatusPending}},
	}}
	svc := newExitPaperService(repo, nil, nil, nil, ExitPaperServiceConfig{PDFExport: true})

	_, _, err := svc.ExportPDF(context.Background(), "ep1")
	require.Error(t, err)
}
