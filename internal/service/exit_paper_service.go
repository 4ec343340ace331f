package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/export"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type exitPaperRepository interface {
	List(ctx context.Context, filter models.ExitPaperFilter) ([]models.ExitPaperDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ExitPaperDetail, error)
	Create(ctx context.Context, paper *models.ExitPaper) error
	Decide(ctx context.Context, id, status, note, decidedBy string) (bool, error)
}

type exitPaperStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

type exitPaperNotifier interface {
	NotifyExitPaperDecision(paper *models.ExitPaperDetail)
}

type documentRenderer interface {
	RenderDocument(title string, fields [][2]string) ([]byte, error)
}

// ExitPaperServiceConfig gates optional behaviour.
type ExitPaperServiceConfig struct {
	PDFExport bool
}

// ExitPaperService handles student leave requests and their decisions.
type ExitPaperService struct {
	repo      exitPaperRepository
	students  exitPaperStudentReader
	audit     auditRecorder
	notifier  exitPaperNotifier
	pdf       documentRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExitPaperServiceConfig
}

// ExitPaperServiceParams groups constructor dependencies.
type ExitPaperServiceParams struct {
	Repo      exitPaperRepository
	Students  exitPaperStudentReader
	Audit     auditRecorder
	Notifier  exitPaperNotifier
	PDF       documentRenderer
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ExitPaperServiceConfig
}

// NewExitPaperService constructs the exit paper service.
func NewExitPaperService(params ExitPaperServiceParams) *ExitPaperService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExitPaperService{
		repo:      params.Repo,
		students:  params.Students,
		audit:     params.Audit,
		notifier:  params.Notifier,
		pdf:       pdf,
		validator: validate,
		logger:    logger,
		cfg:       params.Config,
	}
}

// List returns exit papers and pagination metadata.
func (s *ExitPaperService) List(ctx context.Context, filter models.ExitPaperFilter) ([]models.ExitPaperDetail, *models.Pagination, error) {
	papers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exit papers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return papers, pagination, nil
}

// Get returns one exit paper by ID.
func (s *ExitPaperService) Get(ctx context.Context, id string) (*models.ExitPaperDetail, error) {
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exit paper not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exit paper")
	}
	return paper, nil
}

// Create files a new leave request for an active student.
func (s *ExitPaperService) Create(ctx context.Context, req dto.CreateExitPaperRequest) (*models.ExitPaper, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exit paper payload")
	}
	leaveDate, err := time.Parse("2006-01-02", req.LeaveDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid leave date")
	}
	returnDate, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid return date")
	}
	if returnDate.Before(leaveDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "return date must not precede leave date")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.Status != models.StudentStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not active")
	}

	paper := &models.ExitPaper{
		StudentID:  req.StudentID,
		Reason:     req.Reason,
		LeaveDate:  leaveDate,
		ReturnDate: returnDate,
		Status:     models.ExitPaperStatusPending,
	}
	if err := s.repo.Create(ctx, paper); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exit paper")
	}
	return paper, nil
}

// Decide approves or rejects a pending exit paper. The decision is guarded
// against double-processing: once decided, a paper stays decided.
func (s *ExitPaperService) Decide(ctx context.Context, id string, req dto.DecideExitPaperRequest, actorID string) (*models.ExitPaperDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exit paper not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exit paper")
	}

	decided, err := s.repo.Decide(ctx, id, req.Decision, req.Note, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}
	if !decided {
		return nil, appErrors.Clone(appErrors.ErrConflict, "exit paper already decided")
	}

	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload exit paper")
	}

	if s.audit != nil {
		log := &models.AuditLog{
			Action:     models.AuditActionExitPaperDecide,
			Resource:   "exit_paper",
			ResourceID: &paper.ID,
			NewValues:  []byte(fmt.Sprintf(`{"decision":%q}`, req.Decision)),
		}
		if actorID != "" {
			log.UserID = &actorID
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to record exit paper audit log", zap.Error(err))
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyExitPaperDecision(paper)
	}
	return paper, nil
}

// ExportPDF renders a decided exit paper as a printable document.
func (s *ExitPaperService) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	if !s.cfg.PDFExport {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "pdf export is disabled")
	}
	paper, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if paper.Status == models.ExitPaperStatusPending {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "exit paper is not decided yet")
	}

	fields := [][2]string{
		{"Student Code", paper.StudentCode},
		{"Student Name", paper.StudentName},
		{"Reason", paper.Reason},
		{"Leave Date", paper.LeaveDate.Format("2006-01-02")},
		{"Return Date", paper.ReturnDate.Format("2006-01-02")},
		{"Status", paper.Status},
		{"Decision Note", paper.DecisionNote},
	}
	if paper.DecidedAt != nil {
		fields = append(fields, [2]string{"Decided At", paper.DecidedAt.UTC().Format(time.RFC3339)})
	}

	payload, err := s.pdf.RenderDocument("Exit Paper", fields)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render exit paper pdf")
	}
	filename := fmt.Sprintf("exit_paper_%s.pdf", paper.StudentCode)
	return payload, filename, nil
}
