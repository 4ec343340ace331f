package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type importStudentStore interface {
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

type importAssigner interface {
	AssignStudent(ctx context.Context, studentID, actorID string) (*models.Placement, error)
}

// ImportServiceConfig bounds CSV imports.
type ImportServiceConfig struct {
	MaxRows        int
	AssignOnImport bool
}

// ImportService loads students in bulk from CSV uploads. Expected columns:
// student_code, full_name, gender, disability, department, year_level, phone.
type ImportService struct {
	students  importStudentStore
	assigner  importAssigner
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ImportServiceConfig
}

// NewImportService constructs the import service.
func NewImportService(students importStudentStore, assigner importAssigner, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, cfg ImportServiceConfig) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	return &ImportService{students: students, assigner: assigner, audit: audit, validator: validate, logger: logger, cfg: cfg}
}

// ImportCSV reads the upload and registers each valid row. Row failures are
// collected; they never abort the import. When configured, every imported
// student gets an immediate assignment attempt.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, actorID string) (*dto.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty or unreadable csv")
	}
	columns, err := mapImportColumns(header)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	report := &dto.ImportReport{Errors: []string{}}
	row := 1
	processed := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: malformed record", row))
			continue
		}
		processed++
		if processed > s.cfg.MaxRows {
			// Rows created before the limit hit stay; the report tells the
			// caller how far the import got.
			return report, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("import exceeds %d rows", s.cfg.MaxRows))
		}

		req, err := buildImportRequest(columns, record)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", row, err.Error()))
			continue
		}
		if err := s.validator.Struct(req); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: invalid student data", row))
			continue
		}

		exists, err := s.students.ExistsByCode(ctx, req.Code, "")
		if err != nil {
			return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student code")
		}
		if exists {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: student code %s already exists", row, req.Code))
			continue
		}

		disability := req.Disability
		if disability == "" {
			disability = models.DisabilityNone
		}
		student := &models.Student{
			Code:       req.Code,
			FullName:   req.FullName,
			Gender:     req.Gender,
			Disability: disability,
			Status:     models.StudentStatusActive,
			Department: req.Department,
			YearLevel:  req.YearLevel,
			Phone:      req.Phone,
		}
		if err := s.students.Create(ctx, student); err != nil {
			return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
		}
		report.Imported++

		if s.cfg.AssignOnImport && s.assigner != nil {
			if _, err := s.assigner.AssignStudent(ctx, student.ID, actorID); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s: not assigned: %s", row, student.Code, appErrors.FromError(err).Message))
			} else {
				report.Assigned++
			}
		}
	}

	if s.audit != nil {
		log := &models.AuditLog{
			Action:    models.AuditActionStudentImport,
			Resource:  "student",
			NewValues: []byte(fmt.Sprintf(`{"imported":%d,"assigned":%d,"failed":%d}`, report.Imported, report.Assigned, len(report.Errors))),
		}
		if actorID != "" {
			log.UserID = &actorID
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to record import audit log", zap.Error(err))
		}
	}
	s.logger.Info("student import finished",
		zap.Int("imported", report.Imported),
		zap.Int("assigned", report.Assigned),
		zap.Int("failed", len(report.Errors)))
	return report, nil
}

func mapImportColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"student_code", "full_name", "gender"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %s", required)
		}
	}
	return columns, nil
}

func buildImportRequest(columns map[string]int, record []string) (dto.CreateStudentRequest, error) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	req := dto.CreateStudentRequest{
		Code:       get("student_code"),
		FullName:   get("full_name"),
		Gender:     strings.ToLower(get("gender")),
		Disability: strings.ToLower(get("disability")),
		Department: get("department"),
		Phone:      get("phone"),
	}
	if raw := get("year_level"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid year_level %q", raw)
		}
		req.YearLevel = year
	}
	return req, nil
}
