package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type emergencyContactRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EmergencyContact, error)
	FindByID(ctx context.Context, id string) (*models.EmergencyContact, error)
	Create(ctx context.Context, contact *models.EmergencyContact) error
	Update(ctx context.Context, contact *models.EmergencyContact) error
	Delete(ctx context.Context, id string) error
}

type contactStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// EmergencyContactService manages per-student emergency contacts.
type EmergencyContactService struct {
	repo      emergencyContactRepository
	students  contactStudentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmergencyContactService constructs the contact service.
func NewEmergencyContactService(repo emergencyContactRepository, students contactStudentReader, validate *validator.Validate, logger *zap.Logger) *EmergencyContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmergencyContactService{repo: repo, students: students, validator: validate, logger: logger}
}

// ListByStudent returns all contacts registered for a student.
func (s *EmergencyContactService) ListByStudent(ctx context.Context, studentID string) ([]models.EmergencyContact, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	contacts, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contacts")
	}
	return contacts, nil
}

// Create registers a contact for a student.
func (s *EmergencyContactService) Create(ctx context.Context, studentID string, req dto.UpsertEmergencyContactRequest) (*models.EmergencyContact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	contact := &models.EmergencyContact{
		StudentID: studentID,
		FullName:  req.FullName,
		Relation:  req.Relation,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contact")
	}
	return contact, nil
}

// Update modifies an existing contact.
func (s *EmergencyContactService) Update(ctx context.Context, id string, req dto.UpsertEmergencyContactRequest) (*models.EmergencyContact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}
	contact.FullName = req.FullName
	contact.Relation = req.Relation
	contact.Phone = req.Phone
	contact.Address = req.Address
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contact")
	}
	return contact, nil
}

// Delete removes a contact.
func (s *EmergencyContactService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "contact not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete contact")
	}
	return nil
}
