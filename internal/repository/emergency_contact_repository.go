package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

// EmergencyContactRepository manages persistence for student contacts.
type EmergencyContactRepository struct {
	db *sqlx.DB
}

// NewEmergencyContactRepository constructs an EmergencyContactRepository.
func NewEmergencyContactRepository(db *sqlx.DB) *EmergencyContactRepository {
	return &EmergencyContactRepository{db: db}
}

// ListByStudent returns all contacts for a student.
func (r *EmergencyContactRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EmergencyContact, error) {
	const query = `SELECT id, student_id, full_name, relation, phone, address, created_at, updated_at
        FROM emergency_contacts WHERE student_id = $1 ORDER BY created_at ASC`
	var contacts []models.EmergencyContact
	if err := r.db.SelectContext(ctx, &contacts, query, studentID); err != nil {
		return nil, fmt.Errorf("list emergency contacts: %w", err)
	}
	return contacts, nil
}

// FindByID fetches a contact by ID.
func (r *EmergencyContactRepository) FindByID(ctx context.Context, id string) (*models.EmergencyContact, error) {
	const query = `SELECT id, student_id, full_name, relation, phone, address, created_at, updated_at FROM emergency_contacts WHERE id = $1`
	var contact models.EmergencyContact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create inserts a new contact record.
func (r *EmergencyContactRepository) Create(ctx context.Context, contact *models.EmergencyContact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now
	const query = `INSERT INTO emergency_contacts (id, student_id, full_name, relation, phone, address, created_at, updated_at)
        VALUES (:id, :student_id, :full_name, :relation, :phone, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("create emergency contact: %w", err)
	}
	return nil
}

// Update modifies an existing contact.
func (r *EmergencyContactRepository) Update(ctx context.Context, contact *models.EmergencyContact) error {
	contact.UpdatedAt = time.Now().UTC()
	const query = `UPDATE emergency_contacts SET full_name = :full_name, relation = :relation, phone = :phone, address = :address, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("update emergency contact: %w", err)
	}
	return nil
}

// Delete removes a contact record.
func (r *EmergencyContactRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete emergency contact: %w", err)
	}
	return nil
}
