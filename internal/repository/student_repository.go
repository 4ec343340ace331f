package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentDetailColumns = `s.id, s.student_code, s.full_name, s.gender, s.disability, s.status, s.department, s.year_level, s.phone, s.created_at, s.updated_at,
        p.id AS placement_id, p.room_id, r.number AS room_number, p.block_id, b.name AS block_name, p.assigned_date`

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
        LEFT JOIN placements p ON p.student_id = s.id AND p.status = $1
        LEFT JOIN rooms r ON r.id = p.room_id
        LEFT JOIN blocks b ON b.id = p.block_id`
	args := []interface{}{models.PlacementStatusActive}
	conditions := []string{"1=1"}

	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("s.gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Unplaced != nil {
		if *filter.Unplaced {
			conditions = append(conditions, "p.id IS NULL")
		} else {
			conditions = append(conditions, "p.id IS NOT NULL")
		}
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR LOWER(s.student_code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"full_name":    "s.full_name",
		"student_code": "s.student_code",
		"created_at":   "s.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s", studentDetailColumns, base, column, order)

	// PageSize <= 0 means no paging; the CSV export relies on that.
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		size := filter.PageSize
		if size > 100 {
			size = 100
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, size, (page-1)*size)
	}

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM students s
        LEFT JOIN placements p ON p.student_id = s.id AND p.status = $2
        LEFT JOIN rooms r ON r.id = p.room_id
        LEFT JOIN blocks b ON b.id = p.block_id
        WHERE s.id = $1`, studentDetailColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.PlacementStatusActive); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByCode checks if a student with given code exists optionally excluding an ID.
func (r *StudentRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student code: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.Disability == "" {
		student.Disability = models.DisabilityNone
	}
	if student.Status == "" {
		student.Status = models.StudentStatusActive
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, student_code, full_name, gender, disability, status, department, year_level, phone, created_at, updated_at)
        VALUES (:id, :student_code, :full_name, :gender, :disability, :status, :department, :year_level, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, gender = :gender, disability = :disability, status = :status, department = :department, year_level = :year_level, phone = :phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.StudentStatusInactive, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}

// ListUnassigned returns active students with no active placement, ordered by
// student code so repeated assignment passes process students in the same
// sequence.
func (r *StudentRepository) ListUnassigned(ctx context.Context, limit int) ([]models.Student, error) {
	query := `SELECT s.id, s.student_code, s.full_name, s.gender, s.disability, s.status, s.department, s.year_level, s.phone, s.created_at, s.updated_at
        FROM students s
        LEFT JOIN placements p ON p.student_id = s.id AND p.status = $1
        WHERE s.status = $2 AND p.id IS NULL
        ORDER BY s.student_code ASC`
	args := []interface{}{models.PlacementStatusActive, models.StudentStatusActive}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list unassigned students: %w", err)
	}
	return students, nil
}

// BulkUpdateStatus flips every student currently in fromStatus to toStatus and
// returns the number of affected rows.
func (r *StudentRepository) BulkUpdateStatus(ctx context.Context, fromStatus, toStatus string) (int, error) {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE status = $1`
	result, err := r.db.ExecContext(ctx, query, fromStatus, toStatus, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("bulk update student status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update student status rows: %w", err)
	}
	return int(affected), nil
}
