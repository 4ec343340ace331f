package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

// ExitPaperRepository manages persistence for exit-paper requests.
type ExitPaperRepository struct {
	db *sqlx.DB
}

// NewExitPaperRepository constructs an ExitPaperRepository.
func NewExitPaperRepository(db *sqlx.DB) *ExitPaperRepository {
	return &ExitPaperRepository{db: db}
}

const exitPaperColumns = `e.id, e.student_id, e.reason, e.leave_date, e.return_date, e.status, e.decided_by, e.decided_at, e.decision_note, e.created_at, e.updated_at,
        s.student_code, s.full_name AS student_name`

// List returns exit papers matching the provided filters.
func (r *ExitPaperRepository) List(ctx context.Context, filter models.ExitPaperFilter) ([]models.ExitPaperDetail, int, error) {
	base := `FROM exit_papers e JOIN students s ON s.id = e.student_id`
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY e.created_at DESC LIMIT %d OFFSET %d", exitPaperColumns, base, where, size, offset)

	var papers []models.ExitPaperDetail
	if err := r.db.SelectContext(ctx, &papers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list exit papers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count exit papers: %w", err)
	}
	return papers, total, nil
}

// FindByID fetches an exit paper with student context.
func (r *ExitPaperRepository) FindByID(ctx context.Context, id string) (*models.ExitPaperDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM exit_papers e JOIN students s ON s.id = e.student_id WHERE e.id = $1", exitPaperColumns)
	var paper models.ExitPaperDetail
	if err := r.db.GetContext(ctx, &paper, query, id); err != nil {
		return nil, err
	}
	return &paper, nil
}

// Create inserts a pending exit-paper request.
func (r *ExitPaperRepository) Create(ctx context.Context, paper *models.ExitPaper) error {
	if paper.ID == "" {
		paper.ID = uuid.NewString()
	}
	if paper.Status == "" {
		paper.Status = models.ExitPaperStatusPending
	}
	now := time.Now().UTC()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now
	const query = `INSERT INTO exit_papers (id, student_id, reason, leave_date, return_date, status, decision_note, created_at, updated_at)
        VALUES (:id, :student_id, :reason, :leave_date, :return_date, :status, :decision_note, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, paper); err != nil {
		return fmt.Errorf("create exit paper: %w", err)
	}
	return nil
}

// Decide records the approval or rejection of a pending paper. Only pending
// papers can be decided; the status guard keeps decisions single-shot.
func (r *ExitPaperRepository) Decide(ctx context.Context, id, status, note, decidedBy string) (bool, error) {
	const query = `UPDATE exit_papers
        SET status = $2, decision_note = $3, decided_by = $4, decided_at = $5, updated_at = $5
        WHERE id = $1 AND status = $6`
	result, err := r.db.ExecContext(ctx, query, id, status, note, decidedBy, time.Now().UTC(), models.ExitPaperStatusPending)
	if err != nil {
		return false, fmt.Errorf("decide exit paper: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decide exit paper rows: %w", err)
	}
	return affected > 0, nil
}
