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

// MaintenanceRepository manages persistence for maintenance requests.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs a MaintenanceRepository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// List returns maintenance requests matching the provided filters.
func (r *MaintenanceRepository) List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequestDetail, int, error) {
	base := `FROM maintenance_requests m
        JOIN rooms rm ON rm.id = m.room_id
        JOIN blocks b ON b.id = rm.block_id`
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("m.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("rm.block_id = $%d", len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("m.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("m.priority = $%d", len(args)+1))
		args = append(args, filter.Priority)
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

	query := fmt.Sprintf(`SELECT m.id, m.room_id, m.reported_by, m.description, m.priority, m.status, m.resolved_at, m.created_at, m.updated_at,
        rm.number AS room_number, b.code AS block_code
        %s WHERE %s ORDER BY m.created_at DESC LIMIT %d OFFSET %d`, base, where, size, offset)

	var requests []models.MaintenanceRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list maintenance requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count maintenance requests: %w", err)
	}
	return requests, total, nil
}

// FindByID fetches a maintenance request by ID.
func (r *MaintenanceRepository) FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	const query = `SELECT id, room_id, reported_by, description, priority, status, resolved_at, created_at, updated_at FROM maintenance_requests WHERE id = $1`
	var request models.MaintenanceRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new maintenance request.
func (r *MaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.MaintenanceStatusOpen
	}
	if request.Priority == "" {
		request.Priority = models.MaintenancePriorityMedium
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	const query = `INSERT INTO maintenance_requests (id, room_id, reported_by, description, priority, status, created_at, updated_at)
        VALUES (:id, :room_id, :reported_by, :description, :priority, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}
	return nil
}

// UpdateStatus advances a request through its workflow, stamping resolution.
func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id, status string) error {
	now := time.Now().UTC()
	var resolvedAt *time.Time
	if status == models.MaintenanceStatusResolved {
		resolvedAt = &now
	}
	const query = `UPDATE maintenance_requests SET status = $2, resolved_at = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, resolvedAt, now); err != nil {
		return fmt.Errorf("update maintenance status: %w", err)
	}
	return nil
}
