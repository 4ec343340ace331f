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

// BlockRepository manages persistence for dormitory blocks.
type BlockRepository struct {
	db *sqlx.DB
}

// NewBlockRepository constructs a BlockRepository.
func NewBlockRepository(db *sqlx.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// List returns blocks matching the provided filters with room aggregates.
func (r *BlockRepository) List(ctx context.Context, filter models.BlockFilter) ([]models.BlockSummary, int, error) {
	base := `FROM blocks b LEFT JOIN rooms rm ON rm.block_id = b.id`
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.ReservedFor != "" {
		conditions = append(conditions, fmt.Sprintf("b.reserved_for = $%d", len(args)+1))
		args = append(args, filter.ReservedFor)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Accessible != nil {
		conditions = append(conditions, fmt.Sprintf("b.accessible = $%d", len(args)+1))
		args = append(args, *filter.Accessible)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(b.code) LIKE $%d OR LOWER(b.name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT b.id, b.code, b.name, b.reserved_for, b.accessible, b.status, b.created_at, b.updated_at,
        COUNT(rm.id) AS room_count,
        COALESCE(SUM(rm.capacity), 0) AS total_capacity,
        COALESCE(SUM(rm.current_occupancy), 0) AS occupied
        %s WHERE %s GROUP BY b.id ORDER BY b.code %s LIMIT %d OFFSET %d`, base, where, order, size, offset)

	var blocks []models.BlockSummary
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT b.id) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count blocks: %w", err)
	}
	return blocks, total, nil
}

// ListActive returns every active block ordered by code. Assignment relies on
// this fixed ordering for reproducible first-fit results.
func (r *BlockRepository) ListActive(ctx context.Context) ([]models.Block, error) {
	const query = `SELECT id, code, name, reserved_for, accessible, status, created_at, updated_at
        FROM blocks WHERE status = $1 ORDER BY code ASC`
	var blocks []models.Block
	if err := r.db.SelectContext(ctx, &blocks, query, models.BlockStatusActive); err != nil {
		return nil, fmt.Errorf("list active blocks: %w", err)
	}
	return blocks, nil
}

// FindByID fetches a block by ID.
func (r *BlockRepository) FindByID(ctx context.Context, id string) (*models.Block, error) {
	const query = `SELECT id, code, name, reserved_for, accessible, status, created_at, updated_at FROM blocks WHERE id = $1`
	var block models.Block
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// ExistsByCode checks if a block with the given code exists.
func (r *BlockRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM blocks WHERE code = $1"
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
		return false, fmt.Errorf("check block code: %w", err)
	}
	return true, nil
}

// Create inserts a new block record.
func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	if block.Status == "" {
		block.Status = models.BlockStatusActive
	}
	now := time.Now().UTC()
	if block.CreatedAt.IsZero() {
		block.CreatedAt = now
	}
	block.UpdatedAt = now
	const query = `INSERT INTO blocks (id, code, name, reserved_for, accessible, status, created_at, updated_at)
        VALUES (:id, :code, :name, :reserved_for, :accessible, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

// Update modifies an existing block.
func (r *BlockRepository) Update(ctx context.Context, block *models.Block) error {
	block.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blocks SET name = :name, reserved_for = :reserved_for, accessible = :accessible, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	return nil
}

// Deactivate marks a block inactive, removing it from assignment.
func (r *BlockRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE blocks SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.BlockStatusInactive, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate block: %w", err)
	}
	return nil
}
