package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

// DashboardRepository computes occupancy aggregates for the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// BlockOccupancies returns per-block occupancy rollups ordered by block code.
func (r *DashboardRepository) BlockOccupancies(ctx context.Context) ([]dto.BlockOccupancy, error) {
	const query = `SELECT b.id AS block_id, b.code AS block_code, b.name AS block_name, b.reserved_for,
        COUNT(rm.id) AS room_count,
        COALESCE(SUM(rm.capacity), 0) AS total_capacity,
        COALESCE(SUM(rm.current_occupancy), 0) AS occupied,
        COALESCE(SUM(rm.capacity), 0) - COALESCE(SUM(rm.current_occupancy), 0) AS free_slots
        FROM blocks b
        LEFT JOIN rooms rm ON rm.block_id = b.id
        GROUP BY b.id
        ORDER BY b.code ASC`
	var blocks []dto.BlockOccupancy
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("block occupancies: %w", err)
	}
	return blocks, nil
}

// CountUnassigned returns the number of active students without a placement.
func (r *DashboardRepository) CountUnassigned(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM students s
        LEFT JOIN placements p ON p.student_id = s.id AND p.status = $1
        WHERE s.status = $2 AND p.id IS NULL`
	var total int
	if err := r.db.GetContext(ctx, &total, query, models.PlacementStatusActive, models.StudentStatusActive); err != nil {
		return 0, fmt.Errorf("count unassigned students: %w", err)
	}
	return total, nil
}

// CountActivePlacements returns the number of active placements.
func (r *DashboardRepository) CountActivePlacements(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM placements WHERE status = $1`, models.PlacementStatusActive); err != nil {
		return 0, fmt.Errorf("count active placements: %w", err)
	}
	return total, nil
}
