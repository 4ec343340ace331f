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

// RoomRepository manages persistence for dormitory rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching the provided filters.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error) {
	base := `FROM rooms rm JOIN blocks b ON b.id = rm.block_id`
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("rm.block_id = $%d", len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("rm.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Floor != nil {
		conditions = append(conditions, fmt.Sprintf("rm.floor = $%d", len(args)+1))
		args = append(args, *filter.Floor)
	}
	if filter.Accessible != nil {
		conditions = append(conditions, fmt.Sprintf("rm.accessible = $%d", len(args)+1))
		args = append(args, *filter.Accessible)
	}
	if filter.HasSpace != nil && *filter.HasSpace {
		conditions = append(conditions, "rm.current_occupancy < rm.capacity")
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

	query := fmt.Sprintf(`SELECT rm.id, rm.block_id, rm.number, rm.floor, rm.capacity, rm.current_occupancy, rm.status, rm.accessible, rm.created_at, rm.updated_at,
        b.code AS block_code, b.name AS block_name
        %s WHERE %s ORDER BY b.code ASC, rm.floor ASC, rm.number ASC LIMIT %d OFFSET %d`, base, where, size, offset)

	var rooms []models.RoomDetail
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}
	return rooms, total, nil
}

// ListAvailableByBlock returns rooms with spare capacity for one block, in
// fixed floor-then-number order. The assignment engine takes the first entry.
func (r *RoomRepository) ListAvailableByBlock(ctx context.Context, blockID string) ([]models.Room, error) {
	const query = `SELECT id, block_id, number, floor, capacity, current_occupancy, status, accessible, created_at, updated_at
        FROM rooms
        WHERE block_id = $1 AND status = $2 AND current_occupancy < capacity
        ORDER BY floor ASC, number ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, blockID, models.RoomStatusAvailable); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, block_id, number, floor, capacity, current_occupancy, status, accessible, created_at, updated_at FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByNumber checks whether a room number is taken within a block.
func (r *RoomRepository) ExistsByNumber(ctx context.Context, blockID, number, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE block_id = $1 AND number = $2"
	args := []interface{}{blockID, number}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room number: %w", err)
	}
	return true, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, block_id, number, floor, capacity, current_occupancy, status, accessible, created_at, updated_at)
        VALUES (:id, :block_id, :number, :floor, :capacity, :current_occupancy, :status, :accessible, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies room attributes that admins may edit.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET floor = :floor, capacity = :capacity, status = :status, accessible = :accessible, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// SetStatus updates only the room status, used by maintenance workflows.
func (r *RoomRepository) SetStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE rooms SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("set room status: %w", err)
	}
	return nil
}
