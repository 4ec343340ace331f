package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

// ErrRoomFilled indicates the guarded occupancy update matched no row: the
// room lost its last free slot between selection and write.
var ErrRoomFilled = errors.New("room has no free slot")

// PlacementRepository manages persistence for placements and the paired room
// occupancy updates.
type PlacementRepository struct {
	db *sqlx.DB
}

// NewPlacementRepository constructs a PlacementRepository.
func NewPlacementRepository(db *sqlx.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// Place writes a placement and increments the target room's occupancy in one
// transaction. The occupancy update is guarded by capacity in the WHERE
// clause; when it matches no row the transaction rolls back and ErrRoomFilled
// is returned so the caller can pick another room.
func (r *PlacementRepository) Place(ctx context.Context, placement *models.Placement) error {
	if placement.ID == "" {
		placement.ID = uuid.NewString()
	}
	if placement.Status == "" {
		placement.Status = models.PlacementStatusActive
	}
	now := time.Now().UTC()
	if placement.CreatedAt.IsZero() {
		placement.CreatedAt = now
	}
	if placement.AssignedDate.IsZero() {
		placement.AssignedDate = now
	}
	if placement.Year == 0 {
		placement.Year = now.Year()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin placement tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const roomQuery = `UPDATE rooms
        SET current_occupancy = current_occupancy + 1,
            status = CASE WHEN current_occupancy + 1 >= capacity THEN $2 ELSE status END,
            updated_at = $3
        WHERE id = $1 AND status = $4 AND current_occupancy < capacity`
	result, err := tx.ExecContext(ctx, roomQuery, placement.RoomID, models.RoomStatusOccupied, now, models.RoomStatusAvailable)
	if err != nil {
		return fmt.Errorf("increment room occupancy: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment room occupancy rows: %w", err)
	}
	if affected == 0 {
		return ErrRoomFilled
	}

	const placementQuery = `INSERT INTO placements (id, student_id, room_id, block_id, year, status, assigned_date, created_at)
        VALUES (:id, :student_id, :room_id, :block_id, :year, :status, :assigned_date, :created_at)`
	if _, err := tx.NamedExecContext(ctx, placementQuery, placement); err != nil {
		return fmt.Errorf("create placement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit placement tx: %w", err)
	}
	return nil
}

// FindActiveByStudent returns the student's active placement, if any.
func (r *PlacementRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.Placement, error) {
	const query = `SELECT id, student_id, room_id, block_id, year, status, assigned_date, created_at
        FROM placements WHERE student_id = $1 AND status = $2 LIMIT 1`
	var placement models.Placement
	if err := r.db.GetContext(ctx, &placement, query, studentID, models.PlacementStatusActive); err != nil {
		return nil, err
	}
	return &placement, nil
}

// List returns the placement roster with student and room context.
func (r *PlacementRepository) List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, int, error) {
	base := `FROM placements p
        JOIN students s ON s.id = p.student_id
        JOIN rooms rm ON rm.id = p.room_id
        JOIN blocks b ON b.id = p.block_id`
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("p.block_id = $%d", len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR LOWER(s.student_code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`SELECT p.id, p.student_id, p.room_id, p.block_id, p.year, p.status, p.assigned_date, p.created_at,
        s.student_code, s.full_name AS student_name, rm.number AS room_number, b.code AS block_code, b.name AS block_name
        %s WHERE %s ORDER BY s.student_code ASC`, base, where)

	// PageSize <= 0 means no paging; the CSV export relies on that to cover
	// the whole roster.
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

	var placements []models.PlacementDetail
	if err := r.db.SelectContext(ctx, &placements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list placements: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count placements: %w", err)
	}
	return placements, total, nil
}

// Remove deletes one placement and decrements its room occupancy in one
// transaction, recomputing the room status.
func (r *PlacementRepository) Remove(ctx context.Context, placementID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unassign tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var placement models.Placement
	const findQuery = `SELECT id, student_id, room_id, block_id, year, status, assigned_date, created_at FROM placements WHERE id = $1`
	if err := tx.GetContext(ctx, &placement, findQuery, placementID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("find placement: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE id = $1`, placementID); err != nil {
		return fmt.Errorf("delete placement: %w", err)
	}

	const roomQuery = `UPDATE rooms
        SET current_occupancy = GREATEST(current_occupancy - 1, 0),
            status = CASE WHEN status = $2 THEN $3 ELSE status END,
            updated_at = $4
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, roomQuery, placement.RoomID, models.RoomStatusOccupied, models.RoomStatusAvailable, time.Now().UTC()); err != nil {
		return fmt.Errorf("decrement room occupancy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unassign tx: %w", err)
	}
	return nil
}

// DeleteAll removes every placement and resets all rooms to empty and
// available in a single transaction, returning the removed count.
func (r *PlacementRepository) DeleteAll(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin unassign-all tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM placements`)
	if err != nil {
		return 0, fmt.Errorf("delete placements: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete placements rows: %w", err)
	}

	const resetQuery = `UPDATE rooms SET current_occupancy = 0, status = $1, updated_at = $2`
	if _, err := tx.ExecContext(ctx, resetQuery, models.RoomStatusAvailable, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("reset rooms: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit unassign-all tx: %w", err)
	}
	return int(removed), nil
}

// CountActive returns the number of active placements.
func (r *PlacementRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM placements WHERE status = $1`, models.PlacementStatusActive); err != nil {
		return 0, fmt.Errorf("count active placements: %w", err)
	}
	return total, nil
}
