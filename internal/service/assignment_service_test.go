package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/repository"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

// assignWorld is a stateful in-memory stand-in for the assignment data layer.
type assignWorld struct {
	students      []models.Student
	blocks        []models.Block
	rooms         map[string][]models.Room
	occupancy     map[string]int
	placed        []models.Placement
	failPlaceOnce map[string]bool
	listRoomsErr  error
	audits        []models.AuditLog
	bulkFrom      string
	bulkTo        string
	bulkCount     int
}

func (w *assignWorld) ListUnassigned(ctx context.Context, limit int) ([]models.Student, error) {
	out := make([]models.Student, 0, len(w.students))
	for _, s := range w.students {
		if s.Status != models.StudentStatusActive {
			continue
		}
		if w.hasPlacement(s.ID) {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (w *assignWorld) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	for _, s := range w.students {
		if s.ID == id {
			return &models.StudentDetail{Student: s}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (w *assignWorld) BulkUpdateStatus(ctx context.Context, fromStatus, toStatus string) (int, error) {
	w.bulkFrom, w.bulkTo = fromStatus, toStatus
	w.bulkCount++
	count := 0
	for i, s := range w.students {
		if s.Status == fromStatus {
			w.students[i].Status = toStatus
			count++
		}
	}
	return count, nil
}

func (w *assignWorld) ListActive(ctx context.Context) ([]models.Block, error) {
	out := make([]models.Block, 0, len(w.blocks))
	for _, b := range w.blocks {
		if b.Status == models.BlockStatusActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (w *assignWorld) ListAvailableByBlock(ctx context.Context, blockID string) ([]models.Room, error) {
	if w.listRoomsErr != nil {
		return nil, w.listRoomsErr
	}
	out := make([]models.Room, 0)
	for _, r := range w.rooms[blockID] {
		r.CurrentOccupancy = w.occupancy[r.ID]
		if r.HasVacancy() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (w *assignWorld) Place(ctx context.Context, placement *models.Placement) error {
	if w.failPlaceOnce[placement.RoomID] {
		delete(w.failPlaceOnce, placement.RoomID)
		return repository.ErrRoomFilled
	}
	room := w.findRoom(placement.RoomID)
	if room == nil || w.occupancy[room.ID] >= room.Capacity {
		return repository.ErrRoomFilled
	}
	if w.occupancy == nil {
		w.occupancy = make(map[string]int)
	}
	w.occupancy[room.ID]++
	placement.ID = "pl-" + placement.StudentID
	placement.Status = models.PlacementStatusActive
	w.placed = append(w.placed, *placement)
	return nil
}

func (w *assignWorld) FindActiveByStudent(ctx context.Context, studentID string) (*models.Placement, error) {
	for _, p := range w.placed {
		if p.StudentID == studentID && p.Status == models.PlacementStatusActive {
			placement := p
			return &placement, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (w *assignWorld) DeleteAll(ctx context.Context) (int, error) {
	count := len(w.placed)
	w.placed = nil
	w.occupancy = make(map[string]int)
	return count, nil
}

func (w *assignWorld) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	w.audits = append(w.audits, *log)
	return nil
}

func (w *assignWorld) hasPlacement(studentID string) bool {
	for _, p := range w.placed {
		if p.StudentID == studentID {
			return true
		}
	}
	return false
}

func (w *assignWorld) findRoom(roomID string) *models.Room {
	for _, rooms := range w.rooms {
		for _, r := range rooms {
			if r.ID == roomID {
				room := r
				return &room
			}
		}
	}
	return nil
}

func (w *assignWorld) roomOf(t *testing.T, studentID string) string {
	t.Helper()
	for _, p := range w.placed {
		if p.StudentID == studentID {
			return p.RoomID
		}
	}
	t.Fatalf("student %s has no placement", studentID)
	return ""
}

func newAssignService(w *assignWorld, cfg AssignmentConfig) *AssignmentService {
	return NewAssignmentService(AssignmentServiceParams{
		Students:   w,
		Blocks:     w,
		Rooms:      w,
		Placements: w,
		Audit:      w,
		Logger:     zap.NewNop(),
		Config:     cfg,
	})
}

func activeStudent(id, code, gender, disability string) models.Student {
	return models.Student{ID: id, Code: code, FullName: code, Gender: gender, Disability: disability, Status: models.StudentStatusActive}
}

func activeBlock(id, code, reservedFor string, accessible bool) models.Block {
	return models.Block{ID: id, Code: code, Name: code, ReservedFor: reservedFor, Accessible: accessible, Status: models.BlockStatusActive}
}

func availableRoom(id, blockID, number string, capacity int) models.Room {
	return models.Room{ID: id, BlockID: blockID, Number: number, Capacity: capacity, Status: models.RoomStatusAvailable}
}

func TestAutoAssignAllMatchesGenderReservations(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
			activeStudent("s2", "DMU002", models.GenderFemale, models.DisabilityNone),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
			activeBlock("b2", "B", models.BlockReservedFemale, false),
		},
		rooms: map[string][]models.Room{
			"b1": {availableRoom("r1", "b1", "101", 2)},
			"b2": {availableRoom("r2", "b2", "101", 2)},
		},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Assigned)
	assert.Empty(t, report.Errors)
	assert.Equal(t, "r1", w.roomOf(t, "s1"))
	assert.Equal(t, "r2", w.roomOf(t, "s2"))
	require.Len(t, w.audits, 1)
	assert.Equal(t, models.AuditActionAutoAssign, w.audits[0].Action)
}

func TestAutoAssignAllPrefersAccessibleBlockForDisability(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityPhysical),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
			activeBlock("b2", "B", models.BlockReservedMale, true),
		},
		rooms: map[string][]models.Room{
			"b1": {availableRoom("r1", "b1", "101", 4)},
			"b2": {availableRoom("r2", "b2", "101", 4)},
		},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, "r2", w.roomOf(t, "s1"))
}

func TestAutoAssignAllReportsStudentsWithoutEligibleBlock(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderFemale, models.DisabilityNone),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
		},
		rooms:     map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 2)}},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "DMU001: No suitable blocks available", report.Errors[0])
}

func TestAutoAssignAllReportsFullBlocks(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
			activeStudent("s2", "DMU002", models.GenderMale, models.DisabilityNone),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
		},
		rooms:     map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 1)}},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "DMU002: No available rooms found", report.Errors[0])
}

func TestAutoAssignAllFillsRoomsFirstFit(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
			activeStudent("s2", "DMU002", models.GenderMale, models.DisabilityNone),
			activeStudent("s3", "DMU003", models.GenderMale, models.DisabilityNone),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
		},
		rooms: map[string][]models.Room{
			"b1": {
				availableRoom("r1", "b1", "101", 2),
				availableRoom("r2", "b1", "102", 2),
			},
		},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Assigned)
	assert.Equal(t, "r1", w.roomOf(t, "s1"))
	assert.Equal(t, "r1", w.roomOf(t, "s2"))
	assert.Equal(t, "r2", w.roomOf(t, "s3"))
}

func TestAutoAssignAllNoOpWhenEveryoneIsPlaced(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		blocks:    []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms:     map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 2)}},
		occupancy: map[string]int{"r1": 1},
		placed: []models.Placement{
			{ID: "pl-s1", StudentID: "s1", RoomID: "r1", Status: models.PlacementStatusActive},
		},
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, w.occupancy["r1"])
	assert.Len(t, w.placed, 1)
}

func TestUnassignThenReassignReproducesCount(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
			activeStudent("s2", "DMU002", models.GenderMale, models.DisabilityNone),
			activeStudent("s3", "DMU003", models.GenderFemale, models.DisabilityNone),
		},
		blocks: []models.Block{
			activeBlock("b1", "A", models.BlockReservedMale, false),
			activeBlock("b2", "B", models.BlockReservedFemale, false),
		},
		rooms: map[string][]models.Room{
			"b1": {availableRoom("r1", "b1", "101", 2)},
			"b2": {availableRoom("r2", "b2", "101", 2)},
		},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{})

	first, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Equal(t, 3, first.Assigned)

	cleared, err := svc.UnassignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 3, cleared.Count)
	assert.Empty(t, w.placed)

	second, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, first.Assigned, second.Assigned)
	assert.Empty(t, second.Errors)
	assert.Equal(t, "r1", w.roomOf(t, "s1"))
	assert.Equal(t, "r2", w.roomOf(t, "s3"))
}

func TestAutoAssignAllRespectsBatchLimit(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
			activeStudent("s2", "DMU002", models.GenderMale, models.DisabilityNone),
			activeStudent("s3", "DMU003", models.GenderMale, models.DisabilityNone),
		},
		blocks:    []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms:     map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 8)}},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{MaxBatchSize: 2})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Assigned)
}

func TestAssignOneRetriesNextRoomOnConflict(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		blocks: []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms: map[string][]models.Room{
			"b1": {
				availableRoom("r1", "b1", "101", 2),
				availableRoom("r2", "b1", "102", 2),
			},
		},
		occupancy:     make(map[string]int),
		failPlaceOnce: map[string]bool{"r1": true},
	}
	svc := newAssignService(w, AssignmentConfig{})

	placement, err := svc.AssignStudent(context.Background(), "s1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "r2", placement.RoomID)
}

func TestAssignStudentConflictOnEveryCandidate(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		blocks:        []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms:         map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 2)}},
		occupancy:     make(map[string]int),
		failPlaceOnce: map[string]bool{"r1": true},
	}
	svc := newAssignService(w, AssignmentConfig{})

	_, err := svc.AssignStudent(context.Background(), "s1", "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoomLockConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignStudentRejectsExistingPlacement(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		blocks:    []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms:     map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 2)}},
		occupancy: make(map[string]int),
		placed: []models.Placement{
			{ID: "pl-s1", StudentID: "s1", RoomID: "r1", Status: models.PlacementStatusActive},
		},
	}
	svc := newAssignService(w, AssignmentConfig{})

	_, err := svc.AssignStudent(context.Background(), "s1", "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active placement")
}

func TestAssignStudentUnknownStudent(t *testing.T) {
	w := &assignWorld{occupancy: make(map[string]int)}
	svc := newAssignService(w, AssignmentConfig{})

	_, err := svc.AssignStudent(context.Background(), "missing", "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUnassignAllClearsPlacements(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		occupancy: map[string]int{"r1": 1},
		placed: []models.Placement{
			{ID: "pl-s1", StudentID: "s1", RoomID: "r1", Status: models.PlacementStatusActive},
		},
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.UnassignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)
	assert.Empty(t, w.placed)
	assert.Zero(t, w.bulkCount)
	require.Len(t, w.audits, 1)
	assert.Equal(t, models.AuditActionUnassignAll, w.audits[0].Action)
}

func TestUnassignAllReactivatesWhenConfigured(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			{ID: "s1", Code: "DMU001", Gender: models.GenderMale, Status: models.StudentStatusInactive},
		},
		occupancy: make(map[string]int),
	}
	svc := newAssignService(w, AssignmentConfig{ReactivateOnUnassign: true})

	_, err := svc.UnassignAll(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusInactive, w.bulkFrom)
	assert.Equal(t, models.StudentStatusActive, w.bulkTo)
	assert.Equal(t, models.StudentStatusActive, w.students[0].Status)
}

func TestAutoAssignAllAbortsOnRepositoryFault(t *testing.T) {
	w := &assignWorld{
		students: []models.Student{
			activeStudent("s1", "DMU001", models.GenderMale, models.DisabilityNone),
		},
		blocks:       []models.Block{activeBlock("b1", "A", models.BlockReservedMale, false)},
		rooms:        map[string][]models.Room{"b1": {availableRoom("r1", "b1", "101", 2)}},
		occupancy:    make(map[string]int),
		listRoomsErr: assert.AnError,
	}
	svc := newAssignService(w, AssignmentConfig{})

	report, err := svc.AutoAssignAll(context.Background(), "admin-1")
	require.Error(t, err)
	assert.Equal(t, 0, report.Assigned)
}

func TestEligibleBlocksPreservesOrder(t *testing.T) {
	student := activeStudent("s1", "DMU001", models.GenderFemale, models.DisabilityNone)
	blocks := []models.Block{
		activeBlock("b1", "A", models.BlockReservedMale, false),
		activeBlock("b2", "B", models.BlockReservedFemale, false),
		activeBlock("b3", "C", models.BlockReservedMixed, false),
		{ID: "b4", Code: "D", ReservedFor: models.BlockReservedFemale, Status: models.BlockStatusMaintenance},
	}

	eligible := eligibleBlocks(student, blocks)
	require.Len(t, eligible, 2)
	assert.Equal(t, "B", eligible[0].Code)
	assert.Equal(t, "C", eligible[1].Code)
}
