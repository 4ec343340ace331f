package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/repository"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type assignmentStudentSource interface {
	ListUnassigned(ctx context.Context, limit int) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	BulkUpdateStatus(ctx context.Context, fromStatus, toStatus string) (int, error)
}

type assignmentBlockSource interface {
	ListActive(ctx context.Context) ([]models.Block, error)
}

type assignmentRoomSource interface {
	ListAvailableByBlock(ctx context.Context, blockID string) ([]models.Room, error)
}

type placementStore interface {
	Place(ctx context.Context, placement *models.Placement) error
	FindActiveByStudent(ctx context.Context, studentID string) (*models.Placement, error)
	DeleteAll(ctx context.Context) (int, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Capacity outcomes for a single student. These are recorded per student in
// the pass report and never abort the pass.
var (
	errNoSuitableBlock = errors.New("No suitable blocks available")
	errNoAvailableRoom = errors.New("No available rooms found")
)

// AssignmentConfig tunes the room assignment engine.
type AssignmentConfig struct {
	// MaxBatchSize bounds how many students one pass may process. Zero
	// means the pass takes every unassigned active student.
	MaxBatchSize int
	// ReactivateOnUnassign flips inactive students back to active when
	// all placements are cleared.
	ReactivateOnUnassign bool
}

// AssignmentService places students into rooms. Passes are serialised: only
// one auto-assign, single assignment or unassign-all runs at a time.
type AssignmentService struct {
	students   assignmentStudentSource
	blocks     assignmentBlockSource
	rooms      assignmentRoomSource
	placements placementStore
	audit      auditRecorder
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        AssignmentConfig

	mu sync.Mutex
}

// AssignmentServiceParams groups constructor dependencies.
type AssignmentServiceParams struct {
	Students   assignmentStudentSource
	Blocks     assignmentBlockSource
	Rooms      assignmentRoomSource
	Placements placementStore
	Audit      auditRecorder
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     AssignmentConfig
}

// NewAssignmentService constructs the assignment engine.
func NewAssignmentService(params AssignmentServiceParams) *AssignmentService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		students:   params.Students,
		blocks:     params.Blocks,
		rooms:      params.Rooms,
		placements: params.Placements,
		audit:      params.Audit,
		metrics:    params.Metrics,
		logger:     logger,
		cfg:        params.Config,
	}
}

// AutoAssignAll runs one placement pass over every unassigned active student.
// Students are processed in student_code order; capacity failures are
// collected per student while repository faults abort the pass, returning the
// progress made so far alongside the error.
func (s *AssignmentService) AutoAssignAll(ctx context.Context, actorID string) (*dto.AssignmentReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	report := &dto.AssignmentReport{Errors: []string{}}

	students, err := s.students.ListUnassigned(ctx, s.cfg.MaxBatchSize)
	if err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unassigned students")
	}
	blocks, err := s.blocks.ListActive(ctx)
	if err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}

	for _, student := range students {
		_, _, err := s.assignOne(ctx, student, blocks)
		if err == nil {
			report.Assigned++
			continue
		}
		if errors.Is(err, errNoSuitableBlock) || errors.Is(err, errNoAvailableRoom) {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", student.Code, err.Error()))
			continue
		}
		s.recordPassAudit(ctx, actorID, report)
		return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assignment pass aborted")
	}

	if s.metrics != nil {
		s.metrics.ObserveAssignmentPass(time.Since(start))
	}
	s.logger.Info("auto assignment pass finished",
		zap.Int("candidates", len(students)),
		zap.Int("assigned", report.Assigned),
		zap.Int("failed", len(report.Errors)),
		zap.Duration("took", time.Since(start)))
	s.recordPassAudit(ctx, actorID, report)
	return report, nil
}

// AssignStudent places a single student, subject to the same eligibility and
// capacity rules as a full pass.
func (s *AssignmentService) AssignStudent(ctx context.Context, studentID, actorID string) (*models.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if detail.Status != models.StudentStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not active")
	}

	existing, err := s.placements.FindActiveByStudent(ctx, studentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check current placement")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyPlaced, "student already has an active placement")
	}

	blocks, err := s.blocks.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}

	placement, lostSlots, err := s.assignOne(ctx, detail.Student, blocks)
	if err != nil {
		switch {
		case errors.Is(err, errNoSuitableBlock):
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, errNoSuitableBlock.Error())
		case errors.Is(err, errNoAvailableRoom):
			if lostSlots {
				// Every candidate room filled between the read and the
				// write; the caller may retry.
				return nil, appErrors.Clone(appErrors.ErrRoomLockConflict, appErrors.ErrRoomLockConflict.Message)
			}
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, errNoAvailableRoom.Error())
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to place student")
		}
	}

	s.recordAudit(ctx, actorID, models.AuditActionAutoAssign, "placement", &placement.ID,
		[]byte(fmt.Sprintf(`{"student_id":%q,"room_id":%q}`, placement.StudentID, placement.RoomID)))
	return placement, nil
}

// UnassignAll clears every placement and resets room occupancy. When
// configured, students parked inactive are reactivated afterwards.
func (s *AssignmentService) UnassignAll(ctx context.Context, actorID string) (*dto.UnassignReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.placements.DeleteAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear placements")
	}

	if s.cfg.ReactivateOnUnassign {
		reactivated, err := s.students.BulkUpdateStatus(ctx, models.StudentStatusInactive, models.StudentStatusActive)
		if err != nil {
			s.logger.Warn("failed to reactivate students after unassign", zap.Error(err))
		} else if reactivated > 0 {
			s.logger.Info("students reactivated after unassign", zap.Int("count", reactivated))
		}
	}

	s.recordAudit(ctx, actorID, models.AuditActionUnassignAll, "placement", nil,
		[]byte(fmt.Sprintf(`{"removed":%d}`, count)))
	return &dto.UnassignReport{Count: count}, nil
}

// assignOne walks the student's eligible blocks in code order and claims the
// first room slot that survives the capacity guard. The second return reports
// whether a concurrent writer took at least one candidate slot mid-walk.
func (s *AssignmentService) assignOne(ctx context.Context, student models.Student, blocks []models.Block) (*models.Placement, bool, error) {
	eligible := eligibleBlocks(student, blocks)
	if len(eligible) == 0 {
		return nil, false, errNoSuitableBlock
	}

	lostSlots := false
	for _, block := range eligible {
		rooms, err := s.rooms.ListAvailableByBlock(ctx, block.ID)
		if err != nil {
			return nil, lostSlots, fmt.Errorf("list rooms for block %s: %w", block.Code, err)
		}
		for _, room := range rooms {
			if !room.HasVacancy() {
				continue
			}
			placement := &models.Placement{
				StudentID: student.ID,
				RoomID:    room.ID,
				BlockID:   block.ID,
			}
			err := s.placements.Place(ctx, placement)
			if err == nil {
				if s.metrics != nil {
					s.metrics.RecordAssignment()
				}
				return placement, lostSlots, nil
			}
			if errors.Is(err, repository.ErrRoomFilled) {
				// Lost the slot between the read and the write. Move on
				// to the next candidate room.
				lostSlots = true
				if s.metrics != nil {
					s.metrics.RecordAssignmentConflict()
				}
				s.logger.Debug("room filled during placement, trying next",
					zap.String("student_code", student.Code),
					zap.String("room_id", room.ID))
				continue
			}
			return nil, lostSlots, fmt.Errorf("place student %s: %w", student.Code, err)
		}
	}
	return nil, lostSlots, errNoAvailableRoom
}

// eligibleBlocks filters blocks by the placement rules: a student with a
// recorded disability may only go to accessible blocks, and a block's gender
// reservation must match the student. Input order is preserved.
func eligibleBlocks(student models.Student, blocks []models.Block) []models.Block {
	eligible := make([]models.Block, 0, len(blocks))
	for _, block := range blocks {
		if block.Status != models.BlockStatusActive {
			continue
		}
		if student.Disability != "" && student.Disability != models.DisabilityNone && !block.Accessible {
			continue
		}
		if block.ReservedFor != models.BlockReservedMixed && block.ReservedFor != student.Gender {
			continue
		}
		eligible = append(eligible, block)
	}
	return eligible
}

func (s *AssignmentService) recordPassAudit(ctx context.Context, actorID string, report *dto.AssignmentReport) {
	s.recordAudit(ctx, actorID, models.AuditActionAutoAssign, "placement", nil,
		[]byte(fmt.Sprintf(`{"assigned":%d,"failed":%d}`, report.Assigned, len(report.Errors))))
}

func (s *AssignmentService) recordAudit(ctx context.Context, actorID, action, resource string, resourceID *string, newValues []byte) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		NewValues:  newValues,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record placement audit log", zap.Error(err))
	}
}
