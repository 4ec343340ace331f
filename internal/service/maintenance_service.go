package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type maintenanceRepository interface {
	List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequestDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error)
	Create(ctx context.Context, request *models.MaintenanceRequest) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type maintenanceRoomStore interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
	SetStatus(ctx context.Context, id, status string) error
}

type maintenanceNotifier interface {
	NotifyMaintenanceResolved(request *models.MaintenanceRequestDetail)
}

// MaintenanceService tracks room defects. Taking a room offline removes it
// from assignment passes until the request is resolved.
type MaintenanceService struct {
	repo      maintenanceRepository
	rooms     maintenanceRoomStore
	notifier  maintenanceNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaintenanceService constructs the maintenance service.
func NewMaintenanceService(repo maintenanceRepository, rooms maintenanceRoomStore, notifier maintenanceNotifier, validate *validator.Validate, logger *zap.Logger) *MaintenanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{repo: repo, rooms: rooms, notifier: notifier, validator: validate, logger: logger}
}

// List returns maintenance requests and pagination metadata.
func (s *MaintenanceService) List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequestDetail, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list maintenance requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return requests, pagination, nil
}

// Create reports a defect against a room, optionally taking the room out of
// service immediately.
func (s *MaintenanceService) Create(ctx context.Context, req dto.CreateMaintenanceRequest, reporterID string) (*models.MaintenanceRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid maintenance payload")
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.MaintenancePriorityMedium
	}
	request := &models.MaintenanceRequest{
		RoomID:      req.RoomID,
		ReportedBy:  reporterID,
		Description: req.Description,
		Priority:    priority,
		Status:      models.MaintenanceStatusOpen,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create maintenance request")
	}

	if req.TakeOffline && room.Status != models.RoomStatusMaintenance {
		if err := s.rooms.SetStatus(ctx, room.ID, models.RoomStatusMaintenance); err != nil {
			s.logger.Warn("failed to take room offline", zap.String("room_id", room.ID), zap.Error(err))
		}
	}
	return request, nil
}

// UpdateStatus advances a request through its workflow. Resolving a request
// returns an offline room to service.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id string, req dto.UpdateMaintenanceStatusRequest) (*models.MaintenanceRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load maintenance request")
	}
	if request.Status == models.MaintenanceStatusResolved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "maintenance request already resolved")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update maintenance status")
	}
	request.Status = req.Status

	if req.Status == models.MaintenanceStatusResolved {
		s.restoreRoom(ctx, request.RoomID)
		if s.notifier != nil {
			s.notifier.NotifyMaintenanceResolved(&models.MaintenanceRequestDetail{MaintenanceRequest: *request})
		}
	}
	return request, nil
}

// restoreRoom brings a room back from maintenance. A full room goes straight
// to occupied.
func (s *MaintenanceService) restoreRoom(ctx context.Context, roomID string) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		s.logger.Warn("failed to load room after resolution", zap.String("room_id", roomID), zap.Error(err))
		return
	}
	if room.Status != models.RoomStatusMaintenance {
		return
	}
	status := models.RoomStatusAvailable
	if room.CurrentOccupancy >= room.Capacity {
		status = models.RoomStatusOccupied
	}
	if err := s.rooms.SetStatus(ctx, roomID, status); err != nil {
		s.logger.Warn("failed to restore room status", zap.String("room_id", roomID), zap.Error(err))
	}
}
