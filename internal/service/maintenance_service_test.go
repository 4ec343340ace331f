package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
)

type mockMaintenanceRepo struct {
	requests map[string]models.MaintenanceRequest
}

func (m *mockMaintenanceRepo) List(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceRequestDetail, int, error) {
	out := make([]models.MaintenanceRequestDetail, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, models.MaintenanceRequestDetail{MaintenanceRequest: r})
	}
	return out, len(out), nil
}

func (m *mockMaintenanceRepo) FindByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	if r, ok := m.requests[id]; ok {
		request := r
		return &request, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	if m.requests == nil {
		m.requests = make(map[string]models.MaintenanceRequest)
	}
	if request.ID == "" {
		request.ID = "generated"
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *mockMaintenanceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r := m.requests[id]
	r.Status = status
	m.requests[id] = r
	return nil
}

type mockMaintenanceRooms struct {
	rooms    map[string]models.Room
	statuses map[string]string
}

func (m *mockMaintenanceRooms) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		room := r
		return &room, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMaintenanceRooms) SetStatus(ctx context.Context, id, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[string]string)
	}
	m.statuses[id] = status
	if r, ok := m.rooms[id]; ok {
		r.Status = status
		m.rooms[id] = r
	}
	return nil
}

type mockMaintenanceNotifier struct {
	resolved []string
}

func (m *mockMaintenanceNotifier) NotifyMaintenanceResolved(request *models.MaintenanceRequestDetail) {
	m.resolved = append(m.resolved, request.ID)
}

func TestMaintenanceCreateTakesRoomOffline(t *testing.T) {
	repo := &mockMaintenanceRepo{}
	rooms := &mockMaintenanceRooms{rooms: map[string]models.Room{
		"r1": {ID: "r1", Capacity: 4, Status: models.RoomStatusAvailable},
	}}
	svc := NewMaintenanceService(repo, rooms, nil, validator.New(), zap.NewNop())

	request, err := svc.Create(context.Background(), dto.CreateMaintenanceRequest{
		RoomID:      "r1",
		Description: "broken window",
		TakeOffline: true,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusOpen, request.Status)
	assert.Equal(t, models.MaintenancePriorityMedium, request.Priority)
	assert.Equal(t, models.RoomStatusMaintenance, rooms.statuses["r1"])
}

func TestMaintenanceCreateUnknownRoom(t *testing.T) {
	svc := NewMaintenanceService(&mockMaintenanceRepo{}, &mockMaintenanceRooms{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateMaintenanceRequest{RoomID: "missing", Description: "x"}, "user-1")
	require.Error(t, err)
}

func TestMaintenanceResolveRestoresRoom(t *testing.T) {
	repo := &mockMaintenanceRepo{requests: map[string]models.MaintenanceRequest{
		"m1": {ID: "m1", RoomID: "r1", Status: models.MaintenanceStatusInProgress},
	}}
	rooms := &mockMaintenanceRooms{rooms: map[string]models.Room{
		"r1": {ID: "r1", Capacity: 4, CurrentOccupancy: 2, Status: models.RoomStatusMaintenance},
	}}
	notifier := &mockMaintenanceNotifier{}
	svc := NewMaintenanceService(repo, rooms, notifier, validator.New(), zap.NewNop())

	request, err := svc.UpdateStatus(context.Background(), "m1", dto.UpdateMaintenanceStatusRequest{Status: models.MaintenanceStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusResolved, request.Status)
	assert.Equal(t, models.RoomStatusAvailable, rooms.statuses["r1"])
	assert.Contains(t, notifier.resolved, "m1")
}

func TestMaintenanceResolveFullRoomBecomesOccupied(t *testing.T) {
	repo := &mockMaintenanceRepo{requests: map[string]models.MaintenanceRequest{
		"m1": {ID: "m1", RoomID: "r1", Status: models.MaintenanceStatusOpen},
	}}
	rooms := &mockMaintenanceRooms{rooms: map[string]models.Room{
		"r1": {ID: "r1", Capacity: 2, CurrentOccupancy: 2, Status: models.RoomStatusMaintenance},
	}}
	svc := NewMaintenanceService(repo, rooms, nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "m1", dto.UpdateMaintenanceStatusRequest{Status: models.MaintenanceStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, rooms.statuses["r1"])
}

func TestMaintenanceResolveOnlyOnce(t *testing.T) {
	repo := &mockMaintenanceRepo{requests: map[string]models.MaintenanceRequest{
		"m1": {ID: "m1", RoomID: "r1", Status: models.MaintenanceStatusResolved},
	}}
	svc := NewMaintenanceService(repo, &mockMaintenanceRooms{}, nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "m1", dto.UpdateMaintenanceStatusRequest{Status: models.MaintenanceStatusOpen})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already resolved")
}
