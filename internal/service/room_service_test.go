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
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type mockRoomRepo struct {
	rooms   map[string]models.Room
	updated *models.Room
}

func (m *mockRoomRepo) List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error) {
	return nil, 0, nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &room, nil
}

func (m *mockRoomRepo) ExistsByNumber(ctx context.Context, blockID, number, excludeID string) (bool, error) {
	return false, nil
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	return nil
}

func (m *mockRoomRepo) Update(ctx context.Context, room *models.Room) error {
	m.updated = room
	return nil
}

func (m *mockRoomRepo) SetStatus(ctx context.Context, id, status string) error {
	return nil
}

func newRoomServiceForTest(repo *mockRoomRepo) *RoomService {
	return NewRoomService(repo, nil, validator.New(), zap.NewNop())
}

func TestRoomUpdateRaisingCapacityReopensFullRoom(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", Number: "101", Capacity: 2, CurrentOccupancy: 2, Status: models.RoomStatusOccupied},
	}}
	svc := newRoomServiceForTest(repo)

	room, err := svc.Update(context.Background(), "r1", dto.UpdateRoomRequest{Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
	assert.True(t, room.HasVacancy())
	require.NotNil(t, repo.updated)
	assert.Equal(t, models.RoomStatusAvailable, repo.updated.Status)
}

func TestRoomUpdateMarksFullRoomOccupied(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", Number: "101", Capacity: 4, CurrentOccupancy: 2, Status: models.RoomStatusAvailable},
	}}
	svc := newRoomServiceForTest(repo)

	room, err := svc.Update(context.Background(), "r1", dto.UpdateRoomRequest{Capacity: 2})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)
	assert.False(t, room.HasVacancy())
}

func TestRoomUpdateLeavesMaintenanceStatusAlone(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", Number: "101", Capacity: 2, CurrentOccupancy: 0, Status: models.RoomStatusMaintenance},
	}}
	svc := newRoomServiceForTest(repo)

	room, err := svc.Update(context.Background(), "r1", dto.UpdateRoomRequest{Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusMaintenance, room.Status)
}

func TestRoomUpdateRejectsCapacityBelowOccupancy(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", Number: "101", Capacity: 4, CurrentOccupancy: 3, Status: models.RoomStatusAvailable},
	}}
	svc := newRoomServiceForTest(repo)

	_, err := svc.Update(context.Background(), "r1", dto.UpdateRoomRequest{Capacity: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
