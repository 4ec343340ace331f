package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/middleware"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
)

type fakeRoster struct {
	placements []models.PlacementDetail
	lastFilter models.PlacementFilter
}

func (f *fakeRoster) List(_ context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, int, error) {
	f.lastFilter = filter
	return f.placements, len(f.placements), nil
}

func (f *fakeRoster) CountActive(context.Context) (int, error) {
	return len(f.placements), nil
}

type fakeAssignWorld struct {
	students  []models.Student
	blocks    []models.Block
	rooms     map[string][]models.Room
	placed    []models.Placement
	unplaced  int
	auditLogs []models.AuditLog
}

func (f *fakeAssignWorld) ListUnassigned(context.Context, int) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeAssignWorld) FindByID(_ context.Context, id string) (*models.StudentDetail, error) {
	for _, s := range f.students {
		if s.ID == id {
			return &models.StudentDetail{Student: s}, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignWorld) BulkUpdateStatus(context.Context, string, string) (int, error) {
	return 0, nil
}

func (f *fakeAssignWorld) ListActive(context.Context) ([]models.Block, error) {
	return f.blocks, nil
}

func (f *fakeAssignWorld) ListAvailableByBlock(_ context.Context, blockID string) ([]models.Room, error) {
	return f.rooms[blockID], nil
}

func (f *fakeAssignWorld) Place(_ context.Context, placement *models.Placement) error {
	f.placed = append(f.placed, *placement)
	return nil
}

func (f *fakeAssignWorld) FindActiveByStudent(context.Context, string) (*models.Placement, error) {
	return nil, nil
}

func (f *fakeAssignWorld) DeleteAll(context.Context) (int, error) {
	n := len(f.placed)
	f.placed = nil
	return n, nil
}

func (f *fakeAssignWorld) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, *log)
	return nil
}

func newPlacementHandler(world *fakeAssignWorld, roster *fakeRoster) *PlacementHandler {
	assignments := service.NewAssignmentService(service.AssignmentServiceParams{
		Students:   world,
		Blocks:     world,
		Rooms:      world,
		Placements: world,
		Audit:      world,
	})
	placements := service.NewPlacementService(roster, nil, nil)
	dashboard := service.NewDashboardService(nil, nil, nil, service.DashboardServiceConfig{})
	return NewPlacementHandler(placements, assignments, dashboard)
}

func TestPlacementHandlerListAppliesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	roster := &fakeRoster{placements: []models.PlacementDetail{
		{Placement: models.Placement{ID: "p-1"}, StudentCode: "DMU001", BlockCode: "B1"},
	}}
	handler := newPlacementHandler(&fakeAssignWorld{}, roster)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/placements?blockId=b-1&year=2&page=3", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b-1", roster.lastFilter.BlockID)
	if assert.NotNil(t, roster.lastFilter.Year) {
		assert.Equal(t, 2, *roster.lastFilter.Year)
	}
	assert.Equal(t, 3, roster.lastFilter.Page)
}

func TestPlacementHandlerRunRejectsUnknownAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPlacementHandler(&fakeAssignWorld{}, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/placements", strings.NewReader(`{"action":"shuffle"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Run(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlacementHandlerRunAutoAssign(t *testing.T) {
	gin.SetMode(gin.TestMode)
	world := &fakeAssignWorld{
		students: []models.Student{
			{ID: "s-1", Code: "DMU001", Gender: models.GenderMale, Disability: models.DisabilityNone, Status: models.StudentStatusActive},
		},
		blocks: []models.Block{
			{ID: "b-1", Code: "B1", ReservedFor: models.BlockReservedMale, Status: models.BlockStatusActive},
		},
		rooms: map[string][]models.Room{
			"b-1": {{ID: "r-1", BlockID: "b-1", Number: "101", Capacity: 4, Status: models.RoomStatusAvailable}},
		},
	}
	handler := newPlacementHandler(world, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/placements", strings.NewReader(`{"action":"auto_assign"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1"})

	handler.Run(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, world.placed, 1)
	assert.Equal(t, "r-1", world.placed[0].RoomID)

	var envelope struct {
		Data struct {
			Assigned int      `json:"assigned"`
			Errors   []string `json:"errors"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Assigned)
	assert.Empty(t, envelope.Data.Errors)
}

func TestPlacementHandlerUnassignAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	world := &fakeAssignWorld{
		placed: []models.Placement{{ID: "p-1"}, {ID: "p-2"}},
	}
	handler := newPlacementHandler(world, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/placements", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1"})

	handler.UnassignAll(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, world.placed)

	var envelope struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Count)
}

func TestPlacementHandlerExportServesCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	roster := &fakeRoster{placements: []models.PlacementDetail{
		{
			Placement:   models.Placement{ID: "p-1", Year: 2, Status: models.PlacementStatusActive},
			StudentCode: "DMU001",
			StudentName: "Abebe Kebede",
			RoomNumber:  "101",
			BlockCode:   "B1",
		},
	}}
	handler := newPlacementHandler(&fakeAssignWorld{}, roster)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/placements/export", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "placements_")
	assert.Contains(t, rec.Body.String(), "DMU001")
	assert.Equal(t, 0, roster.lastFilter.PageSize)
}
