package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/middleware"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
)

func newStudentHandler(world *fakeAssignWorld) *StudentHandler {
	assignments := service.NewAssignmentService(service.AssignmentServiceParams{
		Students:   world,
		Blocks:     world,
		Rooms:      world,
		Placements: world,
		Audit:      world,
	})
	dashboard := service.NewDashboardService(nil, nil, nil, service.DashboardServiceConfig{})
	return NewStudentHandler(nil, nil, assignments, dashboard)
}

func TestStudentHandlerAssignPlacement(t *testing.T) {
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
	handler := newStudentHandler(world)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students/s-1/placement", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1"})

	handler.AssignPlacement(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, world.placed, 1)

	var envelope struct {
		Data struct {
			Success bool   `json:"success"`
			RoomID  string `json:"room_id"`
			BlockID string `json:"block_id"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, "r-1", envelope.Data.RoomID)
	assert.Equal(t, "b-1", envelope.Data.BlockID)
}
