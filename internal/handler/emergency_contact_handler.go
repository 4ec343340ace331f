package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/response"
)

// EmergencyContactHandler exposes student emergency contact endpoints.
type EmergencyContactHandler struct {
	contacts *service.EmergencyContactService
}

// NewEmergencyContactHandler constructs EmergencyContactHandler.
func NewEmergencyContactHandler(contacts *service.EmergencyContactService) *EmergencyContactHandler {
	return &EmergencyContactHandler{contacts: contacts}
}

// ListByStudent godoc
// @Summary List a student's emergency contacts
// @Tags EmergencyContacts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/contacts [get]
func (h *EmergencyContactHandler) ListByStudent(c *gin.Context) {
	contacts, err := h.contacts.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contacts, nil)
}

// Create godoc
// @Summary Add an emergency contact
// @Tags EmergencyContacts
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpsertEmergencyContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/contacts [post]
func (h *EmergencyContactHandler) Create(c *gin.Context) {
	var req dto.UpsertEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contact)
}

// Update godoc
// @Summary Update an emergency contact
// @Tags EmergencyContacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param payload body dto.UpsertEmergencyContactRequest true "Contact payload"
// @Success 200 {object} response.Envelope
// @Router /contacts/{id} [put]
func (h *EmergencyContactHandler) Update(c *gin.Context) {
	var req dto.UpsertEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contact, nil)
}

// Delete godoc
// @Summary Remove an emergency contact
// @Tags EmergencyContacts
// @Param id path string true "Contact ID"
// @Success 204 {object} response.Envelope
// @Router /contacts/{id} [delete]
func (h *EmergencyContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
