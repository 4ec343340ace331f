package dto

// CreateMaintenanceRequest defines the payload for reporting a room defect.
type CreateMaintenanceRequest struct {
	RoomID      string `json:"room_id" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	TakeOffline bool   `json:"take_offline"`
}

// UpdateMaintenanceStatusRequest advances a request through its workflow.
type UpdateMaintenanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved"`
}
