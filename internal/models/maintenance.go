package models

import "time"

// Maintenance request statuses.
const (
	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusResolved   = "resolved"
)

// Maintenance priorities.
const (
	MaintenancePriorityLow    = "low"
	MaintenancePriorityMedium = "medium"
	MaintenancePriorityHigh   = "high"
)

// MaintenanceRequest tracks a reported defect against a room.
type MaintenanceRequest struct {
	ID          string     `db:"id" json:"id"`
	RoomID      string     `db:"room_id" json:"room_id"`
	ReportedBy  string     `db:"reported_by" json:"reported_by"`
	Description string     `db:"description" json:"description"`
	Priority    string     `db:"priority" json:"priority"`
	Status      string     `db:"status" json:"status"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// MaintenanceRequestDetail joins room and block context for listings.
type MaintenanceRequestDetail struct {
	MaintenanceRequest
	RoomNumber string `db:"room_number" json:"room_number"`
	BlockCode  string `db:"block_code" json:"block_code"`
}

// MaintenanceFilter defines filter criteria for listing requests.
type MaintenanceFilter struct {
	RoomID    string
	BlockID   string
	Status    string
	Priority  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
