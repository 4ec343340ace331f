package models

import "time"

// Placement statuses. A student has at most one active placement at a time.
const (
	PlacementStatusActive   = "active"
	PlacementStatusInactive = "inactive"
	PlacementStatusPending  = "pending"
)

// Placement binds a student to one room slot for an academic year.
type Placement struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	BlockID      string    `db:"block_id" json:"block_id"`
	Year         int       `db:"year" json:"year"`
	Status       string    `db:"status" json:"status"`
	AssignedDate time.Time `db:"assigned_date" json:"assigned_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PlacementDetail is the roster view joining student, room and block info.
type PlacementDetail struct {
	Placement
	StudentCode string `db:"student_code" json:"student_code"`
	StudentName string `db:"student_name" json:"student_name"`
	RoomNumber  string `db:"room_number" json:"room_number"`
	BlockCode   string `db:"block_code" json:"block_code"`
	BlockName   string `db:"block_name" json:"block_name"`
}

// PlacementFilter defines filter criteria for the placement roster.
type PlacementFilter struct {
	BlockID   string
	Status    string
	Year      *int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
