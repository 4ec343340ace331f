package models

import "time"

// Gender values accepted for students and block reservations.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Disability statuses recorded for students. A student whose status is not
// DisabilityNone may only be housed in the designated accessible block.
const (
	DisabilityNone      = "none"
	DisabilityPhysical  = "physical"
	DisabilityVisual    = "visual"
	DisabilityHearing   = "hearing"
	DisabilityCognitive = "cognitive"
	DisabilityOther     = "other"
)

// Student lifecycle statuses.
const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

// Student represents a learner registered for dormitory housing.
type Student struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"student_code" json:"student_code"`
	FullName   string    `db:"full_name" json:"full_name"`
	Gender     string    `db:"gender" json:"gender"`
	Disability string    `db:"disability" json:"disability"`
	Status     string    `db:"status" json:"status"`
	Department string    `db:"department" json:"department"`
	YearLevel  int       `db:"year_level" json:"year_level"`
	Phone      string    `db:"phone" json:"phone"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Gender    string
	Status    string
	Unplaced  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentDetail contains student information with current placement context.
type StudentDetail struct {
	Student
	PlacementID  *string    `db:"placement_id" json:"placement_id,omitempty"`
	RoomID       *string    `db:"room_id" json:"room_id,omitempty"`
	RoomNumber   *string    `db:"room_number" json:"room_number,omitempty"`
	BlockID      *string    `db:"block_id" json:"block_id,omitempty"`
	BlockName    *string    `db:"block_name" json:"block_name,omitempty"`
	AssignedDate *time.Time `db:"assigned_date" json:"assigned_date,omitempty"`
}
