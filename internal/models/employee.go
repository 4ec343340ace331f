package models

import "time"

// Employee positions recognised by the portal.
const (
	EmployeePositionProctor = "proctor"
	EmployeePositionCleaner = "cleaner"
	EmployeePositionGuard   = "guard"
	EmployeePositionOther   = "other"
)

// Employee represents a dormitory staff member, optionally assigned a block.
type Employee struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"employee_code" json:"employee_code"`
	FullName  string    `db:"full_name" json:"full_name"`
	Gender    string    `db:"gender" json:"gender"`
	Position  string    `db:"position" json:"position"`
	Phone     string    `db:"phone" json:"phone"`
	BlockID   *string   `db:"block_id" json:"block_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter defines filter criteria for listing employees.
type EmployeeFilter struct {
	Position  string
	BlockID   string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// EmployeeDetail extends Employee with the assigned block name.
type EmployeeDetail struct {
	Employee
	BlockName *string `db:"block_name" json:"block_name,omitempty"`
}
