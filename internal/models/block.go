package models

import "time"

// Block gender reservations.
const (
	BlockReservedMale   = "male"
	BlockReservedFemale = "female"
	BlockReservedMixed  = "mixed"
)

// Block lifecycle statuses. Only active blocks participate in assignment.
const (
	BlockStatusActive      = "active"
	BlockStatusInactive    = "inactive"
	BlockStatusMaintenance = "maintenance"
)

// Block represents a dormitory building owning a set of rooms.
type Block struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	ReservedFor string    `db:"reserved_for" json:"reserved_for"`
	Accessible  bool      `db:"accessible" json:"accessible"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// BlockFilter defines filter criteria for listing blocks.
type BlockFilter struct {
	ReservedFor string
	Status      string
	Accessible  *bool
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// BlockSummary extends Block with aggregate room statistics.
type BlockSummary struct {
	Block
	RoomCount     int `db:"room_count" json:"room_count"`
	TotalCapacity int `db:"total_capacity" json:"total_capacity"`
	Occupied      int `db:"occupied" json:"occupied"`
}
