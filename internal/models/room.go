package models

import "time"

// Room statuses. A room accepts new occupants only while available; occupied
// is entered exactly when current_occupancy reaches capacity.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
	RoomStatusReserved    = "reserved"
)

// Room represents a single dormitory room owned by one block.
type Room struct {
	ID               string    `db:"id" json:"id"`
	BlockID          string    `db:"block_id" json:"block_id"`
	Number           string    `db:"number" json:"number"`
	Floor            int       `db:"floor" json:"floor"`
	Capacity         int       `db:"capacity" json:"capacity"`
	CurrentOccupancy int       `db:"current_occupancy" json:"current_occupancy"`
	Status           string    `db:"status" json:"status"`
	Accessible       bool      `db:"accessible" json:"accessible"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// HasVacancy reports whether the room can take another occupant.
func (r Room) HasVacancy() bool {
	return r.Status == RoomStatusAvailable && r.CurrentOccupancy < r.Capacity
}

// RoomFilter defines filter criteria for listing rooms.
type RoomFilter struct {
	BlockID    string
	Status     string
	Floor      *int
	Accessible *bool
	HasSpace   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// RoomDetail extends Room with owning block context.
type RoomDetail struct {
	Room
	BlockCode string `db:"block_code" json:"block_code"`
	BlockName string `db:"block_name" json:"block_name"`
}
