package dto

// BlockOccupancy summarises one block for the dashboard.
type BlockOccupancy struct {
	BlockID       string `db:"block_id" json:"block_id"`
	BlockCode     string `db:"block_code" json:"block_code"`
	BlockName     string `db:"block_name" json:"block_name"`
	ReservedFor   string `db:"reserved_for" json:"reserved_for"`
	RoomCount     int    `db:"room_count" json:"room_count"`
	TotalCapacity int    `db:"total_capacity" json:"total_capacity"`
	Occupied      int    `db:"occupied" json:"occupied"`
	FreeSlots     int    `db:"free_slots" json:"free_slots"`
}

// OccupancySummary is the dashboard payload, cached in Redis.
type OccupancySummary struct {
	TotalCapacity    int              `json:"total_capacity"`
	TotalOccupied    int              `json:"total_occupied"`
	UnassignedCount  int              `json:"unassigned_count"`
	ActivePlacements int              `json:"active_placements"`
	Blocks           []BlockOccupancy `json:"blocks"`
}
