package dto

// CreateBlockRequest defines the payload for registering a block.
type CreateBlockRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ReservedFor string `json:"reserved_for" validate:"required,oneof=male female mixed"`
	Accessible  bool   `json:"accessible"`
}

// UpdateBlockRequest defines the payload for editing a block.
type UpdateBlockRequest struct {
	Name        string `json:"name" validate:"required"`
	ReservedFor string `json:"reserved_for" validate:"required,oneof=male female mixed"`
	Accessible  bool   `json:"accessible"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

// CreateRoomRequest defines the payload for registering a room in a block.
type CreateRoomRequest struct {
	BlockID    string `json:"block_id" validate:"required"`
	Number     string `json:"number" validate:"required"`
	Floor      int    `json:"floor" validate:"min=0"`
	Capacity   int    `json:"capacity" validate:"required,min=1"`
	Accessible bool   `json:"accessible"`
}

// UpdateRoomRequest defines the payload for editing a room.
type UpdateRoomRequest struct {
	Floor      int    `json:"floor" validate:"min=0"`
	Capacity   int    `json:"capacity" validate:"required,min=1"`
	Status     string `json:"status" validate:"omitempty,oneof=available occupied maintenance reserved"`
	Accessible bool   `json:"accessible"`
}
