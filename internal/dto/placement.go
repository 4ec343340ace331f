package dto

// PlacementActionRequest selects the bulk placement operation to run.
type PlacementActionRequest struct {
	Action string `json:"action" validate:"required,oneof=auto_assign"`
}

// AssignmentReport aggregates the outcome of one auto-assign pass.
// Per-student capacity failures land in Errors; they never abort the pass.
type AssignmentReport struct {
	Assigned int      `json:"assigned"`
	Errors   []string `json:"errors"`
}

// AssignStudentResult reports a successful single-student assignment.
type AssignStudentResult struct {
	Success     bool   `json:"success"`
	PlacementID string `json:"placement_id"`
	RoomID      string `json:"room_id"`
	BlockID     string `json:"block_id"`
}

// UnassignReport reports the outcome of clearing all placements.
type UnassignReport struct {
	Count int `json:"count"`
}
