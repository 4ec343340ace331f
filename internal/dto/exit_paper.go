package dto

// CreateExitPaperRequest defines the payload for requesting an exit paper.
type CreateExitPaperRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	LeaveDate  string `json:"leave_date" validate:"required,datetime=2006-01-02"`
	ReturnDate string `json:"return_date" validate:"required,datetime=2006-01-02"`
}

// DecideExitPaperRequest approves or rejects a pending exit paper.
type DecideExitPaperRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note"`
}
