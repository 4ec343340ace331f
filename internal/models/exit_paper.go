package models

import "time"

// Exit paper statuses.
const (
	ExitPaperStatusPending  = "pending"
	ExitPaperStatusApproved = "approved"
	ExitPaperStatusRejected = "rejected"
)

// ExitPaper records a student's request to leave campus and its decision.
type ExitPaper struct {
	ID          string     `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	Reason      string     `db:"reason" json:"reason"`
	LeaveDate   time.Time  `db:"leave_date" json:"leave_date"`
	ReturnDate  time.Time  `db:"return_date" json:"return_date"`
	Status      string     `db:"status" json:"status"`
	DecidedBy   *string    `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt   *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	DecisionNote string    `db:"decision_note" json:"decision_note"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ExitPaperDetail joins student identity for listings and the PDF export.
type ExitPaperDetail struct {
	ExitPaper
	StudentCode string `db:"student_code" json:"student_code"`
	StudentName string `db:"student_name" json:"student_name"`
}

// ExitPaperFilter defines filter criteria for listing exit papers.
type ExitPaperFilter struct {
	StudentID string
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
