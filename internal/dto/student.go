package dto

// CreateStudentRequest defines the payload for registering a student.
type CreateStudentRequest struct {
	Code       string `json:"student_code" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Gender     string `json:"gender" validate:"required,oneof=male female"`
	Disability string `json:"disability" validate:"omitempty,oneof=none physical visual hearing cognitive other"`
	Department string `json:"department"`
	YearLevel  int    `json:"year_level" validate:"omitempty,min=1,max=8"`
	Phone      string `json:"phone"`
}

// UpdateStudentRequest defines the payload for editing a student profile.
type UpdateStudentRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Gender     string `json:"gender" validate:"required,oneof=male female"`
	Disability string `json:"disability" validate:"omitempty,oneof=none physical visual hearing cognitive other"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
	Department string `json:"department"`
	YearLevel  int    `json:"year_level" validate:"omitempty,min=1,max=8"`
	Phone      string `json:"phone"`
}

// ImportReport summarises a CSV student import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Assigned int      `json:"assigned"`
	Errors   []string `json:"errors"`
}
