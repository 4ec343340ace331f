package dto

// CreateEmployeeRequest defines the payload for registering a staff member.
type CreateEmployeeRequest struct {
	Code     string  `json:"employee_code" validate:"required"`
	FullName string  `json:"full_name" validate:"required"`
	Gender   string  `json:"gender" validate:"required,oneof=male female"`
	Position string  `json:"position" validate:"required,oneof=proctor cleaner guard other"`
	Phone    string  `json:"phone"`
	BlockID  *string `json:"block_id,omitempty"`
}

// UpdateEmployeeRequest defines the payload for editing a staff member.
type UpdateEmployeeRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Gender   string  `json:"gender" validate:"required,oneof=male female"`
	Position string  `json:"position" validate:"required,oneof=proctor cleaner guard other"`
	Phone    string  `json:"phone"`
	BlockID  *string `json:"block_id,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// UpsertEmergencyContactRequest defines the payload for a student contact.
type UpsertEmergencyContactRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Relation string `json:"relation" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
}

// CreateUserRequest defines the payload for provisioning a portal account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=SUPERADMIN ADMIN PROCTOR STUDENT"`
}

// UpdateUserRequest defines the payload for editing a portal account.
type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=SUPERADMIN ADMIN PROCTOR STUDENT"`
	Active   *bool  `json:"active,omitempty"`
}
