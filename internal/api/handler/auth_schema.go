package handler

// --- Request / Response types ---

type loginRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Password   string `json:"password"    validate:"required"`
}

// loginResponse omits the identity fields for the system admin.
type loginResponse struct {
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type verifyAdminRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
}

type registerAdminRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type identityResponse struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsActive   bool   `json:"is_active"`
}

// messageResponse is returned by endpoints that only acknowledge.
type messageResponse struct {
	Detail string `json:"detail"`
}
