package request

// Register is the payload for account creation.
type Register struct {
	Username        string `json:"username" binding:"required,max=64"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// Login is the payload for credential verification.
type Login struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfile is the payload for a self-service profile edit. All
// fields are optional; empty means "leave unchanged".
type UpdateProfile struct {
	Username        string `json:"username" binding:"omitempty,max=64"`
	Email           string `json:"email" binding:"omitempty,email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=6"`
}
