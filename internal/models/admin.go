package models

// AdminProfile is the stored profile of the signed-in administrator.
type AdminProfile struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,max=200"`
}

// LoginData is the data block of a successful login.
type LoginData struct {
	Token string        `json:"token"`
	Admin *AdminProfile `json:"admin"`
}

// UpdateProfileRequest changes the admin name and, optionally, the password.
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty" binding:"omitempty,max=100"`
	CurrentPassword string `json:"current_password,omitempty" binding:"required_with=NewPassword,max=200"`
	NewPassword     string `json:"new_password,omitempty" binding:"omitempty,min=8,max=200"`
}

// ProfileData is the data block of profile reads and updates.
type ProfileData struct {
	Admin *AdminProfile `json:"admin"`
}

// ForgotPasswordRequest asks the backend to mail a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,email,max=255"`
}

// ResetPasswordRequest sets a new password using a mailed reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" form:"token" binding:"required,max=200"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required,min=8,max=200"`
}

// TokenStatus is the data block of verify-token.
type TokenStatus struct {
	Valid bool          `json:"valid"`
	Admin *AdminProfile `json:"admin,omitempty"`
}
