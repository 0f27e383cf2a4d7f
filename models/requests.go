package models

// RegisterRequest is the JSON body of POST /Account/Register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the JSON body of POST /Account/ForgotPassword.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the JSON body of POST /Account/ResetPassword.
// Code is the password-reset token previously delivered by e-mail.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body of POST /Account/Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
