package dto

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type CreateAnnouncementRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ImpersonateResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
