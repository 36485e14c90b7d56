package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name"`
	InviteToken string `json:"inviteToken"`
}

type VerifyInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type GenerateInviteRequest struct {
	Email          string `json:"email" binding:"required,email"`
	AdminSecretKey string `json:"adminSecretKey" binding:"required"`
}

type OAuthLoginRequest struct {
	Provider string `json:"provider" binding:"required"`
	Token    string `json:"token" binding:"required"`
}
