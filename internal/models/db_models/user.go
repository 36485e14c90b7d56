package db_models

const (
	UserStatusInvited  = "invited"
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"

	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type User struct {
	BaseModel
	Email string `gorm:"unique"`
	// Password is nil for accounts created through an OAuth provider.
	Password      *string
	Name          string
	Picture       string
	OAuthProvider string
	Role          string `gorm:"default:user"`
	Status        string `gorm:"default:active"`
	InviteToken   *string
	InviteExpires int64
	// APIKey overrides the server OpenAI key for this user's AI calls.
	APIKey *string
}
