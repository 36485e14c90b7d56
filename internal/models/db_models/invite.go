package db_models

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

type Invite struct {
	BaseModel
	Email     string `gorm:"index"`
	Token     string `gorm:"unique"`
	Expires   int64
	Status    string `gorm:"default:pending"`
	CreatedBy string
}
