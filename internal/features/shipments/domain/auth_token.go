package domain

// AuthToken is a bearer token row for the PTP terminal API. The newest row is
// the active token.
type AuthToken struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Token string `gorm:"not null" json:"token"`
}

// TableName maps the model to the auth_tokens table.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
