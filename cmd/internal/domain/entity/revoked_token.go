package entity

// RevokedToken marks a bearer token as logged out until it would have expired anyway.
type RevokedToken struct {
	JTI       string `gorm:"primaryKey;column:jti"`
	ExpiresAt int64  `gorm:"not null;index"`
}
