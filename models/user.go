package models

// User is an account allowed to sign in as admin.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"type:varchar(80);not null;uniqueIndex:idx_user_username"`
	PasswordHash string `json:"-" gorm:"type:varchar(128);not null"`
}
