package model

type User struct {
	Username     string `gorm:"primaryKey;column:username;type:VARCHAR;size:256"`
	FullName     string `gorm:"column:full_name;type:VARCHAR;size:255"`
	PasswordHash string `gorm:"column:password_hash;type:VARCHAR;size:255"`
	Role         string `gorm:"column:role;type:VARCHAR;size:64;default:usuario"`
	Active       bool   `gorm:"column:active;default:true"`
}
