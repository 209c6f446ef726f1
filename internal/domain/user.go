package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey"`                    // Primary key
	Username string `gorm:"size:120;uniqueIndex;not null"` // Unique username, case-sensitive
	Password string `gorm:"size:255;not null" json:"-"`    // Hashed password
}

// TableName keeps the table name stable across dialects
func (User) TableName() string {
	return "app_users"
}
