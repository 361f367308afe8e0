package models

// User is the root of ownership.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Name     string `gorm:"size:255;not null" json:"name"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
