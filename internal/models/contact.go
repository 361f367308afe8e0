package models

import "time"

// Contact is a person in the owner's book of business.
type Contact struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	User           *User     `json:"-"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Email          string    `gorm:"size:255" json:"email"`
	Phone          string    `gorm:"size:64" json:"phone"`
	Firm           string    `gorm:"size:255" json:"firm"`
	Address        string    `gorm:"size:512" json:"address"`
	CRDNumber      string    `gorm:"column:crd_number;size:64" json:"crd_number"`
	Title          string    `gorm:"size:255" json:"title"`
	ProfilePicture string    `gorm:"size:512" json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

func (Contact) Ownership() Ownership {
	return Ownership{Table: "contacts", OwnerColumn: "user_id", Entity: "Contact"}
}

// ContactNote is free text attached to a contact.
type ContactNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContactID uint      `gorm:"not null" json:"contact_id"`
	Contact   *Contact  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for ContactNote
func (ContactNote) TableName() string {
	return "contact_notes"
}

func (ContactNote) Ownership() Ownership {
	return Ownership{
		Table:             "contact_notes",
		OwnerColumn:       "user_id",
		Entity:            "Note",
		ParentTable:       "contacts",
		ParentForeignKey:  "contact_id",
		ParentOwnerColumn: "user_id",
	}
}

// RegisteredAccount is a financial account opened for a contact.
type RegisteredAccount struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ContactID      uint      `gorm:"not null" json:"contact_id"`
	Contact        *Contact  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	User           *User     `json:"-"`
	AccountNumber  string    `gorm:"size:64" json:"account_number"`
	ClientName     string    `gorm:"size:255" json:"client_name"`
	Strategy       string    `gorm:"size:255" json:"strategy"`
	InceptionValue *float64  `json:"inception_value"`
	FeePercent     *float64  `json:"fee_percent"`
	OpenDate       Date      `json:"open_date"`
	Status         string    `gorm:"size:64;default:New" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for RegisteredAccount
func (RegisteredAccount) TableName() string {
	return "registered_accounts"
}

func (RegisteredAccount) Ownership() Ownership {
	return Ownership{
		Table:             "registered_accounts",
		OwnerColumn:       "user_id",
		Entity:            "Account",
		ParentTable:       "contacts",
		ParentForeignKey:  "contact_id",
		ParentOwnerColumn: "user_id",
	}
}
