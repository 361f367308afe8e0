package models

import "time"

// CalendarNote is pinned to a day on the owner's calendar.
type CalendarNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `json:"-"`
	NoteDate  Date      `gorm:"not null" json:"note_date"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for CalendarNote
func (CalendarNote) TableName() string {
	return "calendar_notes"
}

func (CalendarNote) Ownership() Ownership {
	return Ownership{Table: "calendar_notes", OwnerColumn: "user_id", Entity: "Note"}
}

// NoteTimestampLayout formats Note.Timestamp.
const NoteTimestampLayout = "2006-01-02 15:04"

// Note is a global scratchpad entry. Author is a display name, not a user reference.
type Note struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Author    string `gorm:"column:user;size:255" json:"user"`
	Content   string `gorm:"type:text" json:"content"`
	Timestamp string `gorm:"size:32" json:"timestamp"`
}

// TableName overrides the table name for Note
func (Note) TableName() string {
	return "notes"
}
