package services

import (
	"fmt"
	"time"

	"github.com/localnerve/bluefin-crm/internal/models"
	"gorm.io/gorm"
)

// ListNotes returns the shared scratchpad, newest first.
func ListNotes(db *gorm.DB) ([]models.Note, error) {
	var notes []models.Note
	if err := db.Order("id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// CreateNote appends to the shared scratchpad under the author's display name.
func CreateNote(db *gorm.DB, author string, content *string, at time.Time) (*models.Note, error) {
	body, err := required(content, "Note content is required")
	if err != nil {
		return nil, err
	}
	note := &models.Note{Author: author, Content: body, Timestamp: at.Format(models.NoteTimestampLayout)}
	if err := db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}
