package services

import (
	"fmt"

	"github.com/localnerve/bluefin-crm/internal/models"
	"gorm.io/gorm"
)

// CreateContactNote attaches a note to one of the owner's contacts.
func CreateContactNote(db *gorm.DB, ownerID, contactID uint, content *string) (*models.ContactNote, error) {
	body, err := required(content, "Contact ID and note content are required")
	if err != nil {
		return nil, err
	}
	note := &models.ContactNote{ContactID: contactID, UserID: ownerID, Content: body}
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetContact(tx, ownerID, contactID); err != nil {
			return err
		}
		if err := tx.Create(note).Error; err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateContactNote replaces the note's content.
func UpdateContactNote(db *gorm.DB, ownerID, id uint, content *string) (*models.ContactNote, error) {
	body, err := required(content, "Note content is required")
	if err != nil {
		return nil, err
	}
	var note *models.ContactNote
	err = db.Transaction(func(tx *gorm.DB) error {
		if note, err = FindOwned[models.ContactNote](tx, ownerID, id); err != nil {
			return err
		}
		note.Content = body
		return tx.Save(note).Error
	})
	return note, err
}

// DeleteContactNote removes one of the owner's notes.
func DeleteContactNote(db *gorm.DB, ownerID, id uint) error {
	return deleteOwned[models.ContactNote](db, ownerID, id)
}
