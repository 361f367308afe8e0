// contacts.go
//
// Bluefin CRM: contacts, opportunities, calendar and accounts for a single advisor
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of bluefin-crm.
// bluefin-crm is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// bluefin-crm is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with bluefin-crm.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"
	"time"

	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// ContactInput carries contact fields from a form or JSON body. Nil means not supplied.
type ContactInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Firm      *string `json:"firm"`
	Address   *string `json:"address"`
	CRDNumber *string `json:"crd_number"`
	Title     *string `json:"title"`
}

// Account-count buckets understood by ContactFilter.Accounts
const (
	AccountsNone     = "0"
	AccountsFew      = "1-5"
	AccountsSeveral  = "6-10"
	AccountsMoreThan = "10+"
)

// ContactFilter narrows the contact list. Zero values do not filter.
type ContactFilter struct {
	Firm      string
	Accounts  string
	StartDate string
	EndDate   string
}

// ContactSummary is a contact with the number of registered accounts it holds.
type ContactSummary struct {
	models.Contact
	AccountCount int64
}

// ContactCard is everything the contact detail page shows.
type ContactCard struct {
	Contact  *models.Contact
	Notes    []models.ContactNote
	Accounts []models.RegisteredAccount
}

// AccountsBucketMatches reports whether count falls in bucket. Unknown buckets match everything.
func AccountsBucketMatches(bucket string, count int64) bool {
	switch bucket {
	case AccountsNone:
		return count == 0
	case AccountsFew:
		return count >= 1 && count <= 5
	case AccountsSeveral:
		return count >= 6 && count <= 10
	case AccountsMoreThan:
		return count > 10
	}
	return true
}

// ListContacts returns the owner's contacts ordered by name.
func ListContacts(db *gorm.DB, ownerID uint, filter ContactFilter) ([]ContactSummary, error) {
	q := db.Model(&models.Contact{}).Where("user_id = ?", ownerID)

	if filter.Firm != "" {
		q = q.Where("firm = ?", filter.Firm)
	}
	created := database.DateExpr(db, "created_at")
	if filter.StartDate != "" {
		day, err := types.ParseOptionalDate(filter.StartDate)
		if err != nil {
			return nil, err
		}
		q = q.Where(created+" >= ?", day.Value.Format(types.DateLayout))
	}
	if filter.EndDate != "" {
		day, err := types.ParseOptionalDate(filter.EndDate)
		if err != nil {
			return nil, err
		}
		q = q.Where(created+" <= ?", day.Value.Format(types.DateLayout))
	}

	var contacts []models.Contact
	if err := q.Order("name").Order("id").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	counts, err := accountCounts(db, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ContactSummary, 0, len(contacts))
	for _, c := range contacts {
		n := counts[c.ID]
		if !AccountsBucketMatches(filter.Accounts, n) {
			continue
		}
		summaries = append(summaries, ContactSummary{Contact: c, AccountCount: n})
	}
	return summaries, nil
}

// accountCounts counts accounts per contact, only where account and contact share the owner.
func accountCounts(db *gorm.DB, ownerID uint) (map[uint]int64, error) {
	var rows []struct {
		ContactID uint
		N         int64
	}
	err := ScopeOwned(db.Model(&models.RegisteredAccount{}), models.RegisteredAccount{}.Ownership(), ownerID).
		Select("registered_accounts.contact_id AS contact_id, COUNT(*) AS n").
		Group("registered_accounts.contact_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ContactID] = r.N
	}
	return counts, nil
}

// Firms lists the owner's distinct non-empty firms, sorted.
func Firms(db *gorm.DB, ownerID uint) ([]string, error) {
	var firms []string
	err := db.Model(&models.Contact{}).
		Where("user_id = ? AND firm IS NOT NULL AND firm <> ''", ownerID).
		Distinct("firm").
		Order("firm").
		Pluck("firm", &firms).Error
	return firms, err
}

// GetContact returns one of the owner's contacts.
func GetContact(db *gorm.DB, ownerID, id uint) (*models.Contact, error) {
	return FindOwned[models.Contact](db, ownerID, id)
}

// GetContactCard loads a contact with its notes and accounts, newest first.
func GetContactCard(db *gorm.DB, ownerID, id uint) (*ContactCard, error) {
	contact, err := GetContact(db, ownerID, id)
	if err != nil {
		return nil, err
	}
	card := &ContactCard{Contact: contact}
	if err := db.Where("contact_id = ? AND user_id = ?", id, ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&card.Notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	if err := db.Where("contact_id = ? AND user_id = ?", id, ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&card.Accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return card, nil
}

// CreateContact adds a contact. A name is required.
func CreateContact(db *gorm.DB, ownerID uint, in ContactInput) (*models.Contact, error) {
	name, err := required(in.Name, "Name is required")
	if err != nil {
		return nil, err
	}
	contact := &models.Contact{UserID: ownerID, Name: name}
	applyContact(contact, in)
	if err := db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// UpdateContact overwrites the supplied fields and keeps the rest.
func UpdateContact(db *gorm.DB, ownerID, id uint, in ContactInput) (*models.Contact, error) {
	if in.Name != nil {
		if _, err := required(in.Name, "Name is required"); err != nil {
			return nil, err
		}
	}
	var contact *models.Contact
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if contact, err = GetContact(tx, ownerID, id); err != nil {
			return err
		}
		keep(&contact.Name, in.Name)
		applyContact(contact, in)
		return tx.Save(contact).Error
	})
	return contact, err
}

// DeleteContact removes a contact; its notes and accounts go with it.
// The removed row is returned so callers can release its media.
func DeleteContact(db *gorm.DB, ownerID, id uint) (*models.Contact, error) {
	var contact *models.Contact
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if contact, err = GetContact(tx, ownerID, id); err != nil {
			return err
		}
		return tx.Delete(contact).Error
	})
	return contact, err
}

// SetProfilePicture stores a new picture reference and returns the previous one.
func SetProfilePicture(db *gorm.DB, ownerID, id uint, reference string) (string, error) {
	var previous string
	err := db.Transaction(func(tx *gorm.DB) error {
		contact, err := GetContact(tx, ownerID, id)
		if err != nil {
			return err
		}
		previous = contact.ProfilePicture
		return tx.Model(contact).Updates(map[string]interface{}{
			"profile_picture": reference,
			"updated_at":      time.Now(),
		}).Error
	})
	return previous, err
}

func applyContact(c *models.Contact, in ContactInput) {
	keep(&c.Email, in.Email)
	keep(&c.Phone, in.Phone)
	keep(&c.Firm, in.Firm)
	keep(&c.Address, in.Address)
	keep(&c.CRDNumber, in.CRDNumber)
	keep(&c.Title, in.Title)
}
