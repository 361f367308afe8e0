package database

import (
	"encoding/json"
	"fmt"

	"github.com/localnerve/bluefin-crm/internal/auth"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// Fixtures is the demo data set.
type Fixtures struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	} `json:"user"`
	Opportunities []struct {
		Title       string                 `json:"title"`
		Contact     string                 `json:"contact"`
		Salesperson string                 `json:"salesperson"`
		Amount      float64                `json:"amount"`
		Probability int                    `json:"probability"`
		Stage       string                 `json:"stage"`
		CloseDate   types.OptionalDate     `json:"close_date"`
		Notes       string                 `json:"notes"`
		Reminder    types.OptionalDateTime `json:"reminder"`
	} `json:"opportunities"`
	Contacts []struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Firm      string `json:"firm"`
		Address   string `json:"address"`
		CRDNumber string `json:"crd_number"`
		Title     string `json:"title"`
	} `json:"contacts"`
}

// SeedReport counts the rows Seed inserted.
type SeedReport struct {
	UserID        uint
	Opportunities int
	Contacts      int
}

// ParseFixtures decodes embedded fixture JSON.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Seed loads the fixtures when the opportunities table is empty, and the
// fixture contacts when the contacts table is empty too. A populated store is left alone.
func Seed(db *gorm.DB, fixtures *Fixtures) (SeedReport, error) {
	var report SeedReport

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Opportunity{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		owner, err := demoUser(tx, fixtures)
		if err != nil {
			return err
		}
		report.UserID = owner.ID

		opportunities := make([]models.Opportunity, 0, len(fixtures.Opportunities))
		for _, o := range fixtures.Opportunities {
			opp := models.Opportunity{
				UserID:      owner.ID,
				Title:       o.Title,
				Contact:     o.Contact,
				Salesperson: o.Salesperson,
				Amount:      o.Amount,
				Probability: o.Probability,
				Stage:       o.Stage,
				Notes:       o.Notes,
				Reminder:    o.Reminder.Ptr(),
			}
			if o.CloseDate.Set {
				opp.CloseDate = models.NewDate(o.CloseDate.Value)
			}
			opportunities = append(opportunities, opp)
		}
		if len(opportunities) > 0 {
			if err := tx.Create(&opportunities).Error; err != nil {
				return fmt.Errorf("failed to seed opportunities: %w", err)
			}
		}
		report.Opportunities = len(opportunities)

		if err := tx.Model(&models.Contact{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		contacts := make([]models.Contact, 0, len(fixtures.Contacts))
		for _, c := range fixtures.Contacts {
			contacts = append(contacts, models.Contact{
				UserID:    owner.ID,
				Name:      c.Name,
				Email:     c.Email,
				Phone:     c.Phone,
				Firm:      c.Firm,
				Address:   c.Address,
				CRDNumber: c.CRDNumber,
				Title:     c.Title,
			})
		}
		if len(contacts) > 0 {
			if err := tx.Create(&contacts).Error; err != nil {
				return fmt.Errorf("failed to seed contacts: %w", err)
			}
		}
		report.Contacts = len(contacts)
		return nil
	})

	return report, err
}

// demoUser finds the fixture user by email or creates it with a hashed password.
func demoUser(tx *gorm.DB, fixtures *Fixtures) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", fixtures.User.Email).Limit(1).Find(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID != 0 {
		return &user, nil
	}

	hash, err := auth.HashPassword(fixtures.User.Password)
	if err != nil {
		return nil, err
	}
	user = models.User{Email: fixtures.User.Email, Password: hash, Name: fixtures.User.Name}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	return &user, nil
}
