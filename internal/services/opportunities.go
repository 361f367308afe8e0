package services

import (
	"fmt"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// Defaults applied when an opportunity is created without them
const (
	DefaultAmount      = 0.0
	DefaultProbability = 50
)

// OpportunityInput carries opportunity fields from a JSON body. Nil or unset means not supplied.
type OpportunityInput struct {
	Title       *string                `json:"title"`
	Contact     *string                `json:"contact"`
	Salesperson *string                `json:"salesperson"`
	Amount      types.OptionalFloat    `json:"amount"`
	Probability types.OptionalInt      `json:"probability"`
	Stage       *string                `json:"stage"`
	CloseDate   types.OptionalDate     `json:"close_date"`
	Notes       *string                `json:"notes"`
	Reminder    types.OptionalDateTime `json:"reminder"`
}

// ListOpportunities returns the owner's opportunities, newest first.
func ListOpportunities(db *gorm.DB, ownerID uint) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := db.Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&opps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}

// GetOpportunity returns one of the owner's opportunities.
func GetOpportunity(db *gorm.DB, ownerID, id uint) (*models.Opportunity, error) {
	return FindOwned[models.Opportunity](db, ownerID, id)
}

// CreateOpportunity adds an opportunity. Title and contact are required.
func CreateOpportunity(db *gorm.DB, ownerID uint, in OpportunityInput) (*models.Opportunity, error) {
	title, err := required(in.Title, "Title and contact are required")
	if err != nil {
		return nil, err
	}
	contact, err := required(in.Contact, "Title and contact are required")
	if err != nil {
		return nil, err
	}

	opp := &models.Opportunity{
		UserID:      ownerID,
		Title:       title,
		Contact:     contact,
		Amount:      DefaultAmount,
		Probability: DefaultProbability,
		Stage:       models.StageProspecting,
	}
	if err := applyOpportunity(opp, in); err != nil {
		return nil, err
	}

	if err := db.Create(opp).Error; err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}
	return opp, nil
}

// UpdateOpportunity overwrites the supplied fields and keeps the rest.
func UpdateOpportunity(db *gorm.DB, ownerID, id uint, in OpportunityInput) (*models.Opportunity, error) {
	for _, field := range []*string{in.Title, in.Contact} {
		if field != nil {
			if _, err := required(field, "Title and contact are required"); err != nil {
				return nil, err
			}
		}
	}

	var opp *models.Opportunity
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if opp, err = GetOpportunity(tx, ownerID, id); err != nil {
			return err
		}
		keep(&opp.Title, in.Title)
		keep(&opp.Contact, in.Contact)
		if err := applyOpportunity(opp, in); err != nil {
			return err
		}
		return tx.Save(opp).Error
	})
	return opp, err
}

// UpdateOpportunityStage moves an opportunity to another stage.
func UpdateOpportunityStage(db *gorm.DB, ownerID, id uint, stage *string) (*models.Opportunity, error) {
	next, err := required(stage, "Stage is required")
	if err != nil {
		return nil, err
	}
	if !models.ValidStage(next) {
		return nil, types.Validation("Invalid stage")
	}

	var opp *models.Opportunity
	err = db.Transaction(func(tx *gorm.DB) error {
		if opp, err = GetOpportunity(tx, ownerID, id); err != nil {
			return err
		}
		opp.Stage = next
		return tx.Model(opp).Update("stage", next).Error
	})
	return opp, err
}

// ClearOpportunityReminder removes the reminder from an opportunity.
func ClearOpportunityReminder(db *gorm.DB, ownerID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		opp, err := GetOpportunity(tx, ownerID, id)
		if err != nil {
			return err
		}
		return tx.Model(opp).Update("reminder", nil).Error
	})
}

// DeleteOpportunity removes one of the owner's opportunities.
func DeleteOpportunity(db *gorm.DB, ownerID, id uint) error {
	return deleteOwned[models.Opportunity](db, ownerID, id)
}

func applyOpportunity(opp *models.Opportunity, in OpportunityInput) error {
	keep(&opp.Salesperson, in.Salesperson)
	keep(&opp.Notes, in.Notes)
	if stage := text(in.Stage); stage != nil && *stage != "" {
		if !models.ValidStage(*stage) {
			return types.Validation("Invalid stage")
		}
		opp.Stage = *stage
	}
	if in.Amount.Set {
		opp.Amount = in.Amount.Value
	}
	if in.Probability.Set {
		if in.Probability.Value < 0 || in.Probability.Value > 100 {
			return types.Validation("Probability must be between 0 and 100")
		}
		opp.Probability = in.Probability.Value
	}
	if in.CloseDate.Set {
		opp.CloseDate = models.NewDate(in.CloseDate.Value)
	}
	if in.Reminder.Set {
		opp.Reminder = in.Reminder.Ptr()
	}
	return nil
}
