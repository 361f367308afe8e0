package services

import (
	"fmt"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// DefaultAccountStatus is given to accounts created without a status.
const DefaultAccountStatus = "New"

// AccountInput carries registered account fields. Unset or nil means not supplied.
type AccountInput struct {
	AccountNumber  *string             `json:"account_number"`
	ClientName     *string             `json:"client_name"`
	Strategy       *string             `json:"strategy"`
	InceptionValue types.OptionalFloat `json:"inception_value"`
	FeePercent     types.OptionalFloat `json:"fee_percent"`
	OpenDate       types.OptionalDate  `json:"open_date"`
	Status         *string             `json:"status"`

	// Clear* reset the matching optional field to NULL and win over a supplied value.
	ClearInceptionValue bool `json:"clear_inception_value"`
	ClearFeePercent     bool `json:"clear_fee_percent"`
	ClearOpenDate       bool `json:"clear_open_date"`
}

// CreateAccount opens an account under one of the owner's contacts.
func CreateAccount(db *gorm.DB, ownerID, contactID uint, in AccountInput) (*models.RegisteredAccount, error) {
	account := &models.RegisteredAccount{
		ContactID: contactID,
		UserID:    ownerID,
		Status:    DefaultAccountStatus,
	}
	applyAccount(account, in)
	if account.Status == "" {
		account.Status = DefaultAccountStatus
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetContact(tx, ownerID, contactID); err != nil {
			return err
		}
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns an account whose row and contact both belong to the owner.
func GetAccount(db *gorm.DB, ownerID, id uint) (*models.RegisteredAccount, error) {
	return FindOwned[models.RegisteredAccount](db, ownerID, id)
}

// UpdateAccount overwrites the supplied fields and keeps the rest.
func UpdateAccount(db *gorm.DB, ownerID, id uint, in AccountInput) (*models.RegisteredAccount, error) {
	var account *models.RegisteredAccount
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if account, err = GetAccount(tx, ownerID, id); err != nil {
			return err
		}
		previousStatus := account.Status
		applyAccount(account, in)
		if account.Status == "" {
			account.Status = previousStatus
		}
		return tx.Save(account).Error
	})
	return account, err
}

// DeleteAccount removes one of the owner's accounts.
func DeleteAccount(db *gorm.DB, ownerID, id uint) error {
	return deleteOwned[models.RegisteredAccount](db, ownerID, id)
}

func applyAccount(a *models.RegisteredAccount, in AccountInput) {
	keep(&a.AccountNumber, in.AccountNumber)
	keep(&a.ClientName, in.ClientName)
	keep(&a.Strategy, in.Strategy)
	keep(&a.Status, in.Status)
	if in.InceptionValue.Set {
		a.InceptionValue = in.InceptionValue.Ptr()
	}
	if in.FeePercent.Set {
		a.FeePercent = in.FeePercent.Ptr()
	}
	if in.OpenDate.Set {
		a.OpenDate = models.NewDate(in.OpenDate.Value)
	}
	if in.ClearInceptionValue {
		a.InceptionValue = nil
	}
	if in.ClearFeePercent {
		a.FeePercent = nil
	}
	if in.ClearOpenDate {
		a.OpenDate = models.Date{}
	}
}
