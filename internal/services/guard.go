// guard.go
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
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOwned loads the row of T with the given id when ownerID owns it. Child rows
// must also hang off a parent that ownerID owns. Anything else is reported as not found.
func FindOwned[T models.Owned](db *gorm.DB, ownerID, id uint) (*T, error) {
	var row T
	own := row.Ownership()

	err := ScopeOwned(db.Table(own.Table), own, ownerID).
		Select(own.Table+".*").
		Where(clause.Eq{Column: clause.Column{Table: own.Table, Name: "id"}, Value: id}).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound(own.Entity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", strings.ToLower(own.Entity), id, err)
	}
	return &row, nil
}

// ScopeOwned restricts q to rows owned by ownerID, joining the parent for child rows.
func ScopeOwned(q *gorm.DB, own models.Ownership, ownerID uint) *gorm.DB {
	q = q.Where(clause.Eq{Column: clause.Column{Table: own.Table, Name: own.OwnerColumn}, Value: ownerID})
	if own.ParentTable == "" {
		return q
	}
	return q.Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.%s", own.ParentTable, own.ParentTable, own.Table, own.ParentForeignKey)).
		Where(clause.Eq{Column: clause.Column{Table: own.ParentTable, Name: own.ParentOwnerColumn}, Value: ownerID})
}

// deleteOwned re-verifies ownership of the row and removes it.
func deleteOwned[T models.Owned](db *gorm.DB, ownerID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		row, err := FindOwned[T](tx, ownerID, id)
		if err != nil {
			return err
		}
		return tx.Delete(row).Error
	})
}

// text trims a supplied value; nil stays nil.
func text(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// required returns the trimmed value or a validation error naming the field.
func required(s *string, message string) (string, error) {
	t := text(s)
	if t == nil || *t == "" {
		return "", types.Validation(message)
	}
	return *t, nil
}

// keep assigns the supplied value, or leaves dst untouched when nothing was supplied.
func keep(dst *string, s *string) {
	if t := text(s); t != nil {
		*dst = *t
	}
}
