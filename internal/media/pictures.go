// pictures.go
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

package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AllowedExtensions lists the upload extensions accepted, lower case.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Validation messages shown to the user
var (
	ErrNoFile       = types.Validation("No file selected")
	ErrFileType     = types.Validation("Invalid file type. Allowed: png, jpg, jpeg, gif, webp")
	ErrFileTooLarge = types.Validation("File is too large")
	ErrBadImage     = types.Validation("Error processing image")
)

// ProfilePictures replaces contact profile pictures.
type ProfilePictures struct {
	Store    Store
	MaxBytes int64
	MaxDim   int
	Quality  int
	Log      *zap.Logger
}

// Upload is a received file.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// AllowedFile reports whether filename has an allowed extension.
func AllowedFile(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return ext != "" && AllowedExtensions[strings.ToLower(ext)]
}

// NewName returns a fresh stored file name.
func NewName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ".jpg"
}

// Replace normalizes the upload, stores it and points the contact at it.
// The previous picture is removed only after the contact row is updated.
func (p *ProfilePictures) Replace(ctx context.Context, db *gorm.DB, ownerID, contactID uint, up Upload) (string, error) {
	if _, err := services.GetContact(db, ownerID, contactID); err != nil {
		return "", err
	}
	if up.Filename == "" || up.Body == nil {
		return "", ErrNoFile
	}
	if !AllowedFile(up.Filename) {
		return "", ErrFileType
	}
	if up.Size > p.MaxBytes {
		return "", ErrFileTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(up.Body, p.MaxBytes+1))
	if err != nil {
		return "", types.Unexpected(fmt.Errorf("failed to read upload: %w", err))
	}
	if int64(len(raw)) > p.MaxBytes {
		return "", ErrFileTooLarge
	}

	picture, err := Normalize(bytes.NewReader(raw), p.MaxDim, p.Quality)
	if err != nil {
		p.Log.Info("rejected profile picture", zap.Uint("contact_id", contactID), zap.Error(err))
		return "", ErrBadImage
	}

	reference, err := p.Store.Put(ctx, NewName(), picture)
	if err != nil {
		return "", types.Unexpected(err)
	}

	previous, err := services.SetProfilePicture(db, ownerID, contactID, reference)
	if err != nil {
		p.Release(ctx, reference)
		return "", err
	}
	if previous != "" {
		p.Release(ctx, previous)
	}
	return reference, nil
}

// Release removes a stored picture, logging rather than returning failures.
func (p *ProfilePictures) Release(ctx context.Context, reference string) {
	if reference == "" {
		return
	}
	if err := p.Store.Delete(ctx, reference); err != nil {
		p.Log.Debug("failed to remove profile picture", zap.String("reference", reference), zap.Error(err))
	}
}
