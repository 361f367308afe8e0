package services

import (
	"fmt"
	"time"

	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// CalendarNoteInput carries calendar note fields from a JSON body.
type CalendarNoteInput struct {
	Date    types.OptionalDate `json:"date"`
	Content *string            `json:"content"`
}

// YearMonth names a calendar page.
type YearMonth struct {
	Year  int
	Month time.Month
}

// CalendarMonth is one month of the owner's calendar.
type CalendarMonth struct {
	YearMonth
	MonthName string
	// Weeks run Sunday to Saturday; 0 pads days outside the month.
	Weeks           [][]int
	Prev            YearMonth
	Next            YearMonth
	NotesByDate     map[string][]models.CalendarNote
	RemindersByDate map[string][]models.Opportunity
}

// DateKey formats day of the month as YYYY-MM-DD.
func (m *CalendarMonth) DateKey(day int) string {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC).Format(types.DateLayout)
}

// NormalizeMonth carries an out-of-range month into the year: month 13 of Y is
// January of Y+1 and month 0 is December of Y-1.
func NormalizeMonth(year, month int) YearMonth {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: first.Year(), Month: first.Month()}
}

// First returns midnight UTC on the first of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// MonthGrid lays out the days of a month in Sunday-first weeks.
func MonthGrid(ym YearMonth) [][]int {
	first := ym.First()
	days := first.AddDate(0, 1, -1).Day()

	var weeks [][]int
	week := make([]int, 7)
	col := int(first.Weekday())
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]int, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Calendar assembles a month with the owner's notes and opportunity reminders.
func Calendar(db *gorm.DB, ownerID uint, year, month int) (*CalendarMonth, error) {
	ym := NormalizeMonth(year, month)
	start := ym.First()
	end := start.AddDate(0, 1, 0)

	cal := &CalendarMonth{
		YearMonth:       ym,
		MonthName:       ym.Month.String(),
		Weeks:           MonthGrid(ym),
		Prev:            NormalizeMonth(ym.Year, int(ym.Month)-1),
		Next:            NormalizeMonth(ym.Year, int(ym.Month)+1),
		NotesByDate:     map[string][]models.CalendarNote{},
		RemindersByDate: map[string][]models.Opportunity{},
	}

	notes, err := ListCalendarNotes(db, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		key := n.NoteDate.String()
		cal.NotesByDate[key] = append(cal.NotesByDate[key], n)
	}

	reminders, err := ListReminders(db, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	for _, o := range reminders {
		key := o.Reminder.UTC().Format(types.DateLayout)
		cal.RemindersByDate[key] = append(cal.RemindersByDate[key], o)
	}

	return cal, nil
}

// ListCalendarNotes returns the owner's notes dated within [from, to), by date.
func ListCalendarNotes(db *gorm.DB, ownerID uint, from, to time.Time) ([]models.CalendarNote, error) {
	day := database.DateExpr(db, "note_date")
	var notes []models.CalendarNote
	err := db.Where("user_id = ?", ownerID).
		Where(day+" >= ? AND "+day+" < ?", from.Format(types.DateLayout), to.Format(types.DateLayout)).
		Order("note_date").Order("created_at").Order("id").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar notes: %w", err)
	}
	return notes, nil
}

// ListReminders returns the owner's opportunities with a reminder on a day within [from, to).
func ListReminders(db *gorm.DB, ownerID uint, from, to time.Time) ([]models.Opportunity, error) {
	day := database.DateExpr(db, "reminder")
	var opps []models.Opportunity
	err := db.Where("user_id = ? AND reminder IS NOT NULL", ownerID).
		Where(day+" >= ? AND "+day+" < ?", from.Format(types.DateLayout), to.Format(types.DateLayout)).
		Order("reminder").Order("id").
		Find(&opps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return opps, nil
}

// CreateCalendarNote pins a note to a day. Date and content are required.
func CreateCalendarNote(db *gorm.DB, ownerID uint, in CalendarNoteInput) (*models.CalendarNote, error) {
	content, err := required(in.Content, "Date and content are required")
	if err != nil || !in.Date.Set {
		return nil, types.Validation("Date and content are required")
	}
	note := &models.CalendarNote{UserID: ownerID, NoteDate: models.NewDate(in.Date.Value), Content: content}
	if err := db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create calendar note: %w", err)
	}
	return note, nil
}

// UpdateCalendarNote overwrites the supplied fields and keeps the rest.
func UpdateCalendarNote(db *gorm.DB, ownerID, id uint, in CalendarNoteInput) (*models.CalendarNote, error) {
	if in.Content != nil {
		if _, err := required(in.Content, "Content is required"); err != nil {
			return nil, err
		}
	}
	var note *models.CalendarNote
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if note, err = FindOwned[models.CalendarNote](tx, ownerID, id); err != nil {
			return err
		}
		keep(&note.Content, in.Content)
		if in.Date.Set {
			note.NoteDate = models.NewDate(in.Date.Value)
		}
		return tx.Save(note).Error
	})
	return note, err
}

// DeleteCalendarNote removes one of the owner's calendar notes.
func DeleteCalendarNote(db *gorm.DB, ownerID, id uint) error {
	return deleteOwned[models.CalendarNote](db, ownerID, id)
}
