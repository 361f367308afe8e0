package services

import (
	"fmt"

	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// AnalyticsFilter bounds opportunities by close date, inclusive. Either bound may be empty.
type AnalyticsFilter struct {
	StartDate string
	EndDate   string
}

// StageCount is the number and value of opportunities in a stage.
type StageCount struct {
	Stage  string  `json:"stage"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// FirmCount is the number of contacts at a firm.
type FirmCount struct {
	Firm  string `json:"firm"`
	Count int64  `json:"count"`
}

// Analytics summarizes the owner's pipeline and book.
type Analytics struct {
	ByStage            []StageCount `json:"opportunities_by_stage"`
	ByFirm             []FirmCount  `json:"contacts_by_firm"`
	TotalOpportunities int64        `json:"total_opportunities"`
	TotalContacts      int64        `json:"total_contacts"`
	StartDate          string       `json:"start_date,omitempty"`
	EndDate            string       `json:"end_date,omitempty"`
}

// GetAnalytics computes stage and firm breakdowns for the owner.
func GetAnalytics(db *gorm.DB, ownerID uint, filter AnalyticsFilter) (*Analytics, error) {
	result := &Analytics{}

	opps := db.Model(&models.Opportunity{}).Where("user_id = ?", ownerID)
	closeDay := database.DateExpr(db, "close_date")
	if filter.StartDate != "" {
		day, err := types.ParseOptionalDate(filter.StartDate)
		if err != nil {
			return nil, err
		}
		result.StartDate = day.Value.Format(types.DateLayout)
		opps = opps.Where(closeDay+" >= ?", result.StartDate)
	}
	if filter.EndDate != "" {
		day, err := types.ParseOptionalDate(filter.EndDate)
		if err != nil {
			return nil, err
		}
		result.EndDate = day.Value.Format(types.DateLayout)
		opps = opps.Where(closeDay+" <= ?", result.EndDate)
	}

	if err := opps.Session(&gorm.Session{}).
		Clauses(hints.CommentBefore("select", "analytics:stages")).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("stage").
		Scan(&result.ByStage).Error; err != nil {
		return nil, fmt.Errorf("failed to count opportunities by stage: %w", err)
	}
	result.ByStage = orderStages(result.ByStage)
	for _, s := range result.ByStage {
		result.TotalOpportunities += s.Count
	}

	if err := db.Model(&models.Contact{}).
		Clauses(hints.CommentBefore("select", "analytics:firms")).
		Select("firm, COUNT(*) AS count").
		Where("user_id = ? AND firm IS NOT NULL AND firm <> ''", ownerID).
		Group("firm").
		Order("count DESC").Order("firm").
		Scan(&result.ByFirm).Error; err != nil {
		return nil, fmt.Errorf("failed to count contacts by firm: %w", err)
	}

	if err := db.Model(&models.Contact{}).Where("user_id = ?", ownerID).Count(&result.TotalContacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	return result, nil
}

// orderStages puts known stages in board order, followed by anything unexpected.
func orderStages(counts []StageCount) []StageCount {
	byStage := make(map[string]StageCount, len(counts))
	for _, c := range counts {
		byStage[c.Stage] = c
	}
	ordered := make([]StageCount, 0, len(counts))
	for _, stage := range models.Stages {
		if c, ok := byStage[stage]; ok {
			ordered = append(ordered, c)
			delete(byStage, stage)
		}
	}
	for _, c := range counts {
		if _, ok := byStage[c.Stage]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
