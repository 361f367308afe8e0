package models

import "time"

// Opportunity stages, in board order.
const (
	StageProspecting = "prospecting"
	StageQualifying  = "qualifying"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed-won"
	StageClosedLost  = "closed-lost"
)

// Stages lists the stage vocabulary in board order.
var Stages = []string{
	StageProspecting,
	StageQualifying,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// ValidStage reports whether stage belongs to the vocabulary.
func ValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Opportunity is a potential deal. Contact holds a name, not a reference.
// Amount and probability carry no column default: gorm would substitute it for an explicit zero.
type Opportunity struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null" json:"user_id"`
	User        *User      `json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Contact     string     `gorm:"size:255;not null" json:"contact"`
	Salesperson string     `gorm:"size:255" json:"salesperson"`
	Amount      float64    `json:"amount"`
	Probability int        `json:"probability"`
	Stage       string     `gorm:"size:32;not null;default:prospecting" json:"stage"`
	CloseDate   Date       `json:"close_date"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Reminder    *time.Time `json:"reminder"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Opportunity
func (Opportunity) TableName() string {
	return "opportunities"
}

func (Opportunity) Ownership() Ownership {
	return Ownership{Table: "opportunities", OwnerColumn: "user_id", Entity: "Opportunity"}
}
