package dto

import "github.com/shopspring/decimal"

type PeerMatch struct {
	PeerID        string          `json:"peerId"`
	Initials      string          `json:"initials"`
	Occupation    string          `json:"occupation"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Location      string          `json:"location,omitempty"`
	Stats         PeerStats       `json:"stats"`
	Similarity    float64         `json:"similarity"`
	Rank          int             `json:"rank"`
}

type PeerStats struct {
	TotalSaved    string `json:"totalSaved"`
	ActiveGoals   int    `json:"activeGoals"`
	GoalsAchieved int    `json:"goalsAchieved"`
}
