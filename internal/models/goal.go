package models

import "time"

// Goal is a roadmap the user accepted. The roadmap is frozen at save time.
type Goal struct {
	GoalID      string     `firestore:"goalId" json:"goalId"`
	DreamText   string     `firestore:"dreamText" json:"dreamText"`
	Status      string     `firestore:"status" json:"status"`
	Roadmap     Roadmap    `firestore:"roadmap" json:"roadmap"`
	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" json:"updatedAt"`
	CompletedAt *time.Time `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
}

type Roadmap struct {
	DreamText        string  `firestore:"dreamText" json:"dreamText"`
	EstimatedBudget  float64 `firestore:"estimatedBudget" json:"estimatedBudget"`
	MonthlyIncome    float64 `firestore:"monthlyIncome" json:"monthlyIncome"`
	TargetMonths     int     `firestore:"targetMonths" json:"targetMonths"`
	MonthlySaving    float64 `firestore:"monthlySaving" json:"monthlySaving"`
	SavingPercentage float64 `firestore:"savingPercentage" json:"savingPercentage"`
	IsRealistic      bool    `firestore:"isRealistic" json:"isRealistic"`
	FeasibilityBand  string  `firestore:"feasibilityBand" json:"feasibilityBand"`
	FeasibilityScore int     `firestore:"feasibilityScore" json:"feasibilityScore"`
	RealityCheck     string  `firestore:"realityCheck" json:"realityCheck"`

	DreamType     string   `firestore:"dreamType" json:"dreamType"`
	EstimatedCost float64  `firestore:"estimatedCost" json:"estimatedCost"`
	BudgetGap     float64  `firestore:"budgetGap" json:"budgetGap"`
	Milestones    []string `firestore:"milestones" json:"milestones"`
	Challenges    []string `firestore:"challenges" json:"challenges"`
	ProTips       []string `firestore:"proTips" json:"proTips"`
	Alternatives  []string `firestore:"alternatives,omitempty" json:"alternatives,omitempty"`

	// Absent when the roadmap is realistic or the report could not be fetched.
	IncomeGrowth *IncomeGrowthReport `firestore:"incomeGrowth,omitempty" json:"incomeGrowth,omitempty"`
}

type IncomeGrowthReport struct {
	MarketPosition          string       `firestore:"marketPosition" json:"marketPosition"`
	GrowthPaths             []GrowthPath `firestore:"growthPaths" json:"growthPaths"`
	Recommendations         []string     `firestore:"recommendations" json:"recommendations"`
	ExpectedMonthlyIncrease float64      `firestore:"expectedMonthlyIncrease" json:"expectedMonthlyIncrease"`
}

type GrowthPath struct {
	Name              string   `firestore:"name" json:"name"`
	PotentialIncrease string   `firestore:"potentialIncrease" json:"potentialIncrease"`
	Timeline          string   `firestore:"timeline" json:"timeline"`
	Steps             []string `firestore:"steps" json:"steps"`
}
