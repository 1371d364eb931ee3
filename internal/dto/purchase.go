package dto

type OpportunityCostRequest struct {
	PurchaseItem  string   `json:"purchaseItem"`
	PurchaseCost  float64  `json:"purchaseCost"`
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"` // falls back to the profile
}

// OpportunityNarrativeRequest carries the computed figures so the message
// quotes them instead of inventing its own.
type OpportunityNarrativeRequest struct {
	PurchaseItem string                  `json:"purchase_item"`
	PurchaseCost float64                 `json:"purchase_cost"`
	HourlyWage   float64                 `json:"user_hourly_wage"`
	HoursToWork  float64                 `json:"hours_to_work"`
	DaysToWork   float64                 `json:"days_to_work"`
	WeeksToWork  float64                 `json:"weeks_to_work"`
	AnnualReturn float64                 `json:"annual_return_rate"`
	FutureValues []FutureValueProjection `json:"future_values"`
}

type FutureValueProjection struct {
	Years int     `json:"years"`
	Value float64 `json:"value"`
}

type DecisionRequest struct {
	Situation     string   `json:"situation"`
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"` // falls back to the profile
	Savings       *float64 `json:"savings,omitempty"`       // falls back to stats.totalSaved
	RiskProfile   string   `json:"riskProfile"`
}

type DecisionTreeRequest struct {
	Situation     string  `json:"situation"`
	MonthlyIncome float64 `json:"user_monthly_income"`
	Savings       float64 `json:"user_savings_inr"`
	RiskProfile   string  `json:"risk_profile"`
}
