package models

// OpportunityCost compares a purchase with the work it costs and with what
// the same money would grow to if invested.
type OpportunityCost struct {
	PurchaseItem string                 `json:"purchaseItem"`
	PurchaseCost float64                `json:"purchaseCost"`
	HourlyWage   float64                `json:"hourlyWage"`
	HoursToWork  float64                `json:"hoursToWork"`
	DaysToWork   float64                `json:"daysToWork"`
	WeeksToWork  float64                `json:"weeksToWork"`
	AnnualReturn float64                `json:"annualReturn"`
	Projections  []InvestmentProjection `json:"projections"`
	Message      string                 `json:"message"`
}

type InvestmentProjection struct {
	Years       int     `json:"years"`
	FutureValue float64 `json:"futureValue"`
	Gain        float64 `json:"gain"`
}

const (
	DecisionSmart   = "Smart"
	DecisionNeutral = "Neutral"
	DecisionRisky   = "Risky"
)

// DecisionAdvice rates a dilemma by walking four mental-model branches.
type DecisionAdvice struct {
	DecisionRating    string            `json:"decisionRating"`
	RecommendedChoice string            `json:"recommendedChoice"`
	ConfidenceScore   int               `json:"confidenceScore"` // 0..100
	Reasoning         DecisionReasoning `json:"reasoning"`
	Paths             []DecisionPath    `json:"paths"`
	FinalAdvice       string            `json:"finalAdvice"`
}

type DecisionReasoning struct {
	FinancialFactors     string `json:"financialFactors"`
	PsychologicalFactors string `json:"psychologicalFactors"`
	OpportunityCostView  string `json:"opportunityCostView"`
	RiskAnalysis         string `json:"riskAnalysis"`
}

type DecisionPath struct {
	PathName    string `json:"pathName"`
	Outcome     string `json:"outcome"`
	Probability string `json:"probability"`
}
