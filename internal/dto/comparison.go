package dto

// ComparisonRequest is the compare-users payload. Transactions are CSV text
// and the info fields are occupation_income_savings tokens.
type ComparisonRequest struct {
	CurrentUserInfo         string `json:"current_user_info"`
	OtherUserInfo           string `json:"other_user_info"`
	CurrentUserTransactions string `json:"current_user_transactions"`
	OtherUserTransactions   string `json:"other_user_transactions"`
}

type ComparisonInsight struct {
	Summary             string   `json:"summary"`
	JobComparison       string   `json:"job_comparison"`
	SavingsInsights     string   `json:"savings_insights"`
	SpendingPatterns    []string `json:"spending_patterns"`
	Recommendations     []string `json:"recommendations"`
	UnnecessaryExpenses []string `json:"unnecessary_expenses"`
	PeerBenchmark       string   `json:"peer_benchmark"`
}
