package taxonomy

const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

const (
	SourceManual = "manual"
	SourcePlaid  = "plaid"
)

func IsTransactionType(t string) bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

func IsTransactionStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}
	return false
}

const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

func IsGoalStatus(s string) bool {
	return s == GoalActive || s == GoalCompleted
}
