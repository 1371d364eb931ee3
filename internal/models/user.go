package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/goalaura-backend/internal/money"
)

type User struct {
	UID           string        `firestore:"uid" json:"uid"`
	Email         string        `firestore:"email" json:"email"`
	FullName      string        `firestore:"fullName" json:"fullName"`
	Phone         string        `firestore:"phone" json:"phone,omitempty"`
	Location      string        `firestore:"location" json:"location,omitempty"`
	DateOfBirth   string        `firestore:"dateOfBirth" json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Occupation    string        `firestore:"occupation" json:"occupation,omitempty"`
	MonthlyIncome string        `firestore:"monthlyIncome" json:"monthlyIncome,omitempty"` // canonical decimal
	Preferences   Preferences   `firestore:"preferences" json:"preferences"`
	Notifications Notifications `firestore:"notifications" json:"notifications"`
	Stats         UserStats     `firestore:"stats" json:"stats"`
	CreatedAt     time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

type Preferences struct {
	Currency             string `firestore:"currency" json:"currency"`
	Language             string `firestore:"language" json:"language"`
	Theme                string `firestore:"theme" json:"theme"`
	ShareUsageData       bool   `firestore:"shareUsageData" json:"shareUsageData"`
	ParticipateInCircles bool   `firestore:"participateInCircles" json:"participateInCircles"`
}

type Notifications struct {
	GoalMilestones          bool `firestore:"goalMilestones" json:"goalMilestones"`
	SpendingAlerts          bool `firestore:"spendingAlerts" json:"spendingAlerts"`
	SideHustleOpportunities bool `firestore:"sideHustleOpportunities" json:"sideHustleOpportunities"`
	SocialCircleUpdates     bool `firestore:"socialCircleUpdates" json:"socialCircleUpdates"`
	WeeklyReports           bool `firestore:"weeklyReports" json:"weeklyReports"`
	MarketingEmails         bool `firestore:"marketingEmails" json:"marketingEmails"`
}

// UserStats is a cache maintained by goal and ledger operations. Currency
// values are display strings such as "₹12,500".
type UserStats struct {
	ActiveGoals      int    `firestore:"activeGoals" json:"activeGoals"`
	TotalSaved       string `firestore:"totalSaved" json:"totalSaved"`
	GoalsAchieved    int    `firestore:"goalsAchieved" json:"goalsAchieved"`
	SideHustleIncome string `firestore:"sideHustleIncome" json:"sideHustleIncome"`
}

// Firestore field paths used for partial updates.
const (
	FieldParticipateInCircles = "preferences.participateInCircles"
	FieldActiveGoals          = "stats.activeGoals"
	FieldGoalsAchieved        = "stats.goalsAchieved"
	FieldTotalSaved           = "stats.totalSaved"
)

// Income returns the declared monthly income. ok is false when the field is
// empty or does not hold a valid amount.
func (u *User) Income() (decimal.Decimal, bool) {
	if strings.TrimSpace(u.MonthlyIncome) == "" {
		return decimal.Zero, false
	}
	d, err := money.Parse(u.MonthlyIncome)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Initials is the avatar text shown for anonymous peers.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.FullName) {
		for _, r := range part {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
