package dto

type RegisterRequest struct {
	FullName string `json:"fullName"`
}

type UpdateProfileRequest struct {
	FullName      *string `json:"fullName,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Location      *string `json:"location,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	Occupation    *string `json:"occupation,omitempty"`
	MonthlyIncome *string `json:"monthlyIncome,omitempty"`
}

type UpdatePreferencesRequest struct {
	Currency             *string `json:"currency,omitempty"`
	Language             *string `json:"language,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	ShareUsageData       *bool   `json:"shareUsageData,omitempty"`
	ParticipateInCircles *bool   `json:"participateInCircles,omitempty"`
}

type UpdateNotificationsRequest struct {
	GoalMilestones          *bool `json:"goalMilestones,omitempty"`
	SpendingAlerts          *bool `json:"spendingAlerts,omitempty"`
	SideHustleOpportunities *bool `json:"sideHustleOpportunities,omitempty"`
	SocialCircleUpdates     *bool `json:"socialCircleUpdates,omitempty"`
	WeeklyReports           *bool `json:"weeklyReports,omitempty"`
	MarketingEmails         *bool `json:"marketingEmails,omitempty"`
}
