package dto

import "github.com/GregMSThompson/goalaura-backend/internal/models"

type RoadmapRequest struct {
	DreamText       string   `json:"dreamText"`
	EstimatedBudget float64  `json:"estimatedBudget"`
	MonthlyIncome   *float64 `json:"monthlyIncome,omitempty"` // falls back to the profile
	TargetMonths    int      `json:"targetMonths"`

	YearsOfExperience *int     `json:"yearsOfExperience,omitempty"`
	CurrentSkills     []string `json:"currentSkills,omitempty"`
}

// RoadmapNarrativeRequest is the dream-roadmap payload. The computed fields
// are passed along so the narrative agrees with the numbers.
type RoadmapNarrativeRequest struct {
	DreamText         string  `json:"dream_text"`
	EstimatedBudget   float64 `json:"estimated_budget"`
	UserMonthlyIncome float64 `json:"user_monthly_income"`
	TargetMonths      int     `json:"target_months"`
	MonthlySaving     float64 `json:"monthly_saving"`
	SavingPercentage  float64 `json:"saving_percentage"`
	IsRealistic       bool    `json:"is_realistic"`
	Location          string  `json:"location,omitempty"`
}

type RoadmapNarrative struct {
	DreamType     string   `json:"dreamType"`
	EstimatedCost float64  `json:"estimatedCost"`
	Milestones    []string `json:"milestones"`
	Challenges    []string `json:"challenges"`
	ProTips       []string `json:"proTips"`
	Alternatives  []string `json:"alternatives"`
}

type IncomeGrowthRequest struct {
	CurrentIncome     float64  `json:"current_income"`
	Profession        string   `json:"profession"`
	YearsOfExperience int      `json:"years_of_experience"`
	CurrentSkills     []string `json:"current_skills"`
	Location          string   `json:"location"`
}

type SaveGoalRequest struct {
	Roadmap models.Roadmap `json:"roadmap"`
}

type UpdateGoalStatusRequest struct {
	Status string `json:"status"`
}
