package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

var professions = []string{
	"Engineer", "Teacher", "Doctor", "Lawyer", "Accountant", "Nurse", "Architect", "Scientist",
	"Journalist", "Chef", "Mechanic", "Pharmacist", "Dentist", "Graphic Designer",
	"Software Developer", "Data Analyst", "Marketing Manager", "Sales Representative",
	"Financial Advisor", "Electrician", "Photographer", "Writer", "Consultant", "Professor",
	"Entrepreneur", "Freelancer", "Manager", "Analyst",
}

var locations = []string{"Mumbai", "Delhi", "Bangalore", "Chennai", "Pune", "Hyderabad"}

type seedUserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
}

type seedStatsStore interface {
	IncrementStats(ctx context.Context, uid string, deltas map[string]int) error
}

type seedLedger interface {
	Append(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
}

type seedSavings interface {
	RefreshSavings(ctx context.Context, uid string) (*models.User, error)
}

type seedOptions struct {
	Users int
	MinTx int
	MaxTx int
}

type seedResult struct {
	Users        int
	Transactions int
}

type seeder struct {
	users    seedUserStore
	stats    seedStatsStore
	ledger   seedLedger
	savings  seedSavings
	rng      *rand.Rand
	clockNow func() time.Time
}

func (s *seeder) Run(ctx context.Context, opts seedOptions) (seedResult, error) {
	var result seedResult
	if opts.Users < 1 || opts.MinTx < 0 || opts.MaxTx < opts.MinTx {
		return result, errs.NewValidationError("users must be positive and 0 <= min-tx <= max-tx")
	}
	now := time.Now
	if s.clockNow != nil {
		now = s.clockNow
	}
	log := logger.FromContext(ctx)

	for i := 1; i <= opts.Users; i++ {
		user := s.demoUser(i, now().UTC())
		if err := s.users.CreateUser(ctx, user); err != nil {
			return result, fmt.Errorf("create %s: %w", user.UID, err)
		}
		result.Users++

		count := opts.MinTx + s.rng.IntN(opts.MaxTx-opts.MinTx+1)
		for j := 1; j <= count; j++ {
			if _, err := s.ledger.Append(ctx, user.UID, s.demoTransaction(j, now())); err != nil {
				return result, fmt.Errorf("append transaction for %s: %w", user.UID, err)
			}
			result.Transactions++
		}

		if err := s.stats.IncrementStats(ctx, user.UID, map[string]int{
			models.FieldActiveGoals:   s.rng.IntN(5),
			models.FieldGoalsAchieved: s.rng.IntN(10),
		}); err != nil {
			return result, fmt.Errorf("stats for %s: %w", user.UID, err)
		}
		if _, err := s.savings.RefreshSavings(ctx, user.UID); err != nil {
			return result, fmt.Errorf("refresh savings for %s: %w", user.UID, err)
		}
		log.Debug("seeded profile", "uid", user.UID, "transactions", count)
	}
	return result, nil
}

func (s *seeder) demoUser(i int, now time.Time) *models.User {
	income := 30000 + s.rng.IntN(100000)
	return &models.User{
		UID:           fmt.Sprintf("seed-user-%03d", i),
		Email:         fmt.Sprintf("mockuser%d@example.com", i),
		FullName:      fmt.Sprintf("User%d Mock%d", i, i),
		Phone:         fmt.Sprintf("+91%d", 1000000000+s.rng.IntN(9000000000)),
		Location:      locations[s.rng.IntN(len(locations))],
		Occupation:    professions[s.rng.IntN(len(professions))],
		MonthlyIncome: strconv.Itoa(income),
		Preferences: models.Preferences{
			Currency:             "INR",
			Language:             "en",
			Theme:                "light",
			ShareUsageData:       s.rng.IntN(2) == 0,
			ParticipateInCircles: s.rng.IntN(4) != 0,
		},
		Notifications: models.Notifications{
			GoalMilestones:      true,
			SpendingAlerts:      s.rng.IntN(2) == 0,
			SocialCircleUpdates: s.rng.IntN(2) == 0,
			WeeklyReports:       s.rng.IntN(2) == 0,
		},
		Stats: models.UserStats{
			TotalSaved:       "₹0",
			SideHustleIncome: "₹0",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// demoTransaction draws a row from the last year. Deposits use income
// categories and withdrawals spending ones.
func (s *seeder) demoTransaction(j int, now time.Time) dto.CreateTransactionRequest {
	txType := taxonomy.TypeWithdrawal
	categories := spendingCategories
	description := fmt.Sprintf("Expense %d", j)
	if s.rng.IntN(2) == 0 {
		txType = taxonomy.TypeDeposit
		categories = incomeCategories
		description = fmt.Sprintf("Income %d", j)
	}
	date := now.Add(-time.Duration(s.rng.Int64N(int64(365 * 24 * time.Hour)))).UTC()

	return dto.CreateTransactionRequest{
		Amount:          helpers.Ptr(float64(100 + s.rng.IntN(10000))),
		Type:            txType,
		Category:        categories[s.rng.IntN(len(categories))],
		Description:     description,
		Currency:        "INR",
		TransactionDate: &date,
		Status:          taxonomy.StatusCompleted,
	}
}

var (
	incomeCategories = []string{
		taxonomy.CategorySalary, taxonomy.CategoryFreelance, taxonomy.CategoryInvestment,
	}
	spendingCategories = []string{
		taxonomy.CategoryFood, taxonomy.CategoryEntertainment, taxonomy.CategoryShopping,
		taxonomy.CategoryTravel, taxonomy.CategoryBills, taxonomy.CategoryHealthcare,
		taxonomy.CategoryEducation, taxonomy.CategoryOther,
	}
)
