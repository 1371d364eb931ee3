package taxonomy

import "strings"

const (
	CategoryFood          = "Food & Dining"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryTravel        = "Travel"
	CategoryBills         = "Bills & Utilities"
	CategoryHealthcare    = "Healthcare"
	CategoryEducation     = "Education"
	CategorySalary        = "Salary"
	CategoryFreelance     = "Freelance"
	CategoryInvestment    = "Investment"
	CategoryOther         = "Other"
)

// Categories is the closed set a ledger transaction can carry.
var Categories = []string{
	CategoryFood,
	CategoryEntertainment,
	CategoryShopping,
	CategoryTravel,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryOther,
}

var categoryByKey = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// NormalizeCategory returns the canonical spelling of c, or Other when c is
// empty or not part of the set.
func NormalizeCategory(c string) string {
	if canonical, ok := categoryByKey[strings.ToLower(strings.TrimSpace(c))]; ok {
		return canonical
	}
	return CategoryOther
}

// IsCategory reports whether c names a category exactly (case-insensitive).
func IsCategory(c string) bool {
	_, ok := categoryByKey[strings.ToLower(strings.TrimSpace(c))]
	return ok
}

// pfcPrimaryCategories maps Plaid personal finance category primaries onto
// the ledger's categories.
var pfcPrimaryCategories = map[string]string{
	"INCOME":                    CategorySalary,
	"TRANSFER_IN":               CategoryOther,
	"TRANSFER_OUT":              CategoryOther,
	"LOAN_PAYMENTS":             CategoryBills,
	"BANK_FEES":                 CategoryBills,
	"ENTERTAINMENT":             CategoryEntertainment,
	"FOOD_AND_DRINK":            CategoryFood,
	"GENERAL_MERCHANDISE":       CategoryShopping,
	"HOME_IMPROVEMENT":          CategoryShopping,
	"MEDICAL":                   CategoryHealthcare,
	"PERSONAL_CARE":             CategoryHealthcare,
	"GENERAL_SERVICES":          CategoryBills,
	"GOVERNMENT_AND_NON_PROFIT": CategoryOther,
	"TRANSPORTATION":            CategoryTravel,
	"TRAVEL":                    CategoryTravel,
	"RENT_AND_UTILITIES":        CategoryBills,
}

// pfcDetailedCategories overrides the primary mapping for detailed
// categories that land somewhere more specific.
var pfcDetailedCategories = map[string]string{
	"GENERAL_SERVICES_EDUCATION":                   CategoryEducation,
	"TRANSFER_IN_INVESTMENT_AND_RETIREMENT_FUNDS":  CategoryInvestment,
	"TRANSFER_OUT_INVESTMENT_AND_RETIREMENT_FUNDS": CategoryInvestment,
	"INCOME_WAGES":           CategorySalary,
	"INCOME_DIVIDENDS":       CategoryInvestment,
	"INCOME_INTEREST_EARNED": CategoryInvestment,
}

// CategoryFromPFC picks a ledger category for a Plaid transaction.
func CategoryFromPFC(primary, detailed string) string {
	if c, ok := pfcDetailedCategories[strings.ToUpper(detailed)]; ok {
		return c
	}
	if c, ok := pfcPrimaryCategories[strings.ToUpper(primary)]; ok {
		return c
	}
	return CategoryOther
}
