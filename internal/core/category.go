package core

import (
	"slices"
	"strings"
)

var (
	DefaultExpenseCategories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Education", "Other"}
	DefaultIncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
)

// Categories holds the configured category lists offered to users.
// Transactions outside these lists are still accepted by the engine.
type Categories struct {
	Expense []string
	Income  []string
}

func DefaultCategories() Categories {
	return Categories{
		Expense: slices.Clone(DefaultExpenseCategories),
		Income:  slices.Clone(DefaultIncomeCategories),
	}
}

// For returns the list for the given transaction type name ("income" or "expense").
func (c Categories) For(kind string) []string {
	if kind == "income" {
		return c.Income
	}

	return c.Expense
}

// Known reports whether category is one of the configured names for kind.
func (c Categories) Known(kind, category string) bool {
	return slices.Contains(c.For(kind), category)
}

// ValidateName checks the shape of a category name so it can be stored in a
// comma-separated line.
func ValidateName(category string) error {
	switch {
	case strings.TrimSpace(category) == "":
		return Invalid("category", "must not be empty")
	case strings.ContainsAny(category, ",\r\n"):
		return Invalid("category", "must not contain commas or line breaks")
	}

	return nil
}
