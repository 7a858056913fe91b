package budget

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/aggregate"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Budgets maps an expense category to its monthly ceiling in minor units.
type Budgets map[string]int64

// Categories returns the budgeted categories in name order.
func (b Budgets) Categories() []string {
	return slices.Sorted(maps.Keys(b))
}

func (b Budgets) Total() int64 {
	var total int64
	for _, a := range b {
		total += a
	}

	return total
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	SetBudget(ctx context.Context, category string, amount int64) error
	LoadBudgets(ctx context.Context) (Budgets, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set creates or replaces the monthly budget of category.
func (s *Service) Set(ctx context.Context, category string, amount int64) error {
	category = strings.TrimSpace(category)
	if err := core.ValidateName(category); err != nil {
		return err
	}

	if amount < 0 {
		return core.Invalid("amount", "must not be negative, got %d", amount)
	}

	return s.repo.SetBudget(ctx, category, amount)
}

func (s *Service) List(ctx context.Context) (Budgets, error) {
	b, err := s.repo.LoadBudgets(ctx)
	if err != nil {
		return nil, err
	}

	if b == nil {
		b = Budgets{}
	}

	return b, nil
}

// Status is the month-to-date position of one budget.
type Status struct {
	Category  string
	Budget    int64
	Spent     int64
	Remaining int64 // negative when overrun
}

// StatusFor reports every budget against the expenses of the month containing ref.
func StatusFor(b Budgets, txs []transaction.Transaction, ref time.Time) []Status {
	spent := aggregate.SumByCategory(aggregate.FilterWindow(txs, aggregate.MonthWindow(ref, 0)), transaction.TypeExpense)

	out := make([]Status, 0, len(b))
	for _, c := range b.Categories() {
		out = append(out, Status{
			Category:  c,
			Budget:    b[c],
			Spent:     spent[c],
			Remaining: b[c] - spent[c],
		})
	}

	return out
}

type AlertLevel string

const (
	AlertOver    AlertLevel = "over"
	AlertWarning AlertLevel = "warning"
)

// Alert describes the effect of a prospective expense on its category budget.
type Alert struct {
	Level     AlertLevel
	Category  string
	Budget    int64
	Projected int64 // month spend including the new expense
}

// Overrun is how far Projected exceeds Budget, or zero.
func (a Alert) Overrun() int64 {
	return max(a.Projected-a.Budget, 0)
}

func (a Alert) Remaining() int64 {
	return a.Budget - a.Projected
}

// CheckAlert projects an expense of amount in category onto the month
// containing date. It returns nil when the category has no budget or the
// projected spend stays at or below 90% of it.
func CheckAlert(b Budgets, txs []transaction.Transaction, category string, amount int64, date time.Time) *Alert {
	limit, ok := b[category]
	if !ok {
		return nil
	}

	var spent int64

	for _, tx := range aggregate.FilterWindow(txs, aggregate.MonthWindow(date, 0)) {
		if tx.Type == transaction.TypeExpense && tx.Category == category {
			spent += tx.Amount
		}
	}

	alert := &Alert{Category: category, Budget: limit, Projected: spent + amount}

	switch {
	case alert.Projected > limit:
		alert.Level = AlertOver
	case alert.Projected*10 > limit*9:
		alert.Level = AlertWarning
	default:
		return nil
	}

	return alert
}
