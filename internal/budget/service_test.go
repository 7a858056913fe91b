package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_Set(t *testing.T) {
	type testCase struct {
		name      string
		category  string
		amount    int64
		setupMock func(m *budget.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			category: " Food ",
			amount:   50000,
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().SetBudget(gomock.Any(), "Food", int64(50000)).Return(nil)
			},
		},
		{
			name:     "ZeroIsAllowed",
			category: "Bills",
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().SetBudget(gomock.Any(), "Bills", int64(0)).Return(nil)
			},
		},
		{name: "Negative", category: "Food", amount: -1, wantErr: core.ErrValidation},
		{name: "EmptyCategory", category: "  ", amount: 1, wantErr: core.ErrValidation},
		{name: "CommaInCategory", category: "Food,Drinks", amount: 1, wantErr: core.ErrValidation},
		{
			name:     "RepoError",
			category: "Food",
			amount:   1,
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().SetBudget(gomock.Any(), "Food", int64(1)).Return(&core.StoreError{Op: "rename", Err: errors.New("denied")})
			},
			wantErr: core.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := budget.NewService(repo).Set(context.Background(), tt.category, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_ListNeverNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().LoadBudgets(gomock.Any()).Return(nil, nil)

	got, err := budget.NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Zero(t, got.Total())
}

var monthTxs = []transaction.Transaction{
	{Date: date(2024, 5, 2), Type: transaction.TypeExpense, Category: "Food", Amount: 600},
	{Date: date(2024, 5, 20), Type: transaction.TypeExpense, Category: "Food", Amount: 200},
	{Date: date(2024, 4, 30), Type: transaction.TypeExpense, Category: "Food", Amount: 5000},
	{Date: date(2024, 5, 3), Type: transaction.TypeIncome, Category: "Food", Amount: 7000},
	{Date: date(2024, 5, 4), Type: transaction.TypeExpense, Category: "Bills", Amount: 1200},
}

func TestStatusFor(t *testing.T) {
	b := budget.Budgets{"Food": 1000, "Bills": 1000, "Health": 300}

	got := budget.StatusFor(b, monthTxs, date(2024, 5, 31))

	assert.Equal(t, []budget.Status{
		{Category: "Bills", Budget: 1000, Spent: 1200, Remaining: -200},
		{Category: "Food", Budget: 1000, Spent: 800, Remaining: 200},
		{Category: "Health", Budget: 300, Spent: 0, Remaining: 300},
	}, got)
}

func TestCheckAlert(t *testing.T) {
	b := budget.Budgets{"Food": 1000}

	type testCase struct {
		name      string
		category  string
		amount    int64
		wantLevel budget.AlertLevel
		wantNil   bool
	}

	tests := []testCase{
		{name: "NoBudget", category: "Shopping", amount: 99999, wantNil: true},
		{name: "Comfortable", category: "Food", amount: 50, wantNil: true},
		{name: "ExactlyNinetyPercent", category: "Food", amount: 100, wantNil: true},
		{name: "Warning", category: "Food", amount: 101, wantLevel: budget.AlertWarning},
		{name: "ExactlyAtBudget", category: "Food", amount: 200, wantLevel: budget.AlertWarning},
		{name: "Over", category: "Food", amount: 450, wantLevel: budget.AlertOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budget.CheckAlert(b, monthTxs, tt.category, tt.amount, date(2024, 5, 25))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, 800+tt.amount, got.Projected)
		})
	}

	over := budget.CheckAlert(b, monthTxs, "Food", 450, date(2024, 5, 25))
	assert.Equal(t, int64(250), over.Overrun())
	assert.Equal(t, int64(-250), over.Remaining())
}
