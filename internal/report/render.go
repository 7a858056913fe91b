package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// NotBudgeted is shown instead of a budget for categories without one.
const NotBudgeted = "not budgeted"

// WriteText renders r as plain text tables.
func WriteText(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "Monthly Financial Report: %s\n\n1. Month Overview\n", r.Overview.Month.Label()); err != nil {
		return err
	}

	overview := tablewriter.NewWriter(w)
	overview.SetHeader([]string{"Total Income", "Total Expense", "Net Savings"})
	overview.Append([]string{
		core.FormatAmount(r.Overview.Income),
		core.FormatAmount(r.Overview.Expense),
		core.FormatAmount(r.Overview.Savings),
	})
	overview.Render()

	if _, err := fmt.Fprint(w, "\n2. Expense & Budget Performance\n"); err != nil {
		return err
	}

	if len(r.Categories) == 0 {
		fmt.Fprintln(w, "No expenses recorded this month.")
	} else {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Category", "Spent", "Budget", "Variance"})
		table.SetAlignment(tablewriter.ALIGN_RIGHT)

		for _, row := range r.Categories {
			budget, variance := NotBudgeted, NotBudgeted
			if row.Budgeted() {
				budget = core.FormatAmount(*row.Budget)
				variance = core.FormatAmount(*row.Variance)
			}

			table.Append([]string{row.Category, core.FormatAmount(row.Spent), budget, variance})
		}

		table.Render()
	}

	if _, err := fmt.Fprint(w, "\n3. Top 5 Largest Expenses\n"); err != nil {
		return err
	}

	if len(r.TopExpenses) == 0 {
		_, err := fmt.Fprintln(w, "No expenses recorded this month.")
		return err
	}

	top := tablewriter.NewWriter(w)
	top.SetHeader([]string{"Date", "Description", "Category", "Amount"})

	for _, tx := range r.TopExpenses {
		top.Append([]string{tx.Date.Format(transaction.DateLayout), tx.Description, tx.Category, core.FormatAmount(tx.Amount)})
	}

	top.Render()

	return nil
}
