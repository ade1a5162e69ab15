package export

import (
	"github.com/shopspring/decimal"

	"github.com/investplatform/admin-backend/internal/banking"
	"github.com/investplatform/admin-backend/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// UsersSheet lists users for the back-office export.
func UsersSheet(users []models.User) Sheet {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{
			u.ID, u.Email, u.Phone, u.LastName, u.FirstName, u.MiddleName,
			string(u.Status), u.CreatedAt.Format(timeLayout),
		})
	}
	return Sheet{
		Name:    "Users",
		Headers: []string{"ID", "Email", "Phone", "Last name", "First name", "Middle name", "Status", "Registered"},
		Rows:    rows,
	}
}

// InvestorsSheet lists investor profiles with wallet balances.
func InvestorsSheet(profiles []models.UserProfile) Sheet {
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		balance, hold := "", ""
		if p.Wallet != nil {
			balance = p.Wallet.Balance.StringFixed(2)
			hold = p.Wallet.HoldBalance.StringFixed(2)
		}
		rows = append(rows, []any{
			p.ID, p.UserID, p.ProfileType(), string(p.Status), string(p.Qualification),
			balance, hold, p.CreatedAt.Format(timeLayout),
		})
	}
	return Sheet{
		Name:    "Investors",
		Headers: []string{"Profile ID", "User ID", "Type", "Status", "Qualification", "Balance", "Hold", "Created"},
		Rows:    rows,
	}
}

// LoansSheet lists loans with their funded totals.
func LoansSheet(loans []models.Loan) Sheet {
	rows := make([][]any, 0, len(loans))
	for _, l := range loans {
		funded := decimal.Zero
		for _, inv := range l.Investments {
			funded = funded.Add(inv.Value)
		}
		rows = append(rows, []any{
			l.ID, l.ContractNumber, l.Name, l.Amount.StringFixed(2), funded.StringFixed(2),
			l.InterestRate.String(), l.TermMonths, string(l.Status), l.CreatedAt.Format(timeLayout),
		})
	}
	return Sheet{
		Name:    "Loans",
		Headers: []string{"ID", "Contract", "Name", "Amount", "Funded", "Rate", "Term (months)", "Status", "Created"},
		Rows:    rows,
	}
}

// RegistrySheet lists beneficiary bank operations.
func RegistrySheet(operations []models.BankOperation) Sheet {
	rows := make([][]any, 0, len(operations))
	for _, op := range operations {
		depositID, withdrawalID := "", ""
		if op.DepositID != nil {
			depositID = *op.DepositID
		}
		if op.WithdrawalID != nil {
			withdrawalID = *op.WithdrawalID
		}
		rows = append(rows, []any{
			op.ID, op.Type, op.Status, depositID, withdrawalID, op.CreatedAt.Format(timeLayout),
		})
	}
	return Sheet{
		Name:    "Registry",
		Headers: []string{"ID", "Type", "Status", "Deposit", "Withdrawal", "Created"},
		Rows:    rows,
	}
}

// ReviseSheet compares wallet totals held in the database against the
// banking service's virtual balance.
func ReviseSheet(wallets []models.Wallet, virtual *banking.VirtualBalance) Sheet {
	dbBalance, dbHold := decimal.Zero, decimal.Zero
	for _, w := range wallets {
		dbBalance = dbBalance.Add(w.Balance)
		dbHold = dbHold.Add(w.HoldBalance)
	}
	rows := [][]any{
		{"platform", dbBalance.StringFixed(2), dbHold.StringFixed(2), len(wallets)},
		{"banking", virtual.Balance.StringFixed(2), virtual.HoldBalance.StringFixed(2), virtual.Accounts},
		{"difference", dbBalance.Sub(virtual.Balance).StringFixed(2), dbHold.Sub(virtual.HoldBalance).StringFixed(2), len(wallets) - virtual.Accounts},
	}
	return Sheet{
		Name:    "Revise",
		Headers: []string{"Source", "Balance", "Hold", "Accounts"},
		Rows:    rows,
	}
}

// UserLogsSheet lists audit rows ingested from the logging queue.
func UserLogsSheet(logs []models.UserLog) Sheet {
	rows := make([][]any, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []any{
			l.ID, l.UserID, l.Action, l.IP, l.CreatedAt.Format(timeLayout),
		})
	}
	return Sheet{
		Name:    "Logs",
		Headers: []string{"ID", "User ID", "Action", "IP", "Date"},
		Rows:    rows,
	}
}
