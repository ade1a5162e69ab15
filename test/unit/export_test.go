package unit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/investplatform/admin-backend/internal/export"
	"github.com/investplatform/admin-backend/internal/models"
)

func TestExportUsersSheet(t *testing.T) {
	users := []models.User{
		{ID: "u1", Email: "a@b.c", Phone: "111", LastName: "Doe", FirstName: "Jane", Status: models.UserStatusVerified},
		{ID: "u2", Email: "x@y.z", Status: models.UserStatusActive},
	}

	buf, err := export.Build(export.UsersSheet(users))
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Users")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Email" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "a@b.c" || rows[1][6] != "verified" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestExportLoansSheetSumsFunding(t *testing.T) {
	loans := []models.Loan{
		{
			ID:             "l1",
			ContractNumber: "C-1",
			Amount:         decimal.NewFromInt(1000),
			InterestRate:   decimal.RequireFromString("12.5"),
			TermMonths:     12,
			Status:         models.LoanStatusActive,
			Investments: []models.Investment{
				{Value: decimal.NewFromInt(300)},
				{Value: decimal.NewFromInt(200)},
			},
		},
	}

	buf, err := export.Build(export.LoansSheet(loans))
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Loans")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if rows[1][4] != "500.00" {
		t.Fatalf("expected funded total 500.00, got %s", rows[1][4])
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	if got := export.FileName("users", now); got != "users_2025-03-14.xlsx" {
		t.Fatalf("unexpected file name %s", got)
	}
}
