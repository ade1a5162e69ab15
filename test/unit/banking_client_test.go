package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/investplatform/admin-backend/internal/banking"
)

func TestBankingClientVirtualBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "virtual_balance" {
			t.Fatalf("unexpected method %s", req.Method)
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"balance":"1500.50","holdBalance":"10","accounts":3}}`))
	}))
	defer srv.Close()

	client, err := banking.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	balance, err := client.GetVirtualBalance(context.Background())
	if err != nil {
		t.Fatalf("virtual balance: %v", err)
	}
	if !balance.Balance.Equal(decimal.RequireFromString("1500.50")) || balance.Accounts != 3 {
		t.Fatalf("unexpected balance: %+v", balance)
	}
}

func TestBankingClientRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"account not found"}}`))
	}))
	defer srv.Close()

	client, err := banking.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetVirtualBalance(context.Background())
	if err == nil || !strings.Contains(err.Error(), "account not found") {
		t.Fatalf("expected rpc error, got %v", err)
	}
}

func TestBankingClientTestDeposit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string           `json:"method"`
			Params []map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "test_deposit" || len(req.Params) != 1 || req.Params[0]["amount"] != "25.5" {
			t.Fatalf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"op-42"}`))
	}))
	defer srv.Close()

	client, err := banking.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	operationID, err := client.TestDeposit(context.Background(), "40702810", decimal.RequireFromString("25.5"))
	if err != nil {
		t.Fatalf("test deposit: %v", err)
	}
	if operationID != "op-42" {
		t.Fatalf("unexpected operation id %s", operationID)
	}

	if _, err := client.TestDeposit(context.Background(), "", decimal.NewFromInt(1)); err == nil {
		t.Fatalf("expected empty account rejection")
	}
}

func TestBankingClientRequiresURL(t *testing.T) {
	if _, err := banking.NewClient("   ", time.Second); err == nil {
		t.Fatalf("expected missing url error")
	}
}
