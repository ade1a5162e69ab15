// Package banking is the JSON-RPC client for the external banking
// service that holds the platform's nominal accounts.
package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("missing BANKING_RPC_URL")
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		url:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// VirtualBalance reports the platform's aggregate position on the
// nominal account, used by the revise report.
type VirtualBalance struct {
	Balance     decimal.Decimal `json:"balance"`
	HoldBalance decimal.Decimal `json:"holdBalance"`
	Accounts    int             `json:"accounts"`
}

func (c *Client) GetVirtualBalance(ctx context.Context) (*VirtualBalance, error) {
	out := &VirtualBalance{}
	if err := c.rpc(ctx, "virtual_balance", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TestDeposit asks the banking service to credit a wallet outside the
// normal acquiring flow. Staging environments only.
func (c *Client) TestDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (string, error) {
	if strings.TrimSpace(accountNumber) == "" || amount.IsNegative() || amount.IsZero() {
		return "", fmt.Errorf("invalid test deposit args")
	}
	var operationID string
	err := c.rpc(ctx, "test_deposit", []any{map[string]any{
		"account_number": strings.TrimSpace(accountNumber),
		"amount":         amount.String(),
	}}, &operationID)
	if err != nil {
		return "", err
	}
	return operationID, nil
}

func (c *Client) rpc(ctx context.Context, method string, params []any, out any) error {
	reqBody, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var payload struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}
	if payload.Error != nil {
		return fmt.Errorf("rpc error %d: %s", payload.Error.Code, payload.Error.Message)
	}
	if len(payload.Result) == 0 {
		return fmt.Errorf("rpc empty result")
	}
	return json.Unmarshal(payload.Result, out)
}
