package papertrading

import (
	"context"
	"fmt"
	"net/http"
)

const (
	defaultOrdersLimit = 50
	defaultHistoryDays = 30
)

// GetAccount fetches the account snapshot.
func (c *Client) GetAccount(ctx context.Context) (Account, error) {
	var env struct {
		Account Account `json:"account"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/account", nil, &env); err != nil {
		return Account{}, err
	}
	return env.Account, nil
}

// GetPositions fetches all current positions.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var env struct {
		Positions []Position `json:"positions"`
		Total     int        `json:"total"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/positions", nil, &env); err != nil {
		return nil, err
	}
	return env.Positions, nil
}

// GetAccountHistory returns up to days daily snapshots, ascending by
// recordDate. days<=0 falls back to 30.
func (c *Client) GetAccountHistory(ctx context.Context, days int) ([]AccountHistory, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	var env struct {
		Histories []AccountHistory `json:"histories"`
		Total     int              `json:"total"`
	}
	path := fmt.Sprintf("/account-history?days=%d", days)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Histories, nil
}

// GetPerformanceMetrics fetches the server-computed performance aggregate.
func (c *Client) GetPerformanceMetrics(ctx context.Context) (PerformanceMetrics, error) {
	var env struct {
		Metrics PerformanceMetrics `json:"metrics"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/performance-metrics", nil, &env); err != nil {
		return PerformanceMetrics{}, err
	}
	return env.Metrics, nil
}
