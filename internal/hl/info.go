package hl

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hypeops/hypectl/internal/httpx"
)

// Info is the read-only client for the /info endpoint. Responses are kept
// as raw JSON and forwarded to the operator unmodified.
type Info struct {
	http    *httpx.Client
	baseURL string
}

func NewInfo(httpClient *httpx.Client, mainnet bool) *Info {
	return &Info{http: httpClient, baseURL: APIURL(mainnet)}
}

// SetBaseURL points the client at a different endpoint, for tests and
// local debugging.
func (c *Info) SetBaseURL(u string) { c.baseURL = u }

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

func (c *Info) query(ctx context.Context, reqType string, user common.Address) (json.RawMessage, error) {
	var out json.RawMessage
	_, err := c.http.PostJSON(ctx, c.baseURL+"/info", infoRequest{Type: reqType, User: lowerHex(user)}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DelegatorSummary returns the overall staking summary: delegated,
// undelegated, and pending withdrawal totals.
func (c *Info) DelegatorSummary(ctx context.Context, user common.Address) (json.RawMessage, error) {
	return c.query(ctx, "delegatorSummary", user)
}

// DelegatorRewards returns the staking reward history.
func (c *Info) DelegatorRewards(ctx context.Context, user common.Address) (json.RawMessage, error) {
	return c.query(ctx, "delegatorRewards", user)
}

// Delegations returns the per-validator delegation list.
func (c *Info) Delegations(ctx context.Context, user common.Address) (json.RawMessage, error) {
	return c.query(ctx, "delegations", user)
}
