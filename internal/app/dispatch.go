package app

import (
	"context"
	"encoding/json"

	"github.com/hypeops/hypectl/internal/actions"
	"github.com/hypeops/hypectl/internal/config"
	"github.com/hypeops/hypectl/internal/hl"
	"github.com/hypeops/hypectl/internal/httpx"
)

// dispatchResult is what a successful submission prints: the operation, the
// resolved context, and the exchange's response forwarded verbatim.
type dispatchResult struct {
	Kind     string          `json:"kind"`
	Network  string          `json:"network"`
	Address  string          `json:"address"`
	Exchange json.RawMessage `json:"exchange"`
}

func (s *runtimeState) newExchange(st config.Settings) (*hl.Exchange, error) {
	// Dispatch never retries: one invocation, one POST.
	client := httpx.New(s.timeout, 0)
	ex, err := hl.NewExchange(client, st.PrivateKey, st.Mainnet, s.log)
	if err != nil {
		return nil, err
	}
	if s.apiURL != "" {
		ex.SetBaseURL(s.apiURL)
	}
	return ex, nil
}

func (s *runtimeState) newInfo(st config.Settings) *hl.Info {
	info := hl.NewInfo(httpx.New(s.timeout, 0), st.Mainnet)
	if s.apiURL != "" {
		info.SetBaseURL(s.apiURL)
	}
	return info
}

// dispatch builds one request from resolved settings and submits it. Build
// failures never reach the network.
func (s *runtimeState) dispatch(kind actions.Kind, st config.Settings) error {
	req, err := actions.Build(kind, st)
	if err != nil {
		return err
	}
	ex, err := s.newExchange(st)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := ex.Submit(ctx, req)
	if err != nil {
		return err
	}
	return s.emitSuccess(dispatchResult{
		Kind:     string(req.Kind()),
		Network:  networkName(st.Mainnet),
		Address:  ex.Address().Hex(),
		Exchange: res.Raw,
	}, networkName(st.Mainnet), ex.Address().Hex())
}
