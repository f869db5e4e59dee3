package hl

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/hypeops/hypectl/internal/actions"
	clierr "github.com/hypeops/hypectl/internal/errors"
	"github.com/hypeops/hypectl/internal/httpx"
)

// Exchange signs and submits actions. One Submit is exactly one POST to
// /exchange: no retries, because a remote failure after the request left
// the process may still have changed exchange state.
type Exchange struct {
	http    *httpx.Client
	baseURL string
	key     *ecdsa.PrivateKey
	address common.Address
	mainnet bool
	now     func() time.Time
	log     zerolog.Logger
}

func NewExchange(httpClient *httpx.Client, privateKeyHex string, mainnet bool, log zerolog.Logger) (*Exchange, error) {
	key, address, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return &Exchange{
		http:    httpClient,
		baseURL: APIURL(mainnet),
		key:     key,
		address: address,
		mainnet: mainnet,
		now:     time.Now,
		log:     log,
	}, nil
}

func (e *Exchange) Address() common.Address { return e.address }

// SetBaseURL points the client at a different endpoint, for tests and
// local debugging.
func (e *Exchange) SetBaseURL(u string) { e.baseURL = u }

// nonce is the current timestamp in milliseconds, as the exchange requires.
func (e *Exchange) nonce() uint64 { return uint64(e.now().UnixMilli()) }

// Submit dispatches one built request. All signing happens locally before
// the single network call.
func (e *Exchange) Submit(ctx context.Context, req actions.Request) (Result, error) {
	switch r := req.(type) {
	case actions.Undelegate:
		return e.tokenDelegate(ctx, r)
	case actions.VaultTransfer:
		return e.vaultTransfer(ctx, r)
	case actions.StakeWithdraw:
		return e.stakeWithdraw(ctx, r)
	}
	return Result{}, clierr.Newf(clierr.CodeInternal, "unsupported request type %T", req)
}

func (e *Exchange) tokenDelegate(ctx context.Context, req actions.Undelegate) (Result, error) {
	nonce := e.nonce()
	action := TokenDelegateAction{
		Type:             "tokenDelegate",
		SignatureChainID: UserSignedChainIDHex,
		HyperliquidChain: ChainName(e.mainnet),
		Validator:        lowerHex(req.Validator),
		IsUndelegate:     true,
		Wei:              req.Wei,
		Nonce:            nonce,
	}
	sig, err := SignTokenDelegate(e.key, action)
	if err != nil {
		return Result{}, err
	}
	e.log.Debug().Str("validator", action.Validator).Uint64("wei", req.Wei).Msg("submitting undelegate")
	return e.post(ctx, action, nonce, sig)
}

func (e *Exchange) vaultTransfer(ctx context.Context, req actions.VaultTransfer) (Result, error) {
	usd, err := actions.USDToInt(req.USD)
	if err != nil {
		return Result{}, err
	}
	nonce := e.nonce()
	action := VaultTransferAction{
		Type:         "vaultTransfer",
		VaultAddress: lowerHex(req.Vault),
		IsDeposit:    req.Deposit,
		USD:          usd,
	}
	sig, err := SignL1Action(e.key, action, nil, nonce, e.mainnet)
	if err != nil {
		return Result{}, err
	}
	e.log.Debug().Str("vault", action.VaultAddress).Bool("deposit", req.Deposit).Uint64("usd", usd).Msg("submitting vault transfer")
	return e.post(ctx, action, nonce, sig)
}

func (e *Exchange) stakeWithdraw(ctx context.Context, req actions.StakeWithdraw) (Result, error) {
	nonce := e.nonce()
	action := CWithdrawAction{
		Type:             "cWithdraw",
		SignatureChainID: UserSignedChainIDHex,
		HyperliquidChain: ChainName(e.mainnet),
		Wei:              req.Wei,
		Nonce:            nonce,
	}
	sig, err := SignCWithdraw(e.key, action)
	if err != nil {
		return Result{}, err
	}
	e.log.Debug().Uint64("wei", req.Wei).Msg("submitting staking withdrawal")
	return e.post(ctx, action, nonce, sig)
}

func (e *Exchange) post(ctx context.Context, action any, nonce uint64, sig Signature) (Result, error) {
	payload := submission{Action: action, Nonce: nonce, Signature: sig}
	var resp exchangeResponse
	raw, err := e.http.PostJSON(ctx, e.baseURL+"/exchange", payload, &resp)
	if err != nil {
		return Result{Raw: raw}, err
	}
	if resp.Status != "ok" {
		return Result{Status: resp.Status, Raw: raw},
			clierr.Newf(clierr.CodeRemote, "exchange rejected action: %s", strings.TrimSpace(string(raw)))
	}
	return Result{Status: resp.Status, Raw: raw}, nil
}

func lowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
