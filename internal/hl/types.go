package hl

import "encoding/json"

// Signature is the r/s/v triple the exchange expects alongside every action.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
	V uint8  `json:"v"`
}

// Wire actions. Struct field order is load-bearing for L1 actions: the
// action hash covers the msgpack encoding, and msgpack emits map keys in
// declaration order, which must match the order the exchange hashes with.

type VaultTransferAction struct {
	Type         string `json:"type" msgpack:"type"`
	VaultAddress string `json:"vaultAddress" msgpack:"vaultAddress"`
	IsDeposit    bool   `json:"isDeposit" msgpack:"isDeposit"`
	USD          uint64 `json:"usd" msgpack:"usd"`
}

type TokenDelegateAction struct {
	Type             string `json:"type"`
	SignatureChainID string `json:"signatureChainId"`
	HyperliquidChain string `json:"hyperliquidChain"`
	Validator        string `json:"validator"`
	IsUndelegate     bool   `json:"isUndelegate"`
	Wei              uint64 `json:"wei"`
	Nonce            uint64 `json:"nonce"`
}

type CWithdrawAction struct {
	Type             string `json:"type"`
	SignatureChainID string `json:"signatureChainId"`
	HyperliquidChain string `json:"hyperliquidChain"`
	Wei              uint64 `json:"wei"`
	Nonce            uint64 `json:"nonce"`
}

type submission struct {
	Action       any       `json:"action"`
	Nonce        uint64    `json:"nonce"`
	Signature    Signature `json:"signature"`
	VaultAddress *string   `json:"vaultAddress"`
}

type exchangeResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

// Result carries the exchange's answer verbatim. Raw is always populated
// when a response body was observed, success or not, so the operator sees
// exactly what the exchange said.
type Result struct {
	Status string          `json:"status"`
	Raw    json.RawMessage `json:"raw"`
}
