package actions

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/hypeops/hypectl/internal/config"
	clierr "github.com/hypeops/hypectl/internal/errors"
)

// Kind enumerates the closed set of operations this tool can submit.
type Kind string

const (
	KindUndelegate    Kind = "undelegate"
	KindVaultDeposit  Kind = "vault_deposit"
	KindVaultWithdraw Kind = "vault_withdraw"
	KindStakeWithdraw Kind = "stake_withdraw"
)

// Request is the tagged variant over operation kinds. Each implementation
// carries only the fields its operation needs and is immutable once built.
type Request interface {
	Kind() Kind
}

// Undelegate releases staked HYPE from a validator into the unbonding
// period. Wei is the base-unit amount (8 decimals).
type Undelegate struct {
	Validator common.Address
	Wei       uint64
}

func (Undelegate) Kind() Kind { return KindUndelegate }

// VaultTransfer moves funds between the perp account and a vault. USD stays
// in decimal form here; the 6-decimal wire conversion happens at dispatch.
type VaultTransfer struct {
	Vault   common.Address
	USD     string
	Deposit bool
}

func (v VaultTransfer) Kind() Kind {
	if v.Deposit {
		return KindVaultDeposit
	}
	return KindVaultWithdraw
}

// StakeWithdraw moves unlocked tokens from the staking balance to spot.
type StakeWithdraw struct {
	Wei uint64
}

func (StakeWithdraw) Kind() Kind { return KindStakeWithdraw }

// Build constructs one request from resolved settings. Every validation,
// including the base-unit conversion, happens here so a bad amount can never
// reach the network.
func Build(kind Kind, st config.Settings) (Request, error) {
	switch kind {
	case KindUndelegate:
		if st.Validator == (common.Address{}) {
			return nil, clierr.New(clierr.CodeMissingRequired, "missing required option validator")
		}
		wei, err := HypeToWei(st.AmountHype)
		if err != nil {
			return nil, err
		}
		return Undelegate{Validator: st.Validator, Wei: wei}, nil

	case KindVaultDeposit, KindVaultWithdraw:
		if st.Vault == (common.Address{}) {
			return nil, clierr.New(clierr.CodeMissingRequired, "missing required option vault-address")
		}
		// Probe the wire conversion now: a sub-cent amount fails fast
		// instead of submitting a zero-value transfer.
		if _, err := USDToInt(st.AmountUSD); err != nil {
			return nil, err
		}
		return VaultTransfer{Vault: st.Vault, USD: st.AmountUSD, Deposit: kind == KindVaultDeposit}, nil

	case KindStakeWithdraw:
		wei, err := HypeToWei(st.AmountHype)
		if err != nil {
			return nil, err
		}
		return StakeWithdraw{Wei: wei}, nil
	}
	return nil, clierr.Newf(clierr.CodeUsage, "unsupported action kind %q", kind)
}
