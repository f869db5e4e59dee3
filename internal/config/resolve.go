package config

import (
	"math/big"
	"os"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

// Inputs carries the explicit argument layer for one invocation. A nil
// pointer or empty string means "not provided on the command line", which
// lets resolution fall through to environment, file, and default sources.
type Inputs struct {
	PrivateKey   string
	Validator    string
	Amount       string // HYPE amount for unstake / withdraw-stake
	VaultAddress string
	AmountUSD    string
	Deposit      *bool // nil when neither --deposit nor --withdraw was given
	Mainnet      *bool // nil when --testnet was not given
}

// Settings is the effective, fully resolved configuration for one operation.
// It is built atomically: any resolution failure discards the whole object.
type Settings struct {
	PrivateKey string
	Validator  common.Address
	AmountHype string
	Vault      common.Address
	AmountUSD  string
	IsDeposit  bool
	Mainnet    bool
}

// Resolver evaluates the fixed precedence argument > environment > file >
// default. The first present source wins; later sources are never consulted.
type Resolver struct {
	in   Inputs
	file FileConfig
	env  func(string) (string, bool)
}

func NewResolver(in Inputs, file FileConfig) *Resolver {
	return &Resolver{in: in, file: file, env: os.LookupEnv}
}

type source struct {
	name  string
	value string
	ok    bool
}

func arg(v string) source {
	v = strings.TrimSpace(v)
	return source{name: "argument", value: v, ok: v != ""}
}

func argBool(v *bool) source {
	if v == nil {
		return source{name: "argument"}
	}
	if *v {
		return source{name: "argument", value: "true", ok: true}
	}
	return source{name: "argument", value: "false", ok: true}
}

func (r *Resolver) envVar(name string) source {
	v, ok := r.env(name)
	v = strings.TrimSpace(v)
	return source{name: "environment " + name, value: v, ok: ok && v != ""}
}

func fileVal(key, v string) source {
	v = strings.TrimSpace(v)
	return source{name: "config " + key, value: v, ok: v != ""}
}

func fileBool(key string, v *bool) source {
	if v == nil {
		return source{name: "config " + key}
	}
	if *v {
		return source{name: "config " + key, value: "true", ok: true}
	}
	return source{name: "config " + key, value: "false", ok: true}
}

func fallback(v string) source {
	return source{name: "default", value: v, ok: true}
}

func first(srcs ...source) (source, bool) {
	for _, s := range srcs {
		if s.ok {
			return s, true
		}
	}
	return source{}, false
}

var (
	addressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
	amountPattern     = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
)

func resolveAddress(option string, srcs ...source) (common.Address, error) {
	s, ok := first(srcs...)
	if !ok {
		return common.Address{}, missing(option)
	}
	if !addressPattern.MatchString(s.value) {
		return common.Address{}, clierr.Newf(clierr.CodeInvalidAddress,
			"%s from %s must be a 42-char 0x-prefixed hex address", option, s.name)
	}
	return common.HexToAddress(s.value), nil
}

func resolvePrivateKey(option string, srcs ...source) (string, error) {
	s, ok := first(srcs...)
	if !ok {
		return "", missing(option)
	}
	if !privateKeyPattern.MatchString(s.value) {
		return "", clierr.Newf(clierr.CodeInvalidAddress,
			"%s from %s must be 64 hex characters with an optional 0x prefix", option, s.name)
	}
	return strings.TrimPrefix(s.value, "0x"), nil
}

// resolveAmount validates and canonicalizes a positive decimal amount. The
// value stays a string: unit conversion is the action builder's job.
func resolveAmount(option string, srcs ...source) (string, error) {
	s, ok := first(srcs...)
	if !ok {
		return "", missing(option)
	}
	if !amountPattern.MatchString(s.value) {
		return "", clierr.Newf(clierr.CodeInvalidAmount,
			"%s from %s is not a decimal number: %q", option, s.name, s.value)
	}
	rat, ok := new(big.Rat).SetString(s.value)
	if !ok || rat.Sign() <= 0 {
		return "", clierr.Newf(clierr.CodeInvalidAmount,
			"%s from %s must be greater than zero", option, s.name)
	}
	return s.value, nil
}

func resolveBool(option string, srcs ...source) (bool, error) {
	s, ok := first(srcs...)
	if !ok {
		return false, missing(option)
	}
	switch strings.ToLower(s.value) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	}
	return false, clierr.Newf(clierr.CodeInvalidFlag,
		"%s from %s must be true or false, got %q", option, s.name, s.value)
}

func missing(option string) error {
	return clierr.Newf(clierr.CodeMissingRequired, "missing required option %s", option)
}

func (r *Resolver) privateKey() (string, error) {
	return resolvePrivateKey("private-key",
		arg(r.in.PrivateKey),
		r.envVar(EnvPrivateKey),
		fileVal("private_key", r.file.PrivateKey),
	)
}

func (r *Resolver) mainnet() (bool, error) {
	return resolveBool("network",
		argBool(r.in.Mainnet),
		r.envVar(EnvIsMainnet),
		fileBool("is_mainnet", r.file.IsMainnet),
		fallback("true"),
	)
}

// BaseSettings resolves only credentials and network selection, for
// operations that submit nothing (overview, prepare-env).
func (r *Resolver) BaseSettings() (Settings, error) {
	key, err := r.privateKey()
	if err != nil {
		return Settings{}, err
	}
	mainnet, err := r.mainnet()
	if err != nil {
		return Settings{}, err
	}
	return Settings{PrivateKey: key, Mainnet: mainnet}, nil
}

// UnstakeSettings resolves everything an undelegate needs. The validator has
// no environment or file source: picking a validator is always explicit.
func (r *Resolver) UnstakeSettings() (Settings, error) {
	st, err := r.BaseSettings()
	if err != nil {
		return Settings{}, err
	}
	validator, err := resolveAddress("validator", arg(r.in.Validator))
	if err != nil {
		return Settings{}, err
	}
	amount, err := resolveAmount("amount", arg(r.in.Amount))
	if err != nil {
		return Settings{}, err
	}
	st.Validator = validator
	st.AmountHype = amount
	return st, nil
}

// StakeWithdrawSettings resolves the staking-to-spot withdrawal amount.
func (r *Resolver) StakeWithdrawSettings() (Settings, error) {
	st, err := r.BaseSettings()
	if err != nil {
		return Settings{}, err
	}
	amount, err := resolveAmount("amount",
		arg(r.in.Amount),
		r.envVar(EnvWithdrawAmountHYP),
	)
	if err != nil {
		return Settings{}, err
	}
	st.AmountHype = amount
	return st, nil
}

// VaultTransferSettings resolves a vault deposit or withdrawal. Direction
// defaults to withdraw when no source provides one.
func (r *Resolver) VaultTransferSettings() (Settings, error) {
	st, err := r.BaseSettings()
	if err != nil {
		return Settings{}, err
	}
	vault, err := resolveAddress("vault-address",
		arg(r.in.VaultAddress),
		r.envVar(EnvVaultAddress),
		fileVal("vault_address", r.file.VaultAddress),
	)
	if err != nil {
		return Settings{}, err
	}
	amount, err := resolveAmount("amount-usd",
		arg(r.in.AmountUSD),
		r.envVar(EnvWithdrawAmountUSD),
		fileVal("default_vault_withdraw_usd", string(r.file.DefaultVaultWithdrawUSD)),
	)
	if err != nil {
		return Settings{}, err
	}
	deposit, err := resolveBool("direction",
		argBool(r.in.Deposit),
		r.envVar(EnvIsDeposit),
		fileBool("vault_is_deposit_default", r.file.VaultIsDepositDefault),
		fallback("false"),
	)
	if err != nil {
		return Settings{}, err
	}
	st.Vault = vault
	st.AmountUSD = amount
	st.IsDeposit = deposit
	return st, nil
}
