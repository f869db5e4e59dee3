package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

// DefaultConfigPath is the original tooling's config.json contract: a local
// file next to the binary invocation, owned by the user.
const DefaultConfigPath = "config.json"

// GlobalFlags mirrors the persistent cobra flags on the root command.
type GlobalFlags struct {
	ConfigPath  string
	PrivateKey  string
	Testnet     bool
	TestnetSet  bool
	JSON        bool
	Plain       bool
	ResultsOnly bool
	LogLevel    string
}

// Environment variable names recognized alongside the CLI flags. These match
// the .env contract shared with the original withdraw tooling.
const (
	EnvPrivateKey        = "PRIVATE_KEY"
	EnvVaultAddress      = "VAULT_ADDRESS"
	EnvWithdrawAmountHYP = "WITHDRAW_AMOUNT_HYPE"
	EnvWithdrawAmountUSD = "WITHDRAW_AMOUNT_USD"
	EnvIsDeposit         = "IS_DEPOSIT"
	EnvIsMainnet         = "IS_MAINNET"
)

// flexNumber keeps numeric config values as their literal text so that
// amounts like 1.5 survive the trip through JSON or YAML without a float
// round-trip.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = flexNumber(s)
		return nil
	}
	*n = flexNumber(num.String())
	return nil
}

func (n *flexNumber) UnmarshalYAML(value *yaml.Node) error {
	*n = flexNumber(strings.TrimSpace(value.Value))
	return nil
}

// FileConfig is the recognized shape of config.json (or config.yaml).
type FileConfig struct {
	PrivateKey              string     `json:"private_key" yaml:"private_key"`
	VaultAddress            string     `json:"vault_address" yaml:"vault_address"`
	DefaultVaultWithdrawUSD flexNumber `json:"default_vault_withdraw_usd" yaml:"default_vault_withdraw_usd"`
	IsMainnet               *bool      `json:"is_mainnet" yaml:"is_mainnet"`
	VaultIsDepositDefault   *bool      `json:"vault_is_deposit_default" yaml:"vault_is_deposit_default"`
}

// LoadFile reads the config file when it exists. A missing file is fine (all
// values may come from flags or environment); a present but unreadable or
// malformed file is a hard usage error.
func LoadFile(path string) (FileConfig, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, clierr.Wrap(clierr.CodeUsage, "read config file", err)
	}

	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return FileConfig{}, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("parse config yaml %s", path), err)
		}
	default:
		if err := json.Unmarshal(buf, &cfg); err != nil {
			return FileConfig{}, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("parse config json %s", path), err)
		}
	}
	return cfg, nil
}
