package config

import (
	"os"
	"path/filepath"
	"testing"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"private_key": "0xabc",
		"vault_address": "0xdef",
		"default_vault_withdraw_usd": 1.5,
		"is_mainnet": true,
		"vault_is_deposit_default": false
	}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.PrivateKey != "0xabc" || cfg.VaultAddress != "0xdef" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if string(cfg.DefaultVaultWithdrawUSD) != "1.5" {
		t.Fatalf("expected amount literal 1.5, got %q", cfg.DefaultVaultWithdrawUSD)
	}
	if cfg.IsMainnet == nil || !*cfg.IsMainnet {
		t.Fatal("expected is_mainnet true")
	}
	if cfg.VaultIsDepositDefault == nil || *cfg.VaultIsDepositDefault {
		t.Fatal("expected vault_is_deposit_default false")
	}
}

func TestLoadFileJSONStringAmount(t *testing.T) {
	path := writeFile(t, "config.json", `{"default_vault_withdraw_usd": "2.75"}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if string(cfg.DefaultVaultWithdrawUSD) != "2.75" {
		t.Fatalf("expected quoted amount accepted, got %q", cfg.DefaultVaultWithdrawUSD)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "private_key: 0xabc\ndefault_vault_withdraw_usd: 1.5\nis_mainnet: false\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.PrivateKey != "0xabc" {
		t.Fatalf("unexpected private key %q", cfg.PrivateKey)
	}
	if string(cfg.DefaultVaultWithdrawUSD) != "1.5" {
		t.Fatalf("expected yaml amount literal preserved, got %q", cfg.DefaultVaultWithdrawUSD)
	}
	if cfg.IsMainnet == nil || *cfg.IsMainnet {
		t.Fatal("expected is_mainnet false")
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should resolve to empty config, got %v", err)
	}
	if cfg != (FileConfig{}) {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadFileMalformedJSON(t *testing.T) {
	path := writeFile(t, "config.json", "{not json")
	_, err := LoadFile(path)
	cliErr, ok := clierr.As(err)
	if !ok || cliErr.Code != clierr.CodeUsage {
		t.Fatalf("expected usage error for malformed config, got %v", err)
	}
}
