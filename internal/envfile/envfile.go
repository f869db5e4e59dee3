package envfile

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

const (
	DefaultPath = ".env"

	KeyPrivateKey     = "PRIVATE_KEY"
	KeyWithdrawAmount = "AMOUNT_HYPE_TO_WITHDRAW"
)

// Prepare rewrites the .env file shared with the withdraw tooling, setting
// PRIVATE_KEY and AMOUNT_HYPE_TO_WITHDRAW while preserving every unrelated
// line (comments, other variables, blank lines) byte for byte. The rewrite
// runs under a file lock so two invocations cannot interleave.
func Prepare(path, privateKeyHex, amountHype string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return clierr.Wrap(clierr.CodeInternal, "lock env file", err)
	}
	if !locked {
		return clierr.New(clierr.CodeInternal, "lock env file: timeout acquiring lock")
	}
	defer func() { _ = lock.Unlock() }()

	var lines []string
	if buf, err := os.ReadFile(path); err == nil {
		lines = strings.Split(string(buf), "\n")
		// Drop the trailing empty element from a final newline so we do not
		// accumulate blank lines across rewrites.
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
	} else if !os.IsNotExist(err) {
		return clierr.Wrap(clierr.CodeInternal, "read env file", err)
	}

	if !strings.HasPrefix(privateKeyHex, "0x") {
		privateKeyHex = "0x" + privateKeyHex
	}
	replacements := map[string]string{
		KeyPrivateKey:     privateKeyHex,
		KeyWithdrawAmount: amountHype,
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(lines)+len(replacements))
	for _, line := range lines {
		replaced := false
		for key, value := range replacements {
			if strings.HasPrefix(line, key+"=") {
				out = append(out, fmt.Sprintf("%s=%s", key, value))
				seen[key] = true
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, line)
		}
	}
	for _, key := range []string{KeyPrivateKey, KeyWithdrawAmount} {
		if !seen[key] {
			out = append(out, fmt.Sprintf("%s=%s", key, replacements[key]))
		}
	}

	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0o600); err != nil {
		return clierr.Wrap(clierr.CodeInternal, "write env file", err)
	}
	return nil
}

// Current reads the managed keys back for confirmation output. A missing
// file returns empty values.
func Current(path string) (privateKey, amount string) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return "", ""
	}
	return values[KeyPrivateKey], values[KeyWithdrawAmount]
}
