package app

import (
	"net/http"
	"strings"
	"testing"
)

func TestShellExit(t *testing.T) {
	exit, stdout, stderr := runCLI([]string{
		"shell", "--private-key", testPrivateKey,
	}, "5\n")
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "Connected wallet: 0x") {
		t.Fatalf("expected wallet banner, got %s", stdout)
	}
	if !strings.Contains(stdout, "Goodbye!") {
		t.Fatalf("expected goodbye on exit, got %s", stdout)
	}
}

func TestShellEOFEndsSession(t *testing.T) {
	exit, _, stderr := runCLI([]string{
		"shell", "--private-key", testPrivateKey,
	}, "")
	if exit != 0 {
		t.Fatalf("EOF must end the session cleanly, got exit %d\nstderr: %s", exit, stderr)
	}
}

func TestShellInvalidChoiceKeepsLooping(t *testing.T) {
	exit, stdout, _ := runCLI([]string{
		"shell", "--private-key", testPrivateKey,
	}, "9\n5\n")
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d", exit)
	}
	if !strings.Contains(stdout, "Invalid choice") {
		t.Fatalf("expected invalid choice notice, got %s", stdout)
	}
	if !strings.Contains(stdout, "Goodbye!") {
		t.Fatalf("session must continue after an invalid choice, got %s", stdout)
	}
}

func TestShellUnstakeCancelled(t *testing.T) {
	srv, calls := exchangeServer(t, http.StatusOK, `{"status":"ok"}`)
	validator := "0x" + strings.Repeat("ab", 20)

	script := strings.Join([]string{
		"2",       // unstake
		validator, // validator address
		"",        // amount, accept the 10 default
		"n",       // do not proceed
		"5",       // exit
	}, "\n") + "\n"
	exit, stdout, stderr := runCLI([]string{
		"shell", "--private-key", testPrivateKey, "--api-url", srv.URL,
	}, script)
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "About to UNSTAKE 10 HYPE") {
		t.Fatalf("expected confirmation summary, got %s", stdout)
	}
	if !strings.Contains(stdout, "Unstake cancelled.") {
		t.Fatalf("expected cancellation notice, got %s", stdout)
	}
	if len(*calls) != 0 {
		t.Fatalf("cancelled unstake must not reach the exchange, got %d calls", len(*calls))
	}
}

func TestShellUnstakeConfirmed(t *testing.T) {
	srv, calls := exchangeServer(t, http.StatusOK, `{"status":"ok"}`)
	validator := "0x" + strings.Repeat("ab", 20)

	script := strings.Join([]string{"2", validator, "5.5", "y", "5"}, "\n") + "\n"
	exit, _, stderr := runCLI([]string{
		"shell", "--private-key", testPrivateKey, "--api-url", srv.URL,
	}, script)
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr: %s", exit, stderr)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(*calls))
	}
	action := (*calls)[0]["action"].(map[string]any)
	if action["type"] != "tokenDelegate" || action["wei"] != float64(550_000_000) {
		t.Fatalf("unexpected action %v", action)
	}
}

func TestShellVaultTransferDefaultDirection(t *testing.T) {
	srv, calls := exchangeServer(t, http.StatusOK, `{"status":"ok"}`)
	vault := "0x" + strings.Repeat("cd", 20)

	script := strings.Join([]string{
		"4",   // vault transfer
		vault, // vault address
		"",    // direction, accept the withdraw default
		"1.5", // amount in USD
		"y",   // proceed
		"5",   // exit
	}, "\n") + "\n"
	exit, stdout, stderr := runCLI([]string{
		"shell", "--private-key", testPrivateKey, "--api-url", srv.URL,
	}, script)
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "WITHDRAW (vault -> perp)") {
		t.Fatalf("expected withdraw direction in summary, got %s", stdout)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(*calls))
	}
	action := (*calls)[0]["action"].(map[string]any)
	if action["type"] != "vaultTransfer" || action["isDeposit"] != false {
		t.Fatalf("unexpected action %v", action)
	}
	if action["usd"] != float64(1_500_000) {
		t.Fatalf("expected 1.5 USD as 1500000, got %v", action["usd"])
	}
}

func TestShellErrorKeepsSessionAlive(t *testing.T) {
	script := strings.Join([]string{
		"2",         // unstake
		"not-an-0x", // invalid validator
		"10",        // amount
		"5",         // exit; the session must still be running
	}, "\n") + "\n"
	exit, stdout, _ := runCLI([]string{
		"shell", "--private-key", testPrivateKey,
	}, script)
	if exit != 0 {
		t.Fatalf("expected exit 0, got %d", exit)
	}
	if !strings.Contains(stdout, "Error:") {
		t.Fatalf("expected inline error report, got %s", stdout)
	}
	if !strings.Contains(stdout, "Goodbye!") {
		t.Fatalf("session must survive an action error, got %s", stdout)
	}
}
