package errors

import (
	"fmt"
	"testing"
)

func TestCodeStrings(t *testing.T) {
	cases := map[Code]string{
		CodeSuccess:         "success",
		CodeInternal:        "internal",
		CodeUsage:           "usage",
		CodeMissingRequired: "missing_required",
		CodeInvalidAmount:   "invalid_amount",
		CodeInvalidAddress:  "invalid_address",
		CodeInvalidFlag:     "invalid_flag",
		CodeAmountTooSmall:  "amount_too_small",
		CodeRemote:          "remote",
		Code(99):            "internal",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", code, got, want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeRemote, "post action", cause)
	if err.Error() != "post action: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Fatal("expected cause preserved")
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := New(CodeInvalidAmount, "bad amount")
	wrapped := fmt.Errorf("resolving: %w", inner)
	cliErr, ok := As(wrapped)
	if !ok || cliErr.Code != CodeInvalidAmount {
		t.Fatalf("expected typed error through %%w, got %v", wrapped)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("nil error must exit 0, got %d", got)
	}
	if got := ExitCode(New(CodeRemote, "rejected")); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if got := ExitCode(fmt.Errorf("plain")); got != 1 {
		t.Fatalf("untyped errors exit 1, got %d", got)
	}
}
