package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypeops/hypectl/internal/actions"
	"github.com/hypeops/hypectl/internal/config"
	"github.com/hypeops/hypectl/internal/envfile"
	"github.com/hypeops/hypectl/internal/hl"
)

func (s *runtimeState) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu for staking and vault operations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runShell()
		},
	}
}

func (s *runtimeState) runShell() error {
	reader := bufio.NewReader(s.runner.stdin)
	w := s.runner.stdout

	resolver, err := s.resolver(config.Inputs{})
	if err != nil {
		return err
	}
	st, err := resolver.BaseSettings()
	if err != nil {
		return err
	}
	_, address, err := hl.ParsePrivateKey(st.PrivateKey)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "hypectl — Hyperliquid staking & vault transfers\n")
	fmt.Fprintf(w, "Connected wallet: %s (%s)\n", address.Hex(), networkName(st.Mainnet))

	for {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Choose an option:")
		fmt.Fprintln(w, "  1. View staking overview (summary, rewards)")
		fmt.Fprintln(w, "  2. Unstake (undelegate) HYPE from a validator")
		fmt.Fprintln(w, "  3. Prepare .env for the staking withdrawal")
		fmt.Fprintln(w, "  4. Vault transfer (deposit / withdraw)")
		fmt.Fprintln(w, "  5. Exit")

		choice, err := prompt(reader, w, "Your choice (1-5)", "1")
		if err != nil {
			return nil // EOF ends the session
		}
		switch choice {
		case "1":
			s.shellShow(w, s.shellOverview(st))
		case "2":
			s.shellShow(w, s.shellUnstake(reader, w, st))
		case "3":
			s.shellShow(w, s.shellPrepareEnv(reader, w))
		case "4":
			s.shellShow(w, s.shellVaultTransfer(reader, w))
		case "5":
			fmt.Fprintln(w, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(w, "Invalid choice. Please select 1-5.")
		}
	}
}

// shellShow reports an action error without ending the session; the menu
// loop keeps running either way.
func (s *runtimeState) shellShow(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func (s *runtimeState) shellOverview(st config.Settings) error {
	data, err := s.fetchOverview(st)
	if err != nil {
		return err
	}
	return s.printJSON(data)
}

func (s *runtimeState) shellUnstake(reader *bufio.Reader, w io.Writer, base config.Settings) error {
	validator, err := prompt(reader, w, "Validator address (0x...)", "")
	if err != nil {
		return err
	}
	amount, err := prompt(reader, w, "Amount of HYPE to unstake", "10")
	if err != nil {
		return err
	}
	resolver, err := s.resolver(config.Inputs{Validator: validator, Amount: amount})
	if err != nil {
		return err
	}
	st, err := resolver.UnstakeSettings()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nAbout to UNSTAKE %s HYPE from validator %s on %s.\n",
		st.AmountHype, st.Validator.Hex(), networkName(st.Mainnet))
	fmt.Fprintln(w, "This starts the unbonding period; tokens will not be immediately withdrawable.")
	if !confirm(reader, w, "Proceed?") {
		fmt.Fprintln(w, "Unstake cancelled.")
		return nil
	}
	return s.dispatch(actions.KindUndelegate, st)
}

func (s *runtimeState) shellPrepareEnv(reader *bufio.Reader, w io.Writer) error {
	// The currently configured amount, when one exists, is the prompt default.
	defAmount := "10.0"
	if _, current := envfile.Current(""); current != "" {
		defAmount = current
	}
	amount, err := prompt(reader, w, "Amount of HYPE to withdraw once unlocked", defAmount)
	if err != nil {
		return err
	}
	resolver, err := s.resolver(config.Inputs{Amount: amount})
	if err != nil {
		return err
	}
	st, err := resolver.StakeWithdrawSettings()
	if err != nil {
		return err
	}
	if err := envfile.Prepare("", st.PrivateKey, st.AmountHype); err != nil {
		return err
	}
	fmt.Fprintf(w, ".env updated: %s=%s\n", envfile.KeyWithdrawAmount, st.AmountHype)
	return nil
}

func (s *runtimeState) shellVaultTransfer(reader *bufio.Reader, w io.Writer) error {
	// Empty answers fall through to the environment and config file, so a
	// vault address or default amount configured there is not re-asked.
	vault, err := prompt(reader, w, "Vault address (0x..., empty to use config)", "")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Direction: 1 = deposit (perp -> vault), 2 = withdraw (vault -> perp)")
	directionChoice, err := prompt(reader, w, "Your choice (1/2)", "2")
	if err != nil {
		return err
	}
	amount, err := prompt(reader, w, "Amount in USD (empty to use config)", "")
	if err != nil {
		return err
	}

	in := config.Inputs{VaultAddress: vault, AmountUSD: amount}
	if directionChoice == "1" {
		v := true
		in.Deposit = &v
	}
	resolver, err := s.resolver(in)
	if err != nil {
		return err
	}
	st, err := resolver.VaultTransferSettings()
	if err != nil {
		return err
	}

	direction := "WITHDRAW (vault -> perp)"
	if st.IsDeposit {
		direction = "DEPOSIT (perp -> vault)"
	}
	fmt.Fprintf(w, "\nVault transfer on %s:\n  Direction: %s\n  Vault:     %s\n  Amount:    %s USD\n",
		networkName(st.Mainnet), direction, st.Vault.Hex(), st.AmountUSD)
	if !confirm(reader, w, "Proceed?") {
		fmt.Fprintln(w, "Vault transfer cancelled.")
		return nil
	}

	kind := actions.KindVaultWithdraw
	if st.IsDeposit {
		kind = actions.KindVaultDeposit
	}
	return s.dispatch(kind, st)
}

func (s *runtimeState) printJSON(data any) error {
	enc := json.NewEncoder(s.runner.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func prompt(reader *bufio.Reader, w io.Writer, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func confirm(reader *bufio.Reader, w io.Writer, label string) bool {
	answer, err := prompt(reader, w, label+" (y/N)", "n")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
