package app

import (
	"github.com/spf13/cobra"

	"github.com/hypeops/hypectl/internal/actions"
	"github.com/hypeops/hypectl/internal/config"
	clierr "github.com/hypeops/hypectl/internal/errors"
)

func (s *runtimeState) newVaultTransferCommand() *cobra.Command {
	var vaultAddress, amountUSD string
	var deposit, withdraw bool
	cmd := &cobra.Command{
		Use:   "vault-transfer",
		Short: "Move USD between the perp account and a vault",
		Long: "Sends a vaultTransfer action. --deposit moves perp -> vault, " +
			"--withdraw moves vault -> perp. Withdraw is the default direction " +
			"when neither flag, IS_DEPOSIT, nor the config default is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deposit && withdraw {
				return clierr.New(clierr.CodeUsage, "cannot use --deposit and --withdraw together")
			}
			in := config.Inputs{VaultAddress: vaultAddress, AmountUSD: amountUSD}
			if deposit {
				v := true
				in.Deposit = &v
			} else if withdraw {
				v := false
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
			kind := actions.KindVaultWithdraw
			if st.IsDeposit {
				kind = actions.KindVaultDeposit
			}
			return s.dispatch(kind, st)
		},
	}
	cmd.Flags().StringVar(&vaultAddress, "vault-address", "", "Vault address to transfer to/from (0x...)")
	cmd.Flags().StringVar(&amountUSD, "amount-usd", "", "Amount in USD (e.g. 1.5)")
	cmd.Flags().BoolVar(&deposit, "deposit", false, "Deposit into the vault (perp -> vault)")
	cmd.Flags().BoolVar(&withdraw, "withdraw", false, "Withdraw from the vault (vault -> perp) [default]")
	return cmd
}
