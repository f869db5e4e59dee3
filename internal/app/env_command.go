package app

import (
	"github.com/spf13/cobra"

	"github.com/hypeops/hypectl/internal/config"
	"github.com/hypeops/hypectl/internal/envfile"
)

type prepareEnvResult struct {
	Path   string `json:"path"`
	Amount string `json:"amount_hype"`
}

func (s *runtimeState) newPrepareEnvCommand() *cobra.Command {
	var amount, envPath string
	cmd := &cobra.Command{
		Use:   "prepare-env",
		Short: "Write PRIVATE_KEY and AMOUNT_HYPE_TO_WITHDRAW into a .env file",
		Long: "Updates the .env file consumed by the legacy withdraw script, " +
			"replacing the managed keys and leaving every other line untouched.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := s.resolver(config.Inputs{Amount: amount})
			if err != nil {
				return err
			}
			st, err := resolver.StakeWithdrawSettings()
			if err != nil {
				return err
			}
			if err := envfile.Prepare(envPath, st.PrivateKey, st.AmountHype); err != nil {
				return err
			}
			path := envPath
			if path == "" {
				path = envfile.DefaultPath
			}
			// Confirm from the file itself, not from what we meant to write.
			_, amount := envfile.Current(path)
			return s.emitSuccess(prepareEnvResult{Path: path, Amount: amount}, networkName(st.Mainnet), "")
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount of HYPE to withdraw once unlocked (e.g. 10.0)")
	cmd.Flags().StringVar(&envPath, "env-path", "", "Path to the .env file (default: .env)")
	return cmd
}
