package app

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/hypeops/hypectl/internal/actions"
	"github.com/hypeops/hypectl/internal/config"
	"github.com/hypeops/hypectl/internal/hl"
)

func (s *runtimeState) newUnstakeCommand() *cobra.Command {
	var validator, amount string
	cmd := &cobra.Command{
		Use:   "unstake",
		Short: "Unstake (undelegate) HYPE from a validator",
		Long: "Sends a tokenDelegate action with isUndelegate=true. The tokens enter " +
			"the unbonding period and become withdrawable once it ends.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := s.resolver(config.Inputs{Validator: validator, Amount: amount})
			if err != nil {
				return err
			}
			st, err := resolver.UnstakeSettings()
			if err != nil {
				return err
			}
			return s.dispatch(actions.KindUndelegate, st)
		},
	}
	cmd.Flags().StringVar(&validator, "validator", "", "Validator address to unstake from (0x...)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount of HYPE to unstake (e.g. 10 or 5.5)")
	return cmd
}

func (s *runtimeState) newWithdrawStakeCommand() *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "withdraw-stake",
		Short: "Withdraw unlocked HYPE from staking into the spot balance",
		Long: "Sends a cWithdraw action moving tokens from the staking balance to " +
			"spot. Only tokens whose unbonding period has ended can move.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := s.resolver(config.Inputs{Amount: amount})
			if err != nil {
				return err
			}
			st, err := resolver.StakeWithdrawSettings()
			if err != nil {
				return err
			}
			return s.dispatch(actions.KindStakeWithdraw, st)
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount of HYPE to withdraw (WITHDRAW_AMOUNT_HYPE env as fallback)")
	return cmd
}

type overviewData struct {
	Address     string          `json:"address"`
	Summary     json.RawMessage `json:"summary"`
	Delegations json.RawMessage `json:"delegations,omitempty"`
	Rewards     json.RawMessage `json:"rewards,omitempty"`
}

func (s *runtimeState) newOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the staking summary, delegations, and recent rewards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := s.resolver(config.Inputs{})
			if err != nil {
				return err
			}
			st, err := resolver.BaseSettings()
			if err != nil {
				return err
			}
			data, err := s.fetchOverview(st)
			if err != nil {
				return err
			}
			return s.emitSuccess(data, networkName(st.Mainnet), data.Address)
		},
	}
}

func (s *runtimeState) fetchOverview(st config.Settings) (overviewData, error) {
	_, address, err := hl.ParsePrivateKey(st.PrivateKey)
	if err != nil {
		return overviewData{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	info := s.newInfo(st)
	summary, err := info.DelegatorSummary(ctx, address)
	if err != nil {
		return overviewData{}, err
	}
	data := overviewData{Address: address.Hex(), Summary: summary}
	// Delegations and rewards are best-effort extras: the summary is the
	// overview, the rest enriches it when the API cooperates.
	if delegations, err := info.Delegations(ctx, address); err == nil {
		data.Delegations = delegations
	} else {
		s.log.Debug().Err(err).Msg("delegations unavailable")
	}
	if rewards, err := info.DelegatorRewards(ctx, address); err == nil {
		data.Rewards = rewards
	} else {
		s.log.Debug().Err(err).Msg("rewards unavailable")
	}
	return data, nil
}
