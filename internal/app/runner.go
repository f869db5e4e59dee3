package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hypeops/hypectl/internal/config"
	clierr "github.com/hypeops/hypectl/internal/errors"
	"github.com/hypeops/hypectl/internal/out"
	"github.com/hypeops/hypectl/internal/util"
	"github.com/hypeops/hypectl/internal/version"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithStreams(os.Stdout, os.Stderr, os.Stdin)
}

func NewRunnerWithStreams(stdout, stderr io.Writer, stdin io.Reader) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		stdin:  stdin,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	timeout     time.Duration
	apiURL      string // test/debug override for the exchange endpoints
	log         zerolog.Logger
	lastCommand string
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r, timeout: 30 * time.Second}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	if err == nil {
		return 0
	}
	state.renderError(err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	var timeoutFlag string
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Hyperliquid staking and vault transfer CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			if s.flags.JSON && s.flags.Plain {
				return clierr.New(clierr.CodeUsage, "cannot use --json and --plain together")
			}
			if timeoutFlag != "" {
				d, err := time.ParseDuration(timeoutFlag)
				if err != nil || d <= 0 {
					return clierr.Newf(clierr.CodeUsage, "invalid --timeout %q", timeoutFlag)
				}
				s.timeout = d
			}
			s.flags.TestnetSet = cmd.Flags().Changed("testnet")
			// A local .env participates as the lowest-priority environment
			// source; already-set variables are never overridden.
			_ = godotenv.Load()
			s.log = util.NewLogger(s.runner.stderr, s.flags.LogLevel)
			s.lastCommand = trimRootPath(cmd.CommandPath())
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.flags.ConfigPath, "config", "", "Path to config.json or config.yaml (default: config.json)")
	flags.StringVar(&s.flags.PrivateKey, "private-key", "", "EOA private key (0x...); overrides PRIVATE_KEY env and config file")
	flags.BoolVar(&s.flags.Testnet, "testnet", false, "Use the Hyperliquid testnet instead of mainnet")
	flags.BoolVar(&s.flags.JSON, "json", false, "Force JSON output (default)")
	flags.BoolVar(&s.flags.Plain, "plain", false, "Render results as plain key=value lines")
	flags.BoolVar(&s.flags.ResultsOnly, "results-only", false, "Print only the result payload, without the envelope")
	flags.StringVar(&s.flags.LogLevel, "log-level", "warn", "Log level (trace|debug|info|warn|error)")
	flags.StringVar(&timeoutFlag, "timeout", "", "Per-request timeout (e.g. 30s)")
	flags.StringVar(&s.apiURL, "api-url", "", "Override the exchange API base URL")
	_ = flags.MarkHidden("api-url")

	cmd.AddCommand(s.newUnstakeCommand())
	cmd.AddCommand(s.newVaultTransferCommand())
	cmd.AddCommand(s.newWithdrawStakeCommand())
	cmd.AddCommand(s.newOverviewCommand())
	cmd.AddCommand(s.newPrepareEnvCommand())
	cmd.AddCommand(s.newShellCommand())
	cmd.AddCommand(s.newVersionCommand())
	return cmd
}

func (s *runtimeState) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(s.runner.stdout, "%s %s\n", version.CLIName, version.Long())
			return err
		},
	}
}

// resolver assembles the argument layer for one invocation, folding in the
// persistent flags, and pairs it with the parsed config file.
func (s *runtimeState) resolver(in config.Inputs) (*config.Resolver, error) {
	fileCfg, err := config.LoadFile(s.flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PrivateKey) == "" {
		in.PrivateKey = s.flags.PrivateKey
	}
	if s.flags.TestnetSet && s.flags.Testnet {
		mainnet := false
		in.Mainnet = &mainnet
	}
	return config.NewResolver(in, fileCfg), nil
}

func (s *runtimeState) outputOptions() out.Options {
	mode := "json"
	if s.flags.Plain {
		mode = "plain"
	}
	return out.Options{Mode: mode, ResultsOnly: s.flags.ResultsOnly}
}

func (s *runtimeState) emitSuccess(data any, network, address string) error {
	env := out.Envelope{
		Success: true,
		Data:    data,
		Meta: out.EnvelopeMeta{
			Command:   s.lastCommand,
			Timestamp: s.runner.now().UTC(),
			Network:   network,
			Address:   address,
		},
	}
	return out.Render(s.runner.stdout, env, s.outputOptions())
}

func (s *runtimeState) renderError(err error) {
	code := clierr.CodeInternal
	if cliErr, ok := clierr.As(err); ok {
		code = cliErr.Code
	}
	env := out.Envelope{
		Success: false,
		Error: &out.ErrorBody{
			Code:    int(code),
			Type:    code.String(),
			Message: err.Error(),
		},
		Meta: out.EnvelopeMeta{
			Command:   s.lastCommand,
			Timestamp: s.runner.now().UTC(),
		},
	}
	// Error envelopes always keep their wrapper, even with --results-only.
	opts := s.outputOptions()
	opts.ResultsOnly = false
	if renderErr := out.Render(s.runner.stderr, env, opts); renderErr != nil {
		fmt.Fprintf(s.runner.stderr, "error: %v\n", err)
	}
}

func trimRootPath(path string) string {
	return strings.TrimSpace(strings.TrimPrefix(path, version.CLIName))
}

func networkName(mainnet bool) string {
	if mainnet {
		return "mainnet"
	}
	return "testnet"
}
