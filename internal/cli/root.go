package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	prompt "scriptfetch/cli"
	"scriptfetch/internal/clipboard"
	"scriptfetch/internal/config"
	"scriptfetch/internal/core"
	"scriptfetch/internal/download/types"
	"scriptfetch/internal/state"
	"scriptfetch/internal/ui"
	"scriptfetch/internal/utils"
	"scriptfetch/manager"
	"scriptfetch/util"
)

// Version information - set via ldflags during build.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// ErrAlreadyRunning is returned when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Command line flags
var verbose bool

// GlobalService is the fetch service of the running command, closed on shutdown.
var GlobalService core.FetchService

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scriptfetch [filename]",
	Short: "Download a PowerShell script from the Atmystic repository",
	Long: `scriptfetch asks for a script filename, validates it and downloads it
from the Atmystic script repository into the local scripts directory.
If the download fails it is retried once with an alternate HTTP client.`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetVerbose(verbose)
		if verbose {
			utils.MirrorTo(cmd.ErrOrStderr())
		}
	},
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	defer func() {
		if err := executeGlobalShutdown("command finished"); err != nil {
			utils.Debug("%v", err)
		}
	}()

	settings := loadSettings()
	if err := applyFlagOverrides(cmd, settings); err != nil {
		return err
	}

	svc, err := core.NewLocalFetchService(settings)
	if err != nil {
		return err
	}
	GlobalService = svc

	quiet, _ := cmd.Flags().GetBool("quiet")
	console := ui.NewConsole(cmd.OutOrStdout(), quiet)

	m := manager.New(svc, console, inputSource(cmd, args, console))
	m.OnValidated(func(target types.Target) error {
		initializeGlobalState(settings)
		isMaster, err := AcquireLock()
		if err != nil {
			return fmt.Errorf("error acquiring lock: %w", err)
		}
		if !isMaster {
			console.Error(util.AnotherInstanceMsg)
			return &manager.ReportedError{Err: ErrAlreadyRunning}
		}
		utils.Debug("Fetching %s into %s", target.Filename, target.Path)
		return nil
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m.Init()
	if _, err := m.Run(ctx); err != nil {
		return err
	}
	m.End()
	return nil
}

// inputSource picks where the filename comes from: the positional argument,
// the clipboard, or the interactive prompt, in that order.
func inputSource(cmd *cobra.Command, args []string, console *ui.Console) manager.InputFunc {
	if len(args) > 0 {
		return func() (string, error) { return args[0], nil }
	}
	if useClipboard, _ := cmd.Flags().GetBool("clipboard"); useClipboard {
		return func() (string, error) {
			name, err := clipboard.ReadFilename()
			if err != nil {
				if errors.Is(err, clipboard.ErrNoFilename) {
					console.Error("Clipboard does not contain a script filename")
				} else {
					console.Error("Error reading from clipboard: %v", err)
				}
				return "", &manager.ReportedError{Err: err}
			}
			console.Info("Filename from clipboard: %s", name)
			return name, nil
		}
	}
	return func() (string, error) {
		return prompt.GetFilenameFromUser(cmd.InOrStdin(), cmd.OutOrStdout())
	}
}

// loadSettings keeps the command usable when settings.yaml is unreadable.
func loadSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		utils.Debug("Using default settings: %v", err)
		return config.DefaultSettings()
	}
	return settings
}

// applyFlagOverrides copies explicitly set flags over the loaded settings.
func applyFlagOverrides(cmd *cobra.Command, settings *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		if v == "" {
			return errors.New("--output must not be empty")
		}
		settings.General.OutputDir = utils.EnsureAbsPath(v)
	}
	if flags.Changed("base-url") {
		v, _ := flags.GetString("base-url")
		if v == "" {
			return errors.New("--base-url must not be empty")
		}
		settings.General.BaseURL = v
	}
	if flags.Changed("protocol") {
		settings.Network.PrimaryProtocol, _ = flags.GetString("protocol")
	}
	if flags.Changed("fallback-protocol") {
		settings.Network.FallbackProtocol, _ = flags.GetString("fallback-protocol")
	}
	if noHistory, _ := flags.GetBool("no-history"); noHistory {
		settings.General.RecordHistory = false
	}
	return nil
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	os.Exit(run(context.Background(), os.Stderr))
}

func run(ctx context.Context, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !manager.Reported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringP("output", "o", "", "Directory to save the script in")
	rootCmd.Flags().String("base-url", "", "Remote directory the filename is appended to")
	rootCmd.Flags().Bool("clipboard", false, "Read the filename from the clipboard")
	rootCmd.Flags().String("protocol", "", "Primary HTTP client: auto, h1, h2 or h3")
	rootCmd.Flags().String("fallback-protocol", "", "Alternate HTTP client used after a failure: auto, h1, h2 or h3")
	rootCmd.Flags().Bool("no-history", false, "Do not record this fetch in the history database")
	rootCmd.Flags().BoolP("quiet", "q", false, "Only print status lines")
	rootCmd.SetVersionTemplate("scriptfetch v{{.Version}}\n")
}

// initializeGlobalState prepares directories, DB, and logging for CLI usage.
func initializeGlobalState(settings *config.Settings) {
	stateDir := config.GetStateDir()
	logsDir := config.GetLogsDir()

	// Ensure directories exist
	_ = os.MkdirAll(stateDir, 0o755)
	_ = os.MkdirAll(logsDir, 0o755)

	// Config engine state
	state.Configure(config.GetHistoryDBPath())

	// Config logging
	utils.ConfigureDebug(logsDir)

	// Clean up old logs
	utils.CleanupLogs(settings.General.LogRetentionCount)
}
