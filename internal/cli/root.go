package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"

	"github.com/vhallberg/viska/internal/autostart"
	"github.com/vhallberg/viska/internal/credentials"
	"github.com/vhallberg/viska/internal/logging"
	"github.com/vhallberg/viska/internal/platform"
	"github.com/vhallberg/viska/internal/settings"
	"github.com/vhallberg/viska/internal/speech"
	"github.com/vhallberg/viska/internal/typing"
	"github.com/vhallberg/viska/internal/version"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	configDir  string

	logger *zap.Logger
	out    io.Writer

	transcribeFn  func(ctx context.Context, audioPath, language string) (string, error)
	typeFn        func(text string) error
	listDevicesFn func(ctx context.Context) (string, error)
	readSecretFn  func(prompt string) (string, error)
	autostartFn   func(enable bool) error
	daemonFn      func(ctx context.Context) error
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		out: os.Stdout,
	}
	app.transcribeFn = app.transcribeAudio
	app.typeFn = func(text string) error { return typing.NewInjector().Type(text) }
	app.listDevicesFn = app.listDevices
	app.readSecretFn = readSecret
	app.autostartFn = syncAutostart
	app.daemonFn = app.runDaemon

	cmd := &cobra.Command{
		Use:           "viska",
		Short:         "Push-to-talk dictation: hold a hotkey, speak, release to type",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.daemonFn(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindConfigDirFlag(cmd, app)

	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newDevicesCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindConfigDirFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.configDir, "config-dir", app.configDir, "Override the settings and credentials directory")
}

func (a *appState) settingsPath() (string, error) {
	if a.configDir != "" {
		return filepath.Join(a.configDir, "settings.json"), nil
	}
	return platform.SettingsPath()
}

func (a *appState) credentialsPath() (string, error) {
	if a.configDir != "" {
		return filepath.Join(a.configDir, "credentials.env"), nil
	}
	return platform.CredentialsPath()
}

func (a *appState) loadSettings() (settings.Settings, string, error) {
	path, err := a.settingsPath()
	if err != nil {
		return settings.Settings{}, "", err
	}
	s, err := settings.Load(path)
	if err != nil {
		return settings.Settings{}, "", err
	}
	return s, path, nil
}

func (a *appState) speechClient() (*speech.Client, error) {
	path, err := a.credentialsPath()
	if err != nil {
		return nil, err
	}
	creds, err := credentials.Load(path)
	if err != nil {
		return nil, err
	}
	return speech.NewClient(speech.Config{
		APIKey:    creds.APIKey,
		BaseURL:   creds.APIBase,
		STTModel:  creds.STTModel,
		ChatModel: creds.ChatModel,
		Logger:    a.log(),
	}), nil
}

// syncAutostart registers or removes the login item for the current binary.
func syncAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	mgr, err := autostart.NewManager(execPath)
	if err != nil {
		return err
	}
	if enable {
		return mgr.Enable()
	}
	return mgr.Disable()
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
