package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vhallberg/viska/internal/audio"
	"github.com/vhallberg/viska/internal/autostart"
	"github.com/vhallberg/viska/internal/hotkey"
	"github.com/vhallberg/viska/internal/notify"
	"github.com/vhallberg/viska/internal/platform"
	"github.com/vhallberg/viska/internal/session"
	"github.com/vhallberg/viska/internal/settings"
	"github.com/vhallberg/viska/internal/typing"
)

const captureSampleRate = 16000

// runDaemon registers the push-to-talk hotkeys and serves dictation sessions
// until interrupted.
func (a *appState) runDaemon(ctx context.Context) error {
	cfg, settingsPath, err := a.loadSettings()
	if err != nil {
		return err
	}

	// The stored autostart flag follows the actual login item, which the
	// user may have removed out of band.
	if execPath, execErr := os.Executable(); execErr == nil {
		if mgr, mgrErr := autostart.NewManager(execPath); mgrErr == nil && cfg.Autostart != mgr.Enabled() {
			cfg.Autostart = mgr.Enabled()
			if saveErr := settings.Save(settingsPath, cfg); saveErr != nil {
				a.log().Warn("failed to sync autostart setting", zap.Error(saveErr))
			}
		}
	}

	client, err := a.speechClient()
	if err != nil {
		return err
	}

	capture := audio.NewCapture(audio.Config{SampleRate: captureSampleRate})
	if !capture.Available() {
		return audio.ErrCaptureUnavailable
	}

	recordingDir, err := recordingDir()
	if err != nil {
		return err
	}

	controller := session.NewController(session.Config{
		Settings:     cfg,
		Logger:       a.log(),
		Capture:      capture,
		Speech:       client,
		Injector:     typing.NewInjector(),
		RecordingDir: recordingDir,
		SampleRate:   captureSampleRate,
	})
	controller.SetNotifier(notify.Warn)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	primary, err := hotkey.Bind(cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("bind hotkey %q: %w", cfg.Hotkey, err)
	}
	defer primary.Close()

	a.serveBinding(ctx, primary, controller, false)

	if cfg.AutoSendKey != "" {
		autoSend, err := hotkey.Bind(cfg.AutoSendKey)
		if err != nil {
			return fmt.Errorf("bind auto-send hotkey %q: %w", cfg.AutoSendKey, err)
		}
		defer autoSend.Close()
		a.serveBinding(ctx, autoSend, controller, true)
	}

	fmt.Fprintf(a.outWriter(), "viska ready: hold %s to dictate", cfg.Hotkey)
	if cfg.AutoSendKey != "" {
		fmt.Fprintf(a.outWriter(), ", %s to dictate and send", cfg.AutoSendKey)
	}
	fmt.Fprintln(a.outWriter())

	a.log().Info("daemon started",
		zap.String("hotkey", cfg.Hotkey),
		zap.String("auto_send_key", cfg.AutoSendKey),
		zap.String("language", cfg.Language),
		zap.Bool("use_llm", cfg.UseLLM))

	<-ctx.Done()
	controller.Abort()
	a.log().Info("daemon stopped")
	return nil
}

// serveBinding turns hotkey press/release events into recording sessions.
func (a *appState) serveBinding(ctx context.Context, b *hotkey.Binding, controller *session.Controller, autoSend bool) {
	go b.Listen(ctx,
		func() {
			if err := controller.Start(ctx, autoSend); err != nil {
				a.log().Warn("failed to start recording", zap.String("hotkey", b.Spec()), zap.Error(err))
				notify.Warn("Could not start recording.")
			}
		},
		func() {
			if err := controller.Stop(ctx); err != nil {
				a.log().Warn("session failed", zap.String("hotkey", b.Spec()), zap.Error(err))
			}
		})
}

func recordingDir() (string, error) {
	dir, err := platform.ResolveRecordingDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create recording directory %s: %w", dir, err)
	}
	return dir, nil
}
