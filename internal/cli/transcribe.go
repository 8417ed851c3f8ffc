package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	var typeResult bool
	var language string

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := language
			if lang == "" {
				cfg, _, err := app.loadSettings()
				if err != nil {
					return err
				}
				lang = cfg.Language
			}

			transcript, err := app.transcribeFn(cmd.Context(), args[0], lang)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), transcript)
			if typeResult {
				if err := app.typeFn(transcript + " "); err != nil {
					return fmt.Errorf("type transcript: %w", err)
				}
				app.log().Info("transcript typed into focused application")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&typeResult, "type", false, "Type the transcript into the focused application")
	cmd.Flags().StringVar(&language, "language", "", "Language code override, e.g. sv or en")
	return cmd
}

func (a *appState) transcribeAudio(ctx context.Context, audioPath, language string) (string, error) {
	audioPath = filepath.Clean(audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}

	client, err := a.speechClient()
	if err != nil {
		return "", err
	}

	a.log().Info("transcribing...", zap.String("audio", audioPath), zap.String("language", language))
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	transcript, err := client.Transcribe(ctx, audioPath, language)
	stopSpinner()
	if err != nil {
		a.log().Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", err
	}
	a.log().Info("transcription finished", zap.Duration("elapsed", time.Since(started)))

	return transcript, nil
}
