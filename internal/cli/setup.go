package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vhallberg/viska/internal/credentials"
)

func newSetupCmd(app *appState) *cobra.Command {
	var apiBase string
	var sttModel string
	var chatModel string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the speech API credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := app.readSecretFn("API key: ")
			if err != nil {
				return fmt.Errorf("read API key: %w", err)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("API key must not be empty")
			}

			path, err := app.credentialsPath()
			if err != nil {
				return err
			}

			creds := credentials.Credentials{
				APIKey:    key,
				APIBase:   apiBase,
				STTModel:  sttModel,
				ChatModel: chatModel,
			}
			if err := credentials.Save(path, creds); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "API base URL (default Groq)")
	cmd.Flags().StringVar(&sttModel, "stt-model", "", "Transcription model name")
	cmd.Flags().StringVar(&chatModel, "chat-model", "", "Correction model name")
	return cmd
}

// readSecret reads a line from stdin, without echo when stdin is a terminal.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
