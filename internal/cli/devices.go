package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vhallberg/viska/internal/audio"
)

func newDevicesCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio capture devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := app.listDevicesFn(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no devices reported")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *appState) listDevices(ctx context.Context) (string, error) {
	capture := audio.NewCapture(audio.Config{})
	if !capture.Available() {
		return "", audio.ErrCaptureUnavailable
	}
	return capture.ListDevices(ctx)
}
