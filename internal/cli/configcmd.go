package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vhallberg/viska/internal/hotkey"
	"github.com/vhallberg/viska/internal/settings"
)

// configFields maps settings field names to accessors, so get and set share
// one definition per field.
type configField struct {
	get func(s settings.Settings) string
	set func(s *settings.Settings, value string) error
}

func configFields() map[string]configField {
	return map[string]configField{
		"hotkey": {
			get: func(s settings.Settings) string { return s.Hotkey },
			set: func(s *settings.Settings, value string) error {
				if _, _, err := hotkey.Parse(value); err != nil {
					return err
				}
				s.Hotkey = value
				return nil
			},
		},
		"auto_send_key": {
			get: func(s settings.Settings) string { return s.AutoSendKey },
			set: func(s *settings.Settings, value string) error {
				if value != "" {
					if _, _, err := hotkey.Parse(value); err != nil {
						return err
					}
				}
				s.AutoSendKey = value
				return nil
			},
		},
		"send_mode": {
			get: func(s settings.Settings) string { return s.SendMode },
			set: func(s *settings.Settings, value string) error {
				if value != settings.SendModeEnter && value != settings.SendModeCmdEnter {
					return fmt.Errorf("send_mode must be %q or %q", settings.SendModeEnter, settings.SendModeCmdEnter)
				}
				s.SendMode = value
				return nil
			},
		},
		"language": {
			get: func(s settings.Settings) string { return s.Language },
			set: func(s *settings.Settings, value string) error {
				s.Language = value
				return nil
			},
		},
		"use_llm": {
			get: func(s settings.Settings) string { return strconv.FormatBool(s.UseLLM) },
			set: func(s *settings.Settings, value string) error {
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("use_llm must be true or false")
				}
				s.UseLLM = enabled
				return nil
			},
		},
		"instruction": {
			get: func(s settings.Settings) string { return s.Instruction },
			set: func(s *settings.Settings, value string) error {
				s.Instruction = value
				return nil
			},
		},
		"autostart": {
			get: func(s settings.Settings) string { return strconv.FormatBool(s.Autostart) },
			set: func(s *settings.Settings, value string) error {
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("autostart must be true or false")
				}
				s.Autostart = enabled
				return nil
			},
		},
	}
}

func newConfigCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change dictation settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := app.loadSettings()
			if err != nil {
				return err
			}

			fields := configFields()
			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, fields[name].get(cfg))
			}
			return nil
		},
	}

	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigGetCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <field>",
		Short: "Print a single settings field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := configFields()[args[0]]
			if !ok {
				return fmt.Errorf("unknown settings field %q", args[0])
			}

			cfg, _, err := app.loadSettings()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), field.get(cfg))
			return nil
		},
	}
}

func newConfigSetCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change a settings field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, value := args[0], args[1]
			field, ok := configFields()[name]
			if !ok {
				return fmt.Errorf("unknown settings field %q", name)
			}

			cfg, path, err := app.loadSettings()
			if err != nil {
				return err
			}

			if err := field.set(&cfg, value); err != nil {
				return err
			}

			if name == "autostart" {
				if err := app.autostartFn(cfg.Autostart); err != nil {
					return fmt.Errorf("update login item: %w", err)
				}
			}

			if err := settings.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, field.get(cfg))
			return nil
		},
	}
}
