package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/palette"
)

var menuCmd = &cobra.Command{
	Use:   "menu [ACTION]",
	Short: "Pick a floating window action from a launcher (rofi, fuzzel, wofi, dmenu)",
	Long: `Show the toggle and size presets in an external launcher and run the picked
action. Bind it to a window manager key.

With ACTION the launcher is skipped. Actions: enable, disable,
force:WIDTHxHEIGHT, resize:WIDTHxHEIGHT.`,
	Example: "  floatwin menu\n  floatwin menu force:1920x1080",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		var action palette.Action
		if len(args) == 1 {
			if action, err = palette.ParseAction(args[0]); err != nil {
				return err
			}
		} else {
			name, _ := cmd.Flags().GetString("backend")
			if name == "" {
				name = cfg.Palette
			}
			backend, err := palette.NewBackend(name)
			if err != nil {
				return err
			}
			st, err := client.Status()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			items := palette.BuildItems(st.Window.Floating, st.Window.Geometry, cfg.Presets)
			item, err := backend.Show(ctx, "floatwin", items)
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			action = item.Action
		}
		return runAction(client, action)
	},
}

func runAction(client *ipc.Client, action palette.Action) error {
	switch action.Kind {
	case palette.ActionEnable:
		_, err := client.Enable()
		return err
	case palette.ActionDisable:
		_, err := client.Disable()
		return err
	case palette.ActionForceResize, palette.ActionResize:
		res, err := client.Resize(action.Size, action.Kind == palette.ActionForceResize)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		printResizeResult(res)
		return nil
	default:
		return fmt.Errorf("unknown action %q", action.Kind)
	}
}
