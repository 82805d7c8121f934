package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Detach the application into a floating window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		floating, err := c.Enable()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]bool{"floating": floating})
		}
		successColor.Println("✓ Floating window enabled")
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Destroy the floating window and reattach the application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		floating, err := c.Disable()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]bool{"floating": floating})
		}
		successColor.Println("✓ Floating window disabled")
		return nil
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize WIDTHxHEIGHT",
	Short: "Resize the floating window",
	Long: `Resize the floating window.

Without --force the size must lie within the window's bounds and is ignored
while auto-size is on. With --force the bounds are cleared, auto-size is
turned off and the size is committed directly. The display server may still
clamp it to the monitor; the reported actual size is authoritative.`,
	Example: "  floatwin resize --force 1920x1080",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := platform.ParseSize(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.Resize(size, force)
		if err != nil {
			if errors.Is(err, resize.ErrWindowUnavailable) {
				return fmt.Errorf("%w (run 'floatwin enable' first)", err)
			}
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		printResizeResult(res)
		return nil
	},
}

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Print the window's last authoritative size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		size, err := c.Geometry()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(size)
		}
		fmt.Println(size)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and window status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		st, err := c.Status()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(st)
		}
		printStatus(st)
		return nil
	},
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities [METHOD]",
	Short: "List exposed methods, or check a single one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			ok, err := c.HasMethod(window.TypeName, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]bool{"available": ok})
			}
			if ok {
				successColor.Printf("✓ %s.%s\n", window.TypeName, args[0])
				return nil
			}
			return fmt.Errorf("%s.%s is not exposed", window.TypeName, args[0])
		}

		methods, err := c.Capabilities()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(methods)
		}
		printCapabilitiesTable(methods)
		return nil
	},
}

var contentSizeCmd = &cobra.Command{
	Use:   "content-size WIDTHxHEIGHT",
	Short: "Report the application's preferred content size",
	Long: `Report the application's preferred content size.

While auto-size is on the floating window refits to the reported size at
once, clamped to its bounds and the monitor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := platform.ParseSize(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		st, err := c.ReportContentSize(size)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(st)
		}
		if !st.Floating {
			warnColor.Printf("Recorded %s; window is not floating\n", size)
			return nil
		}
		successColor.Printf("✓ Recorded %s; geometry %s\n", size, st.Geometry)
		return nil
	},
}
