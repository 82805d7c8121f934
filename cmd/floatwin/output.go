package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/resize"
)

func printResizeResult(res *resize.Result) {
	switch {
	case !res.Applied:
		warnColor.Printf("Resize to %s suppressed (%s)\n", res.Requested, res.Reason)
		if res.Reason == resize.ReasonAutoSize {
			fmt.Println("Auto-size is on; use --force to override.")
		}
	case res.Clamped():
		warnColor.Printf("Resized to %s (requested %s, clamped by display)\n", res.Actual, res.Requested)
	default:
		successColor.Printf("✓ Resized to %s\n", res.Actual)
	}
}

func printStatus(st *ipc.StatusData) {
	w := st.Window

	keyColor.Print("Backend:  ")
	fmt.Println(st.Backend)
	keyColor.Print("Uptime:   ")
	fmt.Println(formatUptime(st.UptimeSeconds))
	keyColor.Print("State:    ")
	if w.Floating {
		successColor.Println(w.State)
	} else {
		fmt.Println(w.State)
	}
	keyColor.Print("Geometry: ")
	fmt.Println(w.Geometry)
	if !w.Floating {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Window", "Instance", "Min", "Max", "Auto-size", "Committed", "Confirmed")

	minSize, maxSize := "-", "-"
	autoSize := ""
	if c := w.Constraints; c != nil {
		if c.Min != nil {
			minSize = c.Min.String()
		}
		if c.Max != nil {
			maxSize = c.Max.String()
		}
		if c.AutoSize {
			autoSize = "on"
		} else {
			autoSize = "off"
		}
	}
	committed, confirmed := "-", "-"
	if s := w.Sync; s != nil {
		committed = s.Committed.String()
		confirmed = s.Confirmed.String()
		switch {
		case s.Pending():
			confirmed += " (pending)"
		case s.Adjusted():
			confirmed += " (adjusted)"
		}
	}

	table.Append(
		fmt.Sprintf("0x%x", w.WindowID),
		truncate(w.Instance, 8),
		minSize,
		maxSize,
		autoSize,
		committed,
		confirmed,
	)
	table.Render()
}

func printCapabilitiesTable(methods []capability.Info) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Type", "Method", "Description")
	for _, m := range methods {
		table.Append(m.Type, m.Name, m.Description)
	}
	table.Render()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
