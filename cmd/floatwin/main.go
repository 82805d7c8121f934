package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/logging"
	"github.com/1broseidon/floatwin/internal/runtimepath"
)

var (
	configPath string
	socketPath string
	jsonOutput bool
	noColor    bool
	debugMode  bool

	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	keyColor     = color.New(color.FgCyan)
)

var rootCmd = &cobra.Command{
	Use:   "floatwin",
	Short: "floatwin - floating preview window daemon",
	Long: `floatwin hosts a running application in a floating native window and
lets scripts and agents enable, disable and resize it.

The daemon owns the window; every other command talks to it over a unix
socket.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/floatwin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Daemon socket path (default from config or runtime dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(geometryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(contentSizeCmd)

	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPrintCmd)

	resizeCmd.Flags().BoolP("force", "f", false, "Override size bounds and turn auto-size off")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	menuCmd.Flags().String("backend", "", "Launcher: auto, rofi, fuzzel, wofi, dmenu (default from config)")

	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
	})
}

func main() {
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// resolveConfigPath fills configPath with the default location when unset.
func resolveConfigPath() (string, error) {
	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", err
		}
		configPath = path
	}
	return configPath, nil
}

// loadConfig loads --config, or the default location when unset.
func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if debugMode {
		res.Config.Logging.Level = "debug"
	}
	return res.Config, nil
}

// newClient resolves the daemon socket: --socket, then socket_path from the
// config, then the runtime directory.
func newClient() (*ipc.Client, error) {
	override := socketPath
	if override == "" {
		if cfg, err := loadConfig(); err == nil {
			override = cfg.SocketPath
		}
	}
	path, err := runtimepath.SocketPath(override)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return ipc.NewClient(path), nil
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}

func formatUptime(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
