package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds the configuration parsed from command line arguments.
type CLIConfig struct {
	Command        string
	AppID          int
	AppHash        string
	SessionPath    string
	PeerID         int64
	Limit          int
	ConfigPath     string
	NonInteractive bool
}

// ParseCLI parses command line arguments and environment variables.
func ParseCLI(appIDDef string, appHashDef string) (*CLIConfig, error) {
	if len(os.Args) < 2 {
		return nil, fmt.Errorf("usage: tgoverview <command> [flags]\nCommands: media, files, voice, links")
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)

	cfg := &CLIConfig{Command: cmd}

	fs.Int64Var(&cfg.PeerID, "peer", 0, "ID of the chat to show")
	fs.IntVar(&cfg.Limit, "limit", 100, "Number of newest messages to fetch")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to a YAML config file")
	fs.BoolVar(&cfg.NonInteractive, "non-interactive", false, "Disable interactive UI and progress bars")

	if err := fs.Parse(os.Args[2:]); err != nil {
		return nil, err
	}

	// Validate App Credentials
	appIDStr := os.Getenv("APP_ID")
	if appIDDef != "" {
		appIDStr = appIDDef
	}
	appHashStr := os.Getenv("APP_HASH")
	if appHashDef != "" {
		appHashStr = appHashDef
	}

	if appIDStr == "" || appHashStr == "" {
		return nil, fmt.Errorf("AppID and AppHash must be provided via ldflags or env vars (APP_ID/APP_HASH)")
	}

	var err error
	cfg.AppID, err = strconv.Atoi(appIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AppID: %v", err)
	}
	cfg.AppHash = appHashStr

	cfg.SessionPath, err = GetSessionPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get session path: %v", err)
	}

	if cfg.NonInteractive && cfg.PeerID == 0 {
		return nil, fmt.Errorf("--peer is required in non-interactive mode")
	}

	return cfg, nil
}
