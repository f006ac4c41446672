package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "govpower.conf"
	defaultLogLevel       = "info"
	defaultNetwork        = "mainnet"
)

var (
	defaultAppDataDir = func() string {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".govpower")
	}()
)

type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	AppDataDir  string `short:"A" long:"appdata" description:"Application data directory"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	Network     string `long:"network" description:"Network to run against (mainnet, testnet)"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems"`
	RPCURL      string `long:"rpcurl" description:"JSON-RPC node endpoint"`
	AccountID   string `long:"account" description:"Account to act for"`
	FactoryID   string `long:"lockupfactory" description:"Lockup factory contract account"`
	VotingID    string `long:"votingcontract" description:"Governance voting contract account"`
}

func defaultRPCURL(network string) string {
	if network == "testnet" {
		return "https://rpc.testnet.near.org"
	}
	return "https://rpc.mainnet.near.org"
}

func defaultFactoryID(network string) string {
	if network == "testnet" {
		return "lockup.testnet"
	}
	return "lockup.near"
}

func defaultVotingID(network string) string {
	if network == "testnet" {
		return "vote.govpower.testnet"
	}
	return "vote.govpower.near"
}

// loadConfig reads the configuration from the command line and the config
// file, command-line options overriding file options. It returns the
// remaining non-option arguments as the command to run.
func loadConfig() (*config, []string, error) {
	cfg := config{
		AppDataDir: defaultAppDataDir,
		Network:    defaultNetwork,
		DebugLevel: defaultLogLevel,
	}

	// Pre-parse the command line options to see if an alternative config
	// file was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.IgnoreUnknown)
	_, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}

	configFile := preCfg.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(preCfg.AppDataDir, defaultConfigFilename)
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if err := flags.NewIniParser(parser).ParseFile(configFile); err != nil {
		// A missing config file at the default location is fine.
		if _, ok := err.(*os.PathError); !ok {
			return nil, nil, fmt.Errorf("error parsing config file: %v", err)
		}
	}

	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if _, ok := slog.LevelFromString(cfg.DebugLevel); !ok {
		return nil, nil, fmt.Errorf("invalid debuglevel %q", cfg.DebugLevel)
	}
	if cfg.Network != "mainnet" && cfg.Network != "testnet" {
		return nil, nil, fmt.Errorf("invalid network %q", cfg.Network)
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = defaultRPCURL(cfg.Network)
	}
	if cfg.FactoryID == "" {
		cfg.FactoryID = defaultFactoryID(cfg.Network)
	}
	if cfg.VotingID == "" {
		cfg.VotingID = defaultVotingID(cfg.Network)
	}

	return &cfg, remainingArgs, nil
}
