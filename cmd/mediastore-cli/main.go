package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	token      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "mediastore-cli",
	Version: version,
	Short:   "Client for the media storage broker",
	Long: `mediastore-cli uploads and downloads files through a media storage broker.

The broker only hands out short-lived URLs; file bytes go straight between
this tool and the object store. Every command needs a bearer token, taken from
--token, MEDIASTORE_TOKEN or the selected profile.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.mediastore/config.yaml, env: MEDIASTORE_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: MEDIASTORE_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "broker URL (default: http://localhost:8080, env: MEDIASTORE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token (env: MEDIASTORE_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges profile, env vars and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	profileName := profile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}

	configFile, err := clientcli.LoadConfigFile(getConfigPath())
	switch {
	case err == nil:
		p, profileErr := configFile.GetProfile(profileName)
		if profileErr == nil {
			configs = append(configs, clientcli.ConfigFromProfile(p))
		} else if profileName != "" {
			return nil, profileErr
		}
	case errors.Is(err, os.ErrNotExist):
		// The default file is optional, an explicit one is not.
		if cfgFile != "" {
			return nil, err
		}
		if profileName != "" {
			return nil, fmt.Errorf("%w: %s", clientcli.ErrProfileNotFound, profileName)
		}
	default:
		return nil, err
	}

	configs = append(configs,
		clientcli.ConfigFromEnv(),
		&clientcli.Config{Endpoint: endpoint, Token: token},
	)

	return clientcli.MergeConfig(configs...), nil
}

func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}

// reportError prints err with the active formatter and returns it so cobra
// sets the exit code.
func reportError(err error) error {
	_ = getFormatter().FormatError(os.Stderr, err)
	return err
}
