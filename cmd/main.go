package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/sonarr-nudger/internal/config"
	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
	"github.com/MimeLyc/sonarr-nudger/pkg/log"
)

const defaultEnvFile = ".env"

type app struct {
	envFile   string
	rulesFile string
}

func main() {
	os.Exit(runCLI(newRootCommand()))
}

// runCLI executes cmd and returns the process exit code. Errors go to the
// stdout logger with everything else.
func runCLI(cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Error("Error: %v", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sonarr-nudger",
		Short:         "Force-grab delayed Sonarr queue items that match your rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", defaultEnvFile, "Environment file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVarP(&a.rulesFile, "rules", "r", "", "Rules file (overrides RULES_FILE)")

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newOnceCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newQueueCommand(a))

	return rootCmd
}

// loadConfig reads the env file, sets up logging and builds the config.
// A missing default env file is not an error.
func (a *app) loadConfig() (*config.Config, error) {
	if err := godotenv.Load(a.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || a.envFile != defaultEnvFile {
			return nil, fmt.Errorf("load env file %s: %w", a.envFile, err)
		}
	}

	log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.NewFromEnv(config.WithRulesFile(a.rulesFile))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) loadClient() (*config.Config, *sonarr.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := sonarr.NewClient(cfg.Sonarr.Client())
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}
