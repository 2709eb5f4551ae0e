package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/sonarr-nudger/internal/nudger"
	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
	"github.com/MimeLyc/sonarr-nudger/pkg/log"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Monitor the queue until interrupted (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}
}

func (a *app) run(cmd *cobra.Command) error {
	cfg, client, err := a.loadClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("--- Sonarr Queue Checker Initialized ---")
	log.Info("Connecting to Sonarr at: %s", client.BaseURL())
	status, err := client.SystemStatus(ctx)
	if err != nil {
		log.Error("Error connecting to Sonarr: %v", err)
		log.Error("Advice: %s", sonarr.Advice(err))
		return fmt.Errorf("connect to sonarr: %w", err)
	}
	log.Info("Successfully connected to %s %s", status.AppName, status.Version)
	log.Info("Loaded %d pattern rules", len(cfg.Rules))

	return nudger.NewPoller(client, cfg.Rules, cfg.Poll.Interval()).Run(ctx)
}

func newOnceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single queue check and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := a.loadClient()
			if err != nil {
				return err
			}

			res, err := nudger.NewPoller(client, cfg.Rules, cfg.Poll.Interval()).Poll(cmd.Context())
			if err != nil {
				log.Error("Advice: %s", sonarr.Advice(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and Sonarr connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := a.loadClient()
			if err != nil {
				return err
			}

			status, err := client.SystemStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect to sonarr: %w (%s)", err, sonarr.Advice(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Connected to %s %s at %s\n", status.AppName, status.Version, client.BaseURL())
			fmt.Fprintf(out, "%d rules, checking every %s\n", len(cfg.Rules), cfg.Poll.Interval())
			return nil
		},
	}
}

func newQueueCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the queue and which rule would grab each item, without grabbing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := a.loadClient()
			if err != nil {
				return err
			}

			records, err := client.Queue(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch queue: %w", err)
			}

			if !all {
				records = filterEligible(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue has no delayed items.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderQueue(records, cfg.Rules))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include items that are not delayed")
	return cmd
}

func filterEligible(records []sonarr.QueueRecord) []sonarr.QueueRecord {
	out := records[:0:0]
	for _, rec := range records {
		if nudger.Eligible(rec) {
			out = append(out, rec)
		}
	}
	return out
}
