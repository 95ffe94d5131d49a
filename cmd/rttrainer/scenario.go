package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"rttrainer/internal/api"
	"rttrainer/pkg/config"
	"rttrainer/pkg/logging"
	"rttrainer/pkg/route"
)

// withApp runs fn with file-only logging and a ready app.
func withApp(ctx context.Context, fn func(a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withAppConfig(ctx, cfg, fn)
}

func withAppConfig(ctx context.Context, cfg *config.Config, fn func(a *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cleanupLogs, err := logging.Init(&cfg.Log, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// scenarioFlags are the flags shared by the scenario and practice commands.
type scenarioFlags struct {
	seed         string
	callsign     string
	prefix       string
	aircraftType string
	emergency    bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.seed, "seed", "", "scenario seed (random when empty)")
	cmd.Flags().StringVar(&f.callsign, "callsign", "", "aircraft callsign")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "callsign prefix, e.g. STUDENT")
	cmd.Flags().StringVar(&f.aircraftType, "aircraft", "", "aircraft type")
	cmd.Flags().BoolVar(&f.emergency, "emergency", false, "include an emergency (seeded when not set)")
}

func (f *scenarioFlags) request(cmd *cobra.Command) api.ScenarioRequest {
	req := api.ScenarioRequest{
		Seed:         f.seed,
		Callsign:     f.callsign,
		Prefix:       f.prefix,
		AircraftType: f.aircraftType,
	}
	if cmd.Flags().Changed("emergency") {
		req.Emergency = &f.emergency
	}
	return req
}

func newScenarioCmd() *cobra.Command {
	var (
		flags  scenarioFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Generate a scenario and print its timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				sc, err := a.scenarioHandler().Build(cmd.Context(), flags.request(cmd))
				if err != nil {
					return err
				}
				slog.Info("Scenario generated", "id", sc.ID, "seed", sc.Seed, "points", len(sc.Points))
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(sc)
				}
				printScenario(out, sc)
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scenario as JSON")
	return cmd
}

func newRouteCmd() *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Search a MATZ crossing route for a seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				wps, err := route.SearchMATZRoute(seed, a.data.Airports, a.data.Airspaces, route.DefaultSearchOptions())
				if err != nil {
					return err
				}
				printWaypoints(cmd.OutOrStdout(), wps)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "route seed")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}
