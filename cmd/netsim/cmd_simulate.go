package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/netsim-forge/netsim/pkg/cli"
	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/scenario"
	"github.com/netsim-forge/netsim/pkg/simengine"
	"github.com/netsim-forge/netsim/pkg/statestore"
)

func newSimulateCmd() *cobra.Command {
	var (
		duration      time.Duration
		serve         bool
		token         string
		failLink      string
		scenarioFile  string
		redisAddr     string
		redisDB       int
		snapshotEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate [config-dir]",
		Short: "Run the live per-device agent simulation",
		Long: `Simulate launches one goroutine-backed agent per device and the
delivery fabric between them, running until the given duration elapses
or the process receives an interrupt.

  netsim simulate --duration 30s ./configs
  netsim simulate --serve --duration 0 ./configs   # run until interrupted, with control plane
  netsim simulate --fail-link r1,r2 ./configs       # inject a link failure at startup
  netsim simulate --scenario flap.yaml ./configs    # replay a YAML fault-injection timeline
  netsim simulate --redis-addr localhost:6379 ./configs  # snapshot agent stats to Redis`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			dir := resolveConfigDir(s, args)

			corpus, graph, err := loadTopology(dir)
			if err != nil {
				recordEvent("simulate", dir, err)
				return err
			}

			var sc *scenario.Scenario
			if scenarioFile != "" {
				sc, err = scenario.ParseFile(scenarioFile)
				if err != nil {
					recordEvent("simulate", dir, err)
					return err
				}
			}

			engine := simengine.New(corpus, graph)

			var cp *simengine.ControlPlane
			if serve {
				cp, err = simengine.NewControlPlaneAt(engine, s.GetControlPlaneBindAddr())
				if err != nil {
					recordEvent("simulate", dir, err)
					return fmt.Errorf("start control plane: %w", err)
				}
				if token != "" || s.RequireToken {
					if token == "" {
						netutil.Warn("--serve with settings.require_token set but no --token given; control plane will accept only requests with an empty or absent token")
					}
					if err := cp.RequireToken(token); err != nil {
						recordEvent("simulate", dir, err)
						return fmt.Errorf("configure control-plane auth: %w", err)
					}
				}
				fmt.Printf("%s port %d\n", cli.Bold("control plane listening on"), cp.Port())
				go cp.Serve()
				defer cp.Close()
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if duration > 0 {
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			} else {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				go func() {
					<-sigCh
					cancel()
				}()
			}

			engine.Start(ctx)

			if sc != nil {
				netutil.Infof("replaying scenario %q (%d steps)", sc.Name, len(sc.Steps))
				go func() {
					if err := scenario.NewRunner(engine).Run(ctx, sc); err != nil && err != context.Canceled {
						netutil.Warnf("scenario %q stopped early: %v", sc.Name, err)
					}
				}()
			}

			if redisAddr != "" {
				store := statestore.NewStore(redisAddr, redisDB)
				defer store.Close()
				go snapshotLoop(ctx, engine, store, snapshotEvery)
			}

			if failLink != "" {
				endpoints := strings.SplitN(failLink, ",", 2)
				if len(endpoints) == 2 {
					netutil.Infof("injecting link failure %s-%s", endpoints[0], endpoints[1])
					engine.InjectLinkFailure(endpoints[0], endpoints[1])
				} else {
					netutil.Warnf("--fail-link expects \"a,b\", got %q", failLink)
				}
			}

			<-ctx.Done()
			engine.Stop()

			stats := engine.GetSimulationStatistics()
			fmt.Printf("%s %v nodes, %v links\n", cli.Bold("simulation finished:"), stats["total_nodes"], stats["total_links"])
			recordEvent("simulate", dir, nil)
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "run length; 0 runs until interrupted")
	cmd.Flags().BoolVar(&serve, "serve", false, "start the control-plane listener")
	cmd.Flags().StringVar(&token, "token", "", "require this shared token on the control plane")
	cmd.Flags().StringVar(&failLink, "fail-link", "", "\"a,b\" device id pair to fail at startup")
	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "YAML fault-injection timeline to replay against the running simulation")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address to snapshot per-agent statistics to; disabled if empty")
	cmd.Flags().IntVar(&redisDB, "redis-db", 6, "Redis database number for statistics snapshots")
	cmd.Flags().DurationVar(&snapshotEvery, "snapshot-interval", 5*time.Second, "interval between Redis statistics snapshots")
	return cmd
}

// snapshotLoop writes every agent's current statistics to store on a
// fixed interval until ctx is canceled.
func snapshotLoop(ctx context.Context, engine *simengine.Engine, store *statestore.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nodeStats, ok := engine.GetSimulationStatistics()["node_statistics"].(map[string]interface{})
			if !ok {
				continue
			}
			for deviceID, raw := range nodeStats {
				stats, ok := raw.(map[string]interface{})
				if !ok {
					continue
				}
				if err := store.SnapshotAgent(ctx, deviceID, stats); err != nil {
					netutil.Warnf("snapshotting %s: %v", deviceID, err)
				}
			}
		}
	}
}
