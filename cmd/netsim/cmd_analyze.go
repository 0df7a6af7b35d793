package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netsim-forge/netsim/pkg/cli"
	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/traffic"
	"github.com/netsim-forge/netsim/pkg/validate"
)

func newAnalyzeCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze [config-dir]",
		Short: "Build the topology, validate it, and report offered traffic",
		Long: `Analyze parses every device config under the given directory, builds
the connectivity graph, runs the configuration validator, and
synthesizes offered traffic to flag bottleneck links.

  netsim analyze ./configs
  netsim analyze --json ./configs > report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			dir := resolveConfigDir(s, args)

			corpus, graph, err := loadTopology(dir)
			if err != nil {
				recordEvent("analyze", dir, err)
				return err
			}

			findings := validate.Validate(corpus, graph)
			result := traffic.NewAnalyzer(nil).Analyze(corpus, graph)

			if jsonOut {
				err = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"validation": findings,
					"traffic":    result,
				})
				recordEvent("analyze", dir, err)
				return err
			}

			fmt.Printf("%s %d devices, %d links\n", cli.Bold("topology:"), graph.NodeCount(), len(graph.Edges()))
			fmt.Println(cli.Bold("validation findings"))
			printValidationFindings(findings)

			fmt.Println(cli.Bold("bottlenecks"))
			if len(result.Bottlenecks) == 0 {
				fmt.Println(cli.Green("none"))
			} else {
				t := cli.NewTable("LINK", "PEAK %", "SEVERITY", "RECOMMENDATION")
				for _, b := range result.Bottlenecks {
					t.Row(fmt.Sprintf("%s-%s", b.A, b.B), fmt.Sprintf("%.1f", b.PeakPercent), statusColor(string(b.Severity)), b.Recommendation)
				}
				t.Flush()
			}

			s.LastConfigDir = dir
			if err := s.Save(); err != nil {
				netutil.Warnf("failed to save settings: %v", err)
			}
			recordEvent("analyze", dir, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the report as JSON")
	return cmd
}
