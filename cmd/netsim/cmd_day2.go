package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netsim-forge/netsim/pkg/cli"
	"github.com/netsim-forge/netsim/pkg/day2"
	"github.com/netsim-forge/netsim/pkg/report"
)

func newDay2Cmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "day2 [config-dir]",
		Short: "Run the comprehensive Day-2 test suite",
		Long: `Day2 runs connectivity, performance, configuration, redundancy,
security, protocol, capacity, and baseline-comparison checks against
the built topology, assembling one timestamped report.

  netsim day2 ./configs
  netsim day2 --json ./configs > day2-report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			dir := resolveConfigDir(s, args)

			corpus, graph, err := loadTopology(dir)
			if err != nil {
				recordEvent("day2", dir, err)
				return err
			}

			tester := day2.NewTester(corpus, graph, nil)
			result := tester.Run()

			if jsonOut {
				err = report.WriteDay2JSON(os.Stdout, result)
				recordEvent("day2", dir, err)
				return err
			}

			fmt.Printf("%s %s (next run scheduled %s)\n", cli.Bold("test run:"), result.TestExecutionTime, result.NextTestSchedule)
			t := cli.NewTable("METRIC", "COUNT")
			t.Row("total", fmt.Sprint(result.TestSummary.TotalTests))
			t.Row("passed", fmt.Sprint(result.TestSummary.PassedTests))
			t.Row("failed", fmt.Sprint(result.TestSummary.FailedTests))
			t.Row("warnings", fmt.Sprint(result.TestSummary.Warnings))
			t.Flush()

			fmt.Println(cli.Bold("recommendations"))
			for _, r := range result.Recommendations {
				fmt.Println(" -", r)
			}
			recordEvent("day2", dir, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the report as JSON")
	return cmd
}
