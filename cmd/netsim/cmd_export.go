package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/netsim-forge/netsim/pkg/report"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export simulation state for external consumers",
	}
	cmd.AddCommand(newExportTopologyCmd())
	return cmd
}

func newExportTopologyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topology [config-dir]",
		Short: "Write the topology graph as renderer-facing JSON",
		Long: `Export topology flattens the built graph into the node/edge JSON
document an external renderer or dashboard consumes.

  netsim export topology ./configs > topology.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			dir := resolveConfigDir(s, args)

			_, graph, err := loadTopology(dir)
			if err != nil {
				recordEvent("export-topology", dir, err)
				return err
			}

			doc := report.BuildTopologyDocument(graph)
			err = report.WriteTopologyJSON(os.Stdout, doc)
			recordEvent("export-topology", dir, err)
			return err
		},
	}
}
