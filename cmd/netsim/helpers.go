package main

import (
	"fmt"
	"sort"

	"github.com/netsim-forge/netsim/pkg/cli"
	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/topology"
)

// loadTopology parses every device config under dir and builds the
// connectivity graph from the resulting corpus.
func loadTopology(dir string) (*ingest.Corpus, *topology.Graph, error) {
	corpus, err := ingest.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load configs from %s: %w", dir, err)
	}
	graph := topology.NewBuilder(nil).Build(corpus.Devices)
	return corpus, graph, nil
}

// printValidationFindings renders the category->findings map produced
// by pkg/validate as a two-column table.
func printValidationFindings(findings map[string][]string) {
	if len(findings) == 0 {
		fmt.Println(cli.Green("no findings"))
		return
	}
	t := cli.NewTable("CATEGORY", "FINDING")
	for _, category := range sortedKeys(findings) {
		for _, f := range findings[category] {
			t.Row(category, f)
		}
	}
	t.Flush()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func statusColor(status string) string {
	switch status {
	case "critical", "overloaded":
		return cli.Red(status)
	case "elevated", "high":
		return cli.Yellow(status)
	default:
		return cli.Green(status)
	}
}
