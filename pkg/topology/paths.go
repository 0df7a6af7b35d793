package topology

import "github.com/katalvlaran/lvlath/core"

// allSimplePaths enumerates every simple (no repeated vertex) path from
// start to end with at most cutoff edges, mirroring
// networkx.all_simple_paths(graph, start, end, cutoff=N). lvlath has no
// path-enumeration algorithm of its own (only BFS/DFS/Dijkstra single-
// destination queries), so this walks the graph directly via
// core.Graph.NeighborIDs in the same recursive, visited-set style the
// dfs package uses for its own traversal.
func allSimplePaths(g *core.Graph, start, end string, cutoff int) [][]string {
	if cutoff <= 0 || !g.HasVertex(start) || !g.HasVertex(end) {
		return nil
	}

	var results [][]string
	visited := map[string]bool{start: true}
	path := []string{start}

	var walk func(cur string)
	walk = func(cur string) {
		if cur == end {
			results = append(results, append([]string(nil), path...))
			return
		}
		if len(path)-1 >= cutoff {
			return
		}
		neighbors, err := g.NeighborIDs(cur)
		if err != nil {
			return
		}
		for _, nbr := range neighbors {
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			path = append(path, nbr)
			walk(nbr)
			path = path[:len(path)-1]
			visited[nbr] = false
		}
	}
	walk(start)

	return results
}
