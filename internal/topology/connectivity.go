// Package topology decides which genes of a creature genome are physically
// expressed. Dynamic muscle topology may disconnect the body graph; only the
// single largest connected component (the primary group) is ever built.
package topology

import "creatura/internal/model"

// Analysis is the result of one connectivity pass over a genome's node slots
// and muscle edges.
type Analysis struct {
	// Components holds every connected component as a slice of node indices,
	// ordered by descending size with discovery-order tie-break.
	Components [][]int
	// NodeEnabled[i] reports whether node index i belongs to the primary group.
	NodeEnabled []bool
	// MuscleEnabled[j] reports whether muscle j has both endpoints in the
	// primary group and is not a self-loop.
	MuscleEnabled []bool
}

// Primary returns the node indices of the primary group.
func (a Analysis) Primary() []int {
	if len(a.Components) == 0 {
		return nil
	}
	return a.Components[0]
}

// Analyze builds an undirected adjacency structure over node indices from the
// given muscles and computes connected components. Self-loops never count as
// structural edges. Traversal starts from each unvisited index in ascending
// order, so when several components share the maximum size the one discovered
// first wins the primary slot.
func Analyze(nodeCount int, muscles []model.MuscleGene) Analysis {
	adjacency := make([][]int, nodeCount)
	for _, m := range muscles {
		if m.BodyA == m.BodyB {
			continue
		}
		if m.BodyA < 0 || m.BodyB < 0 || m.BodyA >= nodeCount || m.BodyB >= nodeCount {
			continue
		}
		adjacency[m.BodyA] = append(adjacency[m.BodyA], m.BodyB)
		adjacency[m.BodyB] = append(adjacency[m.BodyB], m.BodyA)
	}

	visited := make([]bool, nodeCount)
	var components [][]int
	// Explicit stack instead of recursion: node counts can reach a few
	// hundred and this runs for every individual every generation.
	stack := make([]int, 0, nodeCount)
	for start := 0; start < nodeCount; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		component := []int{}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, node)
			for _, next := range adjacency[node] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, component)
	}

	// Stable sort by descending size keeps discovery order among equals.
	orderComponentsBySize(components)

	nodeEnabled := make([]bool, nodeCount)
	for _, idx := range primaryOf(components) {
		nodeEnabled[idx] = true
	}

	muscleEnabled := make([]bool, len(muscles))
	for j, m := range muscles {
		if m.BodyA == m.BodyB {
			continue
		}
		if m.BodyA < 0 || m.BodyB < 0 || m.BodyA >= nodeCount || m.BodyB >= nodeCount {
			continue
		}
		muscleEnabled[j] = nodeEnabled[m.BodyA] && nodeEnabled[m.BodyB]
	}

	return Analysis{
		Components:    components,
		NodeEnabled:   nodeEnabled,
		MuscleEnabled: muscleEnabled,
	}
}

// Apply runs Analyze over the genome and writes the enabled flags back into
// its gene sequences. Every genome construction and every operation that can
// alter muscle endpoints must call this before the genome is used further.
func Apply(g *model.Genome) Analysis {
	analysis := Analyze(len(g.Nodes), g.Muscles)
	for i := range g.Nodes {
		g.Nodes[i].Enabled = analysis.NodeEnabled[i]
	}
	for j := range g.Muscles {
		g.Muscles[j].Enabled = analysis.MuscleEnabled[j]
	}
	return analysis
}

func orderComponentsBySize(components [][]int) {
	// Insertion sort keeps the sort stable without pulling in sort.SliceStable
	// closures on a hot path; component counts are small.
	for i := 1; i < len(components); i++ {
		j := i
		for j > 0 && len(components[j]) > len(components[j-1]) {
			components[j], components[j-1] = components[j-1], components[j]
			j--
		}
	}
}

func primaryOf(components [][]int) []int {
	if len(components) == 0 {
		return nil
	}
	return components[0]
}
