package verify

import (
	"encoding/json"
	"sort"
	"strings"
)

// dependencyKeys names the array-valued keys whose string elements name
// other vertices explicitly, in addition to the implicit string-matches-a-
// sibling-key-name rule.
var dependencyKeys = map[string]struct{}{
	"dependencies": {},
	"deps":         {},
	"requires":     {},
}

// graph is a flat, path-indexed arena: vertices are JSON paths reachable
// from the root and edges are recorded in an adjacency list, so no cyclic
// references exist at the implementation level even though the data they
// describe may be cyclic.
type graph struct {
	index     map[string]int
	order     []string
	adjacency [][]int
	nameIndex map[string][]int
	selfLoop  bool
}

func newGraph() *graph {
	return &graph{index: map[string]int{}, nameIndex: map[string][]int{}}
}

func (g *graph) vertex(path string) int {
	if idx, ok := g.index[path]; ok {
		return idx
	}
	idx := len(g.order)
	g.index[path] = idx
	g.order = append(g.order, path)
	g.adjacency = append(g.adjacency, nil)
	return idx
}

func (g *graph) registerName(name string, idx int) {
	g.nameIndex[name] = append(g.nameIndex[name], idx)
}

func (g *graph) addEdge(from, to int) {
	if from == to {
		g.selfLoop = true
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// CycleFound interprets the supplied canonical JSON document as a directed
// graph and reports whether it contains a cycle.
func CycleFound(canonicalJSON []byte) bool {
	var root interface{}
	if err := json.Unmarshal(canonicalJSON, &root); err != nil {
		// Malformed JSON should never reach here (canonicalization already
		// validated it); treat defensively as a cycle rather than panic.
		return true
	}

	g := newGraph()
	rootIdx := g.vertex("")
	assignVertices(g, "", root)
	buildEdges(g, rootIdx, "", root)

	if g.selfLoop {
		return true
	}
	return hasNonTrivialSCC(g)
}

func assignVertices(g *graph, path string, v interface{}) {
	switch typed := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			childPath := joinPath(path, k)
			idx := g.vertex(childPath)
			g.registerName(k, idx)
			assignVertices(g, childPath, typed[k])
		}
	case []interface{}:
		for i, elem := range typed {
			childPath := joinArrayPath(path, i)
			g.vertex(childPath)
			assignVertices(g, childPath, elem)
		}
	}
}

func buildEdges(g *graph, parentVertex int, path string, v interface{}) {
	switch typed := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		selfVertex := g.index[path]
		for _, k := range keys {
			childPath := joinPath(path, k)
			childVertex := g.index[childPath]
			value := typed[k]

			if _, isDependencyKey := dependencyKeys[k]; isDependencyKey {
				if arr, ok := value.([]interface{}); ok {
					for _, elem := range arr {
						if s, ok := elem.(string); ok {
							for _, target := range g.nameIndex[s] {
								g.addEdge(selfVertex, target)
							}
						}
					}
				}
			} else if s, ok := value.(string); ok {
				for _, target := range g.nameIndex[s] {
					g.addEdge(childVertex, target)
				}
			} else if arr, ok := value.([]interface{}); ok {
				for _, elem := range arr {
					if s, ok := elem.(string); ok {
						for _, target := range g.nameIndex[s] {
							g.addEdge(childVertex, target)
						}
					}
				}
			}

			buildEdges(g, childVertex, childPath, value)
		}
	case []interface{}:
		for i, elem := range typed {
			childPath := joinArrayPath(path, i)
			childVertex := g.index[childPath]
			buildEdges(g, childVertex, childPath, elem)
		}
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	var b strings.Builder
	b.Grow(len(parent) + len(key) + 1)
	b.WriteString(parent)
	b.WriteByte('.')
	b.WriteString(key)
	return b.String()
}

func joinArrayPath(parent string, i int) string {
	var b strings.Builder
	b.WriteString(parent)
	b.WriteByte('[')
	b.WriteString(itoa(i))
	b.WriteByte(']')
	return b.String()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits [20]byte
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

// hasNonTrivialSCC runs Tarjan's strongly-connected-components algorithm
// over the graph's adjacency list and reports whether any component has
// more than one member.
func hasNonTrivialSCC(g *graph) bool {
	n := len(g.order)
	if n == 0 {
		return false
	}
	indices := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range indices {
		indices[i] = -1
	}
	var stack []int
	counter := 0
	found := false

	var strongconnect func(v int)
	strongconnect = func(v int) {
		indices[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.adjacency[v] {
			if indices[w] == -1 {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			size := 0
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				size++
				if w == v {
					break
				}
			}
			if size > 1 {
				found = true
			}
		}
	}

	for v := 0; v < n; v++ {
		if indices[v] == -1 {
			strongconnect(v)
		}
	}
	return found
}
