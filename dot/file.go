// Package dot writes the classes of a source file as a graphviz graph: one
// cluster per class holding its methods, and an edge from every class to the
// class it extends
package dot

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/symbol"
	"golang.org/x/exp/slices"
)

// Dotfile is the top-level graph
type Dotfile struct {
	SubGraph
}

type Edge struct {
	From string
	To   []string
}

// SubGraph keeps its nodes and subgraphs in the order they were added, so that
// the same classes always produce the same file
type SubGraph struct {
	name      string
	label     string
	nodes     []Node
	subgraphs []*SubGraph
}

func (g SubGraph) findSubgraph(name string) int {
	return slices.IndexFunc(g.subgraphs, func(sub *SubGraph) bool { return sub.name == name })
}

// Subgraph returns the named subgraph, adding it if necessary
func (g *SubGraph) Subgraph(name string) *SubGraph {
	if ind := g.findSubgraph(name); ind != -1 {
		return g.subgraphs[ind]
	}
	sub := &SubGraph{name: name, label: name}
	g.subgraphs = append(g.subgraphs, sub)
	return sub
}

func (g *SubGraph) findNode(name string) int {
	return slices.IndexFunc(g.nodes, func(n Node) bool { return n.name == name })
}

// AddNode adds a node to the graph, replacing any node with the same name
func (g *SubGraph) AddNode(name string, edges ...string) {
	node := Node{name: name, edges: edges}
	if ind := g.findNode(name); ind != -1 {
		g.nodes[ind] = node
		return
	}
	g.nodes = append(g.nodes, node)
}

// AddEdge adds an edge from a node, skipping edges that already exist
func (g *SubGraph) AddEdge(node string, edge string) {
	if g.HasEdge(node, edge) {
		return
	}
	ind := g.findNode(node)
	// If the node doesn't exist, create it
	if ind == -1 {
		g.nodes = append(g.nodes, Node{name: node})
		ind = len(g.nodes) - 1
	}
	g.nodes[ind].edges = append(g.nodes[ind].edges, edge)
}

func (g SubGraph) HasEdge(node string, edge string) bool {
	ind := g.findNode(node)
	return ind != -1 && slices.Contains(g.nodes[ind].edges, edge)
}

func (g SubGraph) AsDot() (string, []Edge) {
	totalEdges := []Edge{}
	var total strings.Builder
	fmt.Fprintf(&total, "subgraph cluster_%s {\n", g.name)
	fmt.Fprintf(&total, "  label=%q\n", g.label)
	for _, item := range g.nodes {
		totalEdges = append(totalEdges, Edge{From: item.name, To: item.edges})
		fmt.Fprintf(&total, "  %q\n", item.name)
	}
	for _, item := range g.subgraphs {
		sub, edges := item.AsDot()
		total.WriteString(sub + "\n")
		totalEdges = append(totalEdges, edges...)
	}
	total.WriteString("}")
	return total.String(), totalEdges
}

type Node struct {
	name  string
	edges []string
}

func New() *Dotfile {
	return &Dotfile{}
}

// FromClasses builds the graph of a symbol table. Every class is a cluster
// containing a node for the class itself, pointing at its parent, and a node
// for each generated method function
func FromClasses(table *symbol.Table) *Dotfile {
	d := New()
	for _, class := range table.Classes() {
		cluster := d.Subgraph(class.Name)
		cluster.AddNode(class.Name)
		for _, method := range class.MethodNames() {
			cluster.AddNode(codegen.FunctionName(class.Name, method))
		}
	}

	// Every cluster exists by now, so the edges keep the clusters in
	// declaration order
	for _, class := range table.Classes() {
		for _, child := range table.Children(class.Name) {
			d.Subgraph(child.Name).AddEdge(child.Name, class.Name)
		}
		// Unknown parents still get an edge, to a node outside any cluster
		if class.Parent != "" && table.Lookup(class.Parent) == nil {
			d.Subgraph(class.Name).AddEdge(class.Name, class.Parent)
		}
	}
	return d
}

func commaSeparatedString(list []string) string {
	var total strings.Builder
	for ind, item := range list {
		total.WriteString("\"" + item + "\"")
		if ind < len(list)-1 {
			total.WriteString(", ")
		}
	}
	return total.String()
}

// WriteTo writes the whole graph in the dot language
func (d *Dotfile) WriteTo(w io.Writer) (int64, error) {
	var out strings.Builder
	totalEdges := []Edge{}
	out.WriteString("digraph {\n")

	// First, write out all the subgraphs
	for _, graph := range d.subgraphs {
		sub, edges := graph.AsDot()
		totalEdges = append(totalEdges, edges...)
		out.WriteString(sub + "\n")
	}

	// Then, go through the top-level nodes
	for _, node := range d.nodes {
		fmt.Fprintf(&out, "%q\n", node.name)
		totalEdges = append(totalEdges, Edge{From: node.name, To: node.edges})
	}

	// Finally, connect all the edges from everything else
	for _, edge := range totalEdges {
		// Skip creating edges that don't point anywhere
		if len(edge.To) == 0 {
			continue
		}
		// Also skip empty nodes
		if edge.From == "" {
			continue
		}
		fmt.Fprintf(&out, "%q -> {%s}\n", edge.From, commaSeparatedString(edge.To))
	}
	out.WriteString("}\n")

	n, err := io.WriteString(w, out.String())
	return int64(n), err
}

// WriteFile creates the named file and writes the graph to it
func (d *Dotfile) WriteFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
