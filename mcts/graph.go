package mcts

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

// dotNode is what the label template sees.
type dotNode struct {
	ID     int
	Move   string
	Wins   float32
	Visits float32
	Mean   float32
	State  string
}

// ToDot renders the live part of the tree, from the root down, as a Graphviz digraph.
// Every node is rendered, so this is only practical for small trees.
func (t *MCTS[S, M, O, P]) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	var buf bytes.Buffer
	queue := append(t.stack[:0], t.root)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := t.nodeFromNaughty(id)

		dn := dotNode{
			ID:     n.ID(),
			Move:   html.EscapeString(n.moveString()),
			Wins:   n.wins,
			Visits: n.visits,
			State:  strings.ReplaceAll(html.EscapeString(strings.TrimSpace(fmt.Sprintf("%v", n.state))), "\n", "<BR />"),
		}
		if n.visits > 0 {
			dn.Mean = n.wins / n.visits
		}
		buf.Reset()
		if err := tmpl.Execute(&buf, dn); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", fmt.Sprintf("%v", id), attrs)

		for _, kid := range t.children[id] {
			g.AddEdge(fmt.Sprintf("%v", id), fmt.Sprintf("%v", kid), true, nil)
			queue = append(queue, kid)
		}
	}
	t.stack = queue[:0]
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Move}}</TD></TR>
<TR><TD>Wins</TD><TD>{{.Wins}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Mean</TD><TD>{{printf "%.3f" .Mean}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
