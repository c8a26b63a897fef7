// Package highlight annotates parsed HTML documents with reversible
// <mark> wrappers around tracked vocabulary words.
package highlight

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// Class and id names shared with the browser side.
const (
	MarkClass  = "wordtrace-mark"
	CountClass = "wordtrace-count"
	PanelID    = "wordtrace-panel"

	originalAttr = "data-original"
)

// skipTags are elements whose text is never annotated.
var skipTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"textarea": {},
	"input":    {},
	"noscript": {},
}

// Engine plans and applies highlight annotations. Application is split in
// two phases: the whole document is scanned first and every text node
// mutation is planned, then the plan is applied in one pass, so the scan
// never walks nodes it inserted itself.
type Engine struct {
	log          *slog.Logger
	maxTextNodes int
}

// New creates an Engine. maxTextNodes bounds how many text nodes a single
// Apply inspects; past it the rest of the document is left untouched.
func New(logger *slog.Logger, maxTextNodes int) *Engine {
	return &Engine{
		log:          logger.With("component", "highlight"),
		maxTextNodes: maxTextNodes,
	}
}

// plannedNode is one text node scheduled for replacement.
type plannedNode struct {
	node  *html.Node
	spans []span
}

// Apply wraps every whole-word occurrence of the tracked words in doc with
// a mark element carrying the original fragment and its lookup count:
//
//	<mark class="wordtrace-mark" data-original="Cat">Cat<sub class="wordtrace-count">5</sub></mark>
//
// Text inside scripts, form controls, this package's own marks, and the
// panel element is left alone. It returns the number of marks inserted.
func (e *Engine) Apply(doc *html.Node, recs []domain.WordRecord) int {
	m := newMatcher(recs)
	if m == nil {
		return 0
	}

	visited := 0
	var plan []plannedNode

	var scan func(*html.Node)
	scan = func(n *html.Node) {
		if visited >= e.maxTextNodes {
			return
		}
		if n.Type == html.ElementNode && !e.scannable(n) {
			return
		}
		if n.Type == html.TextNode {
			visited++
			if spans := m.find(n.Data); len(spans) > 0 {
				plan = append(plan, plannedNode{node: n, spans: spans})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scan(c)
		}
	}
	scan(doc)

	marks := 0
	for _, p := range plan {
		marks += e.applyPlan(m, p)
	}

	if visited >= e.maxTextNodes {
		e.log.Warn("text node budget exhausted",
			slog.Int("max", e.maxTextNodes),
			slog.Int("marks", marks),
		)
	}
	return marks
}

// scannable reports whether an element's subtree may be annotated.
func (e *Engine) scannable(n *html.Node) bool {
	if _, skip := skipTags[n.Data]; skip {
		return false
	}
	if attrValue(n, "id") == PanelID {
		return false
	}
	if n.Data == "mark" && hasClass(n, MarkClass) {
		return false
	}
	return true
}

// applyPlan splices one planned text node into alternating text and mark
// siblings, then drops the original node.
func (e *Engine) applyPlan(m *matcher, p plannedNode) int {
	parent := p.node.Parent
	if parent == nil {
		return 0
	}

	text := p.node.Data
	last := 0
	for _, sp := range p.spans {
		if sp.start > last {
			parent.InsertBefore(textNode(text[last:sp.start]), p.node)
		}
		fragment := text[sp.start:sp.end]
		parent.InsertBefore(markNode(fragment, m.countFor(fragment)), p.node)
		last = sp.end
	}
	if last < len(text) {
		parent.InsertBefore(textNode(text[last:]), p.node)
	}
	parent.RemoveChild(p.node)
	return len(p.spans)
}

// Remove strips every mark this package inserted, restoring the original
// text fragment with its casing. Removing twice is a no-op. It returns the
// number of marks removed.
func (e *Engine) Remove(doc *html.Node) int {
	var marks []*html.Node

	var scan func(*html.Node)
	scan = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "mark" && hasClass(n, MarkClass) {
			marks = append(marks, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scan(c)
		}
	}
	scan(doc)

	for _, mark := range marks {
		parent := mark.Parent
		if parent == nil {
			continue
		}
		parent.InsertBefore(textNode(restoredText(mark)), mark)
		parent.RemoveChild(mark)
	}
	return len(marks)
}

// restoredText recovers the fragment a mark replaced, preferring the
// recorded original over reassembling child text.
func restoredText(mark *html.Node) string {
	if original := attrValue(mark, originalAttr); original != "" {
		return original
	}
	var buf strings.Builder
	for c := mark.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

// ---------------------------------------------------------------------------
// Node helpers
// ---------------------------------------------------------------------------

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func markNode(fragment string, count int) *html.Node {
	mark := &html.Node{
		Type: html.ElementNode,
		Data: "mark",
		Attr: []html.Attribute{
			{Key: "class", Val: MarkClass},
			{Key: originalAttr, Val: fragment},
		},
	}
	mark.AppendChild(textNode(fragment))

	badge := &html.Node{
		Type: html.ElementNode,
		Data: "sub",
		Attr: []html.Attribute{{Key: "class", Val: CountClass}},
	}
	badge.AppendChild(textNode(strconv.Itoa(count)))
	mark.AppendChild(badge)

	return mark
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
