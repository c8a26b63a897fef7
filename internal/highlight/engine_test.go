package highlight

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// ===========================================================================
// Helpers
// ===========================================================================

func newTestEngine(maxTextNodes int) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, maxTextNodes)
}

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func renderDoc(t *testing.T, doc *html.Node) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, html.Render(&buf, doc))
	return buf.String()
}

func queryDoc(t *testing.T, doc *html.Node) *goquery.Document {
	t.Helper()
	q, err := goquery.NewDocumentFromReader(strings.NewReader(renderDoc(t, doc)))
	require.NoError(t, err)
	return q
}

func rec(word string, count int) domain.WordRecord {
	return domain.WordRecord{Word: word, Count: count}
}

// ===========================================================================
// Apply
// ===========================================================================

func TestEngine_Apply_WrapsTrackedWords(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>The cat sat on the mat.</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 5)})
	assert.Equal(t, 1, marks)

	q := queryDoc(t, doc)
	sel := q.Find("mark." + MarkClass)
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "cat", sel.AttrOr("data-original", ""))
	assert.Equal(t, "5", sel.Find("sub."+CountClass).Text())
	assert.Equal(t, "The cat5 sat on the mat.", q.Find("p").Text())
}

func TestEngine_Apply_CaseInsensitivePreservesCasing(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>Cat and CAT and cat.</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 2)})
	assert.Equal(t, 3, marks)

	q := queryDoc(t, doc)
	var originals []string
	q.Find("mark." + MarkClass).Each(func(_ int, s *goquery.Selection) {
		originals = append(originals, s.AttrOr("data-original", ""))
	})
	assert.Equal(t, []string{"Cat", "CAT", "cat"}, originals)
}

func TestEngine_Apply_WholeWordsOnly(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>scatter category cat_food 9cat</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 1)})
	assert.Zero(t, marks)
	assert.Zero(t, queryDoc(t, doc).Find("mark").Length())
}

func TestEngine_Apply_LongestWordWins(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>a quantum-leap forward</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{
		rec("quantum", 3),
		rec("quantum-leap", 7),
	})
	assert.Equal(t, 1, marks)

	sel := queryDoc(t, doc).Find("mark." + MarkClass)
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "quantum-leap", sel.AttrOr("data-original", ""))
	assert.Equal(t, "7", sel.Find("sub").Text())
}

func TestEngine_Apply_RejectedCandidateDoesNotConsumeOverlap(t *testing.T) {
	t.Parallel()

	// "new york" matches first at "Anew york" and fails the boundary
	// check; "york" inside that rejected span must still be found.
	doc := parseDoc(t, `<p>Anew york is big</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{
		rec("new york", 2),
		rec("york", 6),
	})
	assert.Equal(t, 1, marks)

	sel := queryDoc(t, doc).Find("mark." + MarkClass)
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "york", sel.AttrOr("data-original", ""))
	assert.Equal(t, "6", sel.Find("sub").Text())
}

func TestEngine_Apply_SkipsProtectedRegions(t *testing.T) {
	t.Parallel()

	src := `<body>
<script>var cat = 1;</script>
<style>.cat {}</style>
<textarea>cat</textarea>
<div id="` + PanelID + `">cat</div>
<mark class="` + MarkClass + `" data-original="cat">cat<sub class="` + CountClass + `">2</sub></mark>
<p>cat</p>
</body>`
	doc := parseDoc(t, src)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 2)})
	assert.Equal(t, 1, marks, "only the plain paragraph may be annotated")

	q := queryDoc(t, doc)
	assert.Equal(t, 1, q.Find("p mark."+MarkClass).Length())
	assert.NotContains(t, q.Find("script").Text(), "<mark")
	assert.Zero(t, q.Find("#"+PanelID+" mark").Length())
}

func TestEngine_Apply_TextNodeBudget(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>cat</p><p>cat</p><p>cat</p>`)
	engine := newTestEngine(1)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 1)})
	assert.Equal(t, 1, marks)
	assert.Equal(t, 1, queryDoc(t, doc).Find("mark."+MarkClass).Length())
}

func TestEngine_Apply_NoWords(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>The cat sat.</p>`)
	engine := newTestEngine(5000)

	assert.Zero(t, engine.Apply(doc, nil))
	assert.Zero(t, engine.Apply(doc, []domain.WordRecord{rec("  ", 1)}))
	assert.NotContains(t, renderDoc(t, doc), "<mark")
}

func TestEngine_Apply_MultipleOccurrencesInOneNode(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>cat dog cat</p>`)
	engine := newTestEngine(5000)

	marks := engine.Apply(doc, []domain.WordRecord{rec("cat", 4), rec("dog", 1)})
	assert.Equal(t, 3, marks)

	q := queryDoc(t, doc)
	assert.Equal(t, 3, q.Find("mark."+MarkClass).Length())
	assert.Equal(t, "cat4 dog1 cat4", q.Find("p").Text())
}

// ===========================================================================
// Remove
// ===========================================================================

func TestEngine_Remove_RestoresOriginalText(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>The Cat sat on the mat.</p>`)
	engine := newTestEngine(5000)

	require.Equal(t, 1, engine.Apply(doc, []domain.WordRecord{rec("cat", 5)}))

	removed := engine.Remove(doc)
	assert.Equal(t, 1, removed)

	q := queryDoc(t, doc)
	assert.Zero(t, q.Find("mark").Length())
	assert.Equal(t, "The Cat sat on the mat.", q.Find("p").Text())
}

func TestEngine_Remove_Idempotent(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p>cat</p>`)
	engine := newTestEngine(5000)

	engine.Apply(doc, []domain.WordRecord{rec("cat", 1)})
	assert.Equal(t, 1, engine.Remove(doc))
	assert.Zero(t, engine.Remove(doc))
	assert.Equal(t, "cat", queryDoc(t, doc).Find("p").Text())
}

func TestEngine_Remove_LeavesForeignMarksAlone(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<p><mark>manual</mark> cat</p>`)
	engine := newTestEngine(5000)

	engine.Apply(doc, []domain.WordRecord{rec("cat", 1)})
	engine.Remove(doc)

	q := queryDoc(t, doc)
	require.Equal(t, 1, q.Find("mark").Length())
	assert.Equal(t, "manual", q.Find("mark").Text())
}
