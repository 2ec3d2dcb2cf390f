package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"frame-interactor/internal/application/port/output"
	"frame-interactor/internal/infrastructure/browser/htmlutil"
)

// maxLocateMatches bounds how many elements one strategy resolves. The
// locator only ever uses the first match; the rest exist for logging.
const maxLocateMatches = 10

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

var _ output.FramePort = (*framePort)(nil)

type frameIdentity struct {
	index  int
	parent int
	name   string
	url    string
}

// framePort drives one frame's document. The main document and embedded
// frames share this implementation; only the host element differs.
type framePort struct {
	page    *rod.Page
	host    *rod.Element
	id      frameIdentity
	timeout time.Duration
}

func newFramePort(page *rod.Page, host *rod.Element, id frameIdentity, timeout time.Duration) *framePort {
	return &framePort{page: page, host: host, id: id, timeout: timeout}
}

func (f *framePort) Index() int       { return f.id.index }
func (f *framePort) Name() string     { return f.id.name }
func (f *framePort) URL() string      { return f.id.url }
func (f *framePort) IsMain() bool     { return f.id.index == 0 }
func (f *framePort) ParentIndex() int { return f.id.parent }

func (f *framePort) bound(ctx context.Context) *rod.Page {
	return f.page.Context(ctx).Timeout(f.timeout)
}

// Title evaluates document.title inside the frame. Detached and
// unreachable frames fail here, which marks them inaccessible.
func (f *framePort) Title(ctx context.Context) (string, error) {
	obj, err := f.bound(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("read frame title: %w", err)
	}
	return obj.Value.Str(), nil
}

func (f *framePort) HostElement(ctx context.Context) (output.ElementPort, error) {
	if f.host == nil {
		return nil, output.ErrNoHostElement
	}
	return &elementPort{el: f.host}, nil
}

func (f *framePort) Text(ctx context.Context) (string, error) {
	obj, err := f.bound(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err == nil {
		return obj.Value.Str(), nil
	}

	// Некоторые фреймы не дают выполнить скрипт, но отдают разметку.
	raw, herr := f.bound(ctx).HTML()
	if herr != nil {
		return "", fmt.Errorf("read frame text: %w", err)
	}
	return htmlutil.Text(raw), nil
}

func (f *framePort) HTML(ctx context.Context) (string, error) {
	raw, err := f.bound(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read frame html: %w", err)
	}
	return htmlutil.Clean(raw, nil), nil
}

func (f *framePort) InteractiveCount(ctx context.Context) (int, error) {
	els, err := f.bound(ctx).Elements("a[href], button, input, select, textarea, [role='button'], [role='link'], [onclick]")
	if err != nil {
		return 0, fmt.Errorf("count interactive elements: %w", err)
	}
	return len(els), nil
}

// LocateByRole matches elements by accessibility role and accessible
// name, the way a screen reader would address them. The name matches as
// a case-insensitive substring.
func (f *framePort) LocateByRole(ctx context.Context, role, name string) ([]output.ElementPort, error) {
	p := f.bound(ctx)
	tree, err := proto.AccessibilityGetFullAXTree{FrameID: p.FrameID}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("accessibility tree: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	var out []output.ElementPort
	for _, node := range tree.Nodes {
		if node.Ignored || node.Role == nil || node.BackendDOMNodeID == 0 {
			continue
		}
		if !strings.EqualFold(node.Role.Value.String(), role) {
			continue
		}
		if node.Name == nil {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(node.Name.Value.String()), needle) {
			continue
		}

		el, err := elementFromBackendID(p, node.BackendDOMNodeID)
		if err != nil {
			continue
		}
		out = append(out, el)
		if len(out) >= maxLocateMatches {
			break
		}
	}
	return out, nil
}

func (f *framePort) LocateByText(ctx context.Context, text string) ([]output.ElementPort, error) {
	q := xpathString(strings.ToLower(text))
	expr := fmt.Sprintf(
		`//*[text()[contains(translate(normalize-space(.), '%s', '%s'), %s)]] | //input[contains(translate(@value, '%s', '%s'), %s)]`,
		upperAlpha, lowerAlpha, q, upperAlpha, lowerAlpha, q,
	)
	return f.collectX(ctx, expr)
}

// LocateByLabel finds form controls addressed by a <label>: either
// nested inside it, bound through label[for], or carrying the text as
// aria-label.
func (f *framePort) LocateByLabel(ctx context.Context, label string) ([]output.ElementPort, error) {
	cond := fmt.Sprintf(
		"contains(translate(normalize-space(.), '%s', '%s'), %s)",
		upperAlpha, lowerAlpha, xpathString(strings.ToLower(label)),
	)
	expr := fmt.Sprintf(
		"//label[%s]//input | //label[%s]//textarea | //label[%s]//select | //*[@id = //label[%s]/@for]",
		cond, cond, cond, cond,
	)

	out, err := f.collectX(ctx, expr)
	if err != nil {
		return nil, err
	}
	if len(out) >= maxLocateMatches {
		return out, nil
	}

	aria, err := f.collectCSS(ctx, fmt.Sprintf(`[aria-label*="%s" i]`, cssEscape(label)))
	if err != nil {
		return out, nil
	}
	return append(out, aria...), nil
}

func (f *framePort) LocateByPlaceholder(ctx context.Context, placeholder string) ([]output.ElementPort, error) {
	return f.collectCSS(ctx, fmt.Sprintf(`[placeholder*="%s" i]`, cssEscape(placeholder)))
}

func (f *framePort) LocateByTitle(ctx context.Context, title string) ([]output.ElementPort, error) {
	return f.collectCSS(ctx, fmt.Sprintf(`[title*="%s" i]`, cssEscape(title)))
}

func (f *framePort) LocateByAltText(ctx context.Context, alt string) ([]output.ElementPort, error) {
	return f.collectCSS(ctx, fmt.Sprintf(`[alt*="%s" i]`, cssEscape(alt)))
}

func (f *framePort) collectCSS(ctx context.Context, selector string) ([]output.ElementPort, error) {
	els, err := f.bound(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapElements(els), nil
}

func (f *framePort) collectX(ctx context.Context, xpath string) ([]output.ElementPort, error) {
	els, err := f.bound(ctx).ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("xpath query: %w", err)
	}
	return wrapElements(els), nil
}

func wrapElements(els rod.Elements) []output.ElementPort {
	out := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		out = append(out, &elementPort{el: el})
		if len(out) >= maxLocateMatches {
			break
		}
	}
	return out
}

func elementFromBackendID(p *rod.Page, id proto.DOMBackendNodeID) (output.ElementPort, error) {
	obj, err := proto.DOMResolveNode{BackendNodeID: id}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("resolve backend node %d: %w", id, err)
	}
	if obj.Object == nil || obj.Object.ObjectID == "" {
		return nil, errors.New("backend node has no remote object")
	}
	el, err := p.ElementFromObject(obj.Object)
	if err != nil {
		return nil, fmt.Errorf("element from object: %w", err)
	}
	return &elementPort{el: el}, nil
}

// StructureSnapshot renders this frame's accessibility tree as an
// indented outline, one node per line. Descent stops at embedded frame
// roots: their content belongs to the child frame's own snapshot.
func (f *framePort) StructureSnapshot(ctx context.Context) (string, error) {
	p := f.bound(ctx)
	tree, err := proto.AccessibilityGetFullAXTree{FrameID: p.FrameID}.Call(p)
	if err != nil {
		return "", fmt.Errorf("accessibility tree: %w", err)
	}
	if len(tree.Nodes) == 0 {
		return "", nil
	}

	byID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(tree.Nodes))
	for _, node := range tree.Nodes {
		byID[node.NodeID] = node
	}

	root := tree.Nodes[0]
	for _, node := range tree.Nodes {
		if node.ParentID == "" {
			root = node
			break
		}
	}

	var b strings.Builder
	renderAXNode(&b, root, byID, 0)
	return strings.TrimRight(b.String(), "\n"), nil
}

func renderAXNode(b *strings.Builder, node *proto.AccessibilityAXNode, byID map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, depth int) {
	if node == nil {
		return
	}

	role := ""
	if node.Role != nil {
		role = node.Role.Value.String()
	}
	name := ""
	if node.Name != nil {
		name = strings.TrimSpace(node.Name.Value.String())
	}

	childDepth := depth
	switch {
	case node.Ignored || skipAXRole(role):
		// Structural noise: render nothing, pass children through at
		// the same depth.
	case isFrameRole(role):
		writeAXLine(b, depth, "iframe", name)
		return
	default:
		writeAXLine(b, depth, displayRole(role), name)
		childDepth = depth + 1
	}

	for _, childID := range node.ChildIDs {
		renderAXNode(b, byID[childID], byID, childDepth)
	}
}

func writeAXLine(b *strings.Builder, depth int, role, name string) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("- ")
	b.WriteString(role)
	if name != "" {
		fmt.Fprintf(b, " %q", name)
	}
	b.WriteString("\n")
}

func skipAXRole(role string) bool {
	switch role {
	case "", "none", "generic", "GenericContainer", "InlineTextBox", "LineBreak", "RootWebArea":
		return true
	}
	return false
}

func isFrameRole(role string) bool {
	return role == "Iframe" || role == "IframePresentational"
}

func displayRole(role string) string {
	if role == "StaticText" {
		return "text"
	}
	return role
}

// cssEscape makes a string safe inside a double-quoted CSS attribute
// selector.
func cssEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// xpathString quotes a string as an XPath 1.0 literal. Strings holding
// both quote kinds need the concat() form.
func xpathString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
