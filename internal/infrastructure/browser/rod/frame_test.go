package rod

import (
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/ysmood/gson"
)

func TestXpathString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "big"`, `concat('it', "'", 's "big"')`},
		{"'", `"'"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, xpathString(tt.in), tt.in)
	}
}

func TestCSSEscape(t *testing.T) {
	assert.Equal(t, `search \"here\"`, cssEscape(`search "here"`))
	assert.Equal(t, `a\\b`, cssEscape(`a\b`))
	assert.Equal(t, "plain", cssEscape("plain"))
}

func axValue(v string) *proto.AccessibilityAXValue {
	return &proto.AccessibilityAXValue{Value: gson.New(v)}
}

func TestRenderAXNode(t *testing.T) {
	nodes := []*proto.AccessibilityAXNode{
		{NodeID: "1", Role: axValue("RootWebArea"), Name: axValue("Shop"), ChildIDs: []proto.AccessibilityAXNodeID{"2", "5", "6"}},
		{NodeID: "2", Role: axValue("generic"), ChildIDs: []proto.AccessibilityAXNodeID{"3", "4"}},
		{NodeID: "3", Role: axValue("button"), Name: axValue("Add to cart")},
		{NodeID: "4", Role: axValue("StaticText"), Name: axValue("In stock")},
		{NodeID: "5", Role: axValue("Iframe"), Name: axValue("payment"), ChildIDs: []proto.AccessibilityAXNodeID{"7"}},
		{NodeID: "6", Role: axValue("link"), Name: axValue("Help"), Ignored: true},
		{NodeID: "7", Role: axValue("button"), Name: axValue("hidden in child frame")},
	}

	byID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID] = n
	}

	var b strings.Builder
	renderAXNode(&b, nodes[0], byID, 0)
	got := strings.TrimRight(b.String(), "\n")

	want := strings.Join([]string{
		`- button "Add to cart"`,
		`- text "In stock"`,
		`- iframe "payment"`,
	}, "\n")
	assert.Equal(t, want, got)

	// The iframe's subtree belongs to the child frame's snapshot.
	assert.NotContains(t, got, "hidden in child frame")
}

func TestRenderAXNode_DepthIndent(t *testing.T) {
	nodes := []*proto.AccessibilityAXNode{
		{NodeID: "1", Role: axValue("navigation"), Name: axValue("Main"), ChildIDs: []proto.AccessibilityAXNodeID{"2"}},
		{NodeID: "2", Role: axValue("link"), Name: axValue("Home")},
	}
	byID := map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode{"1": nodes[0], "2": nodes[1]}

	var b strings.Builder
	renderAXNode(&b, nodes[0], byID, 0)

	assert.Equal(t, "- navigation \"Main\"\n  - link \"Home\"\n", b.String())
}

func TestSkipAXRole(t *testing.T) {
	for _, role := range []string{"", "none", "generic", "GenericContainer", "InlineTextBox", "RootWebArea"} {
		assert.True(t, skipAXRole(role), role)
	}
	for _, role := range []string{"button", "link", "textbox", "StaticText", "Iframe"} {
		assert.False(t, skipAXRole(role), role)
	}
}
