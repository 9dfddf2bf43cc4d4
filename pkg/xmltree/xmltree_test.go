package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	doc := `<MM>
  <SkipIndicator>0</SkipIndicator>
  <Message type="IMSIDetachIndication">
    <MobileIdentity><TMSI>01020304</TMSI></MobileIdentity>
  </Message>
</MM>`
	root, err := Parse([]byte(doc))
	require.Nil(t, err, "parse")

	assert.Equal(t, "MM", root.Tag)
	assert.Equal(t, 2, len(root.Children))
	msg := root.Child("Message")
	require.NotNil(t, msg)
	assert.Equal(t, "IMSIDetachIndication", msg.Attr("type"))
	text, ok := msg.Child("MobileIdentity").ChildText("TMSI")
	assert.True(t, ok)
	assert.Equal(t, "01020304", text)

	assert.Equal(t,
		`<MM><SkipIndicator>0</SkipIndicator><Message type="IMSIDetachIndication"><MobileIdentity><TMSI>01020304</TMSI></MobileIdentity></Message></MM>`,
		root.String())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.NotNil(t, err, "empty document")

	_, err = Parse([]byte("<a><b></a>"))
	assert.NotNil(t, err, "mismatched tags")
}

func TestAttrs(t *testing.T) {
	e := New("codecTag")
	e.SetAttr("enc", "hex")
	e.SetAttr("id", "1")
	e.SetAttr("enc", "xml")

	assert.Equal(t, []Attr{{"enc", "xml"}, {"id", "1"}}, e.Attrs)
	_, ok := e.LookupAttr("missing")
	assert.False(t, ok)

	e.DelAttr("enc")
	assert.Equal(t, []Attr{{"id", "1"}}, e.Attrs)
}

func TestEscaping(t *testing.T) {
	e := NewText("Text", `a<b&"c"`)
	e.SetAttr("v", "<>")
	back, err := Parse([]byte(e.String()))
	require.Nil(t, err)
	assert.Equal(t, e.Text, back.Text)
	assert.Equal(t, "<>", back.Attr("v"))
}

func TestCloneIsDeep(t *testing.T) {
	root := New("a")
	root.AddChild(NewText("b", "1"))
	c := root.Clone()
	c.Children[0].Text = "2"
	c.SetAttr("x", "y")

	assert.Equal(t, "1", root.Children[0].Text)
	assert.Empty(t, root.Attrs)
}

func TestWalkAndRemove(t *testing.T) {
	root := New("a")
	b := root.AddChild(New("b"))
	b.AddChild(New("c"))
	root.AddChild(New("d"))

	var tags []string
	root.Walk(func(e *Element) bool {
		tags = append(tags, e.Tag)
		return e.Tag != "b"
	})
	assert.Equal(t, []string{"a", "b", "d"}, tags)

	root.RemoveChild(b)
	assert.Equal(t, "<a><d/></a>", root.String())
}

func TestIndent(t *testing.T) {
	root := New("a")
	root.AddChild(NewText("b", "1"))
	out := root.Indent("  ")
	assert.True(t, strings.HasPrefix(out, "<a>"), out)

	back, err := Parse([]byte(out))
	require.Nil(t, err)
	assert.Equal(t, root.String(), back.String())
}
