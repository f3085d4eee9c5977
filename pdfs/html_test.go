package pdfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendersDocument(t *testing.T) {
	b := sampleBundle()
	b.Recipe.Name = `Torta <script>alert(1)</script>`
	out, err := HTML(Compose(b, printedAt))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "width: 794px")
	assert.Contains(t, out, `data-role="ingredients"`)
	assert.Contains(t, out, "Passo 2")
	assert.Contains(t, out, `src="`+tinyPNG+`"`, "data URI images pass through")
	assert.NotContains(t, out, "<script>alert(1)</script>", "text is escaped")
	assert.Contains(t, out, "border-left:5px solid #16a34a")
}

func TestHTMLDropsNonDataImages(t *testing.T) {
	doc := &Document{Title: "x", Width: 100, Root: block(RoleRoot, Style{},
		img(RoleStepPhoto, Style{}, "javascript:alert(1)"),
	)}
	out, err := HTML(doc)
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript:")
}

func TestStyleCSS(t *testing.T) {
	css := string(styleCSS(Style{FontSize: 14, Bold: true, Color: "#1f2937", Padding: 12, Align: AlignCenter}))
	assert.Equal(t, "font-size:14px;font-weight:bold;color:#1f2937;text-align:center;padding:12px;", css)

	assert.Empty(t, string(styleCSS(Style{Color: "red;position:fixed"})), "only hex colors are emitted")
	assert.Equal(t, "flex:2 1 0;", string(flexCSS([]float64{2, 1}, 0)))
	assert.Equal(t, "flex:1 1 0;", string(flexCSS(nil, 3)))
}
