package pdfs

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/zeptools/fichas/datauri"
	"github.com/zeptools/fichas/tpl"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const documentTemplate = "document"

var loadTemplates = sync.OnceValues(func() (*template.Template, error) {
	store := tpl.NewHTMLTemplateStore(nil)
	store.Funcs = template.FuncMap{
		"css":     styleCSS,
		"align":   alignCSS,
		"flex":    flexCSS,
		"dataURL": safeDataURL,
	}
	if err := store.LoadFS(templateFS, "templates"); err != nil {
		return nil, err
	}
	return store.Combine(documentTemplate, "page", "node")
})

// HTML renders doc as a standalone page laid out at doc.Width CSS pixels
func HTML(doc *Document) (string, error) {
	t, err := loadTemplates()
	if err != nil {
		return "", fmt.Errorf("load templates: %w", err)
	}
	var sb strings.Builder
	if err = t.Execute(&sb, doc); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return sb.String(), nil
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

var alignNames = map[Align]string{AlignLeft: "left", AlignCenter: "center", AlignRight: "right"}

func alignCSS(st Style) template.CSS {
	return template.CSS("text-align:" + alignNames[st.Align] + ";")
}

// styleCSS only emits properties that are set, so unset ones inherit
func styleCSS(st Style) template.CSS {
	var b strings.Builder
	prop := func(name, value string) {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte(';')
	}
	if st.FontSize > 0 {
		prop("font-size", px(st.FontSize))
	}
	if st.Bold {
		prop("font-weight", "bold")
	}
	if isHexColor(st.Color) {
		prop("color", st.Color)
	}
	if isHexColor(st.Background) {
		prop("background", st.Background)
	}
	if st.Align != AlignLeft {
		prop("text-align", alignNames[st.Align])
	}
	if st.Padding > 0 {
		prop("padding", px(st.Padding))
	}
	if st.MarginBottom > 0 {
		prop("margin-bottom", px(st.MarginBottom))
	}
	if isHexColor(st.Border) && st.BorderWidth > 0 {
		prop("border", px(st.BorderWidth)+" solid "+st.Border)
	}
	if isHexColor(st.AccentLeft) {
		prop("border-left", "5px solid "+st.AccentLeft)
	}
	if isHexColor(st.Underline) {
		prop("border-bottom", "2px solid "+st.Underline)
	}
	if st.Radius > 0 {
		prop("border-radius", px(st.Radius))
	}
	if st.MaxHeight > 0 {
		prop("max-height", px(st.MaxHeight))
	}
	switch {
	case st.MaxWidth > 0:
		prop("max-width", px(st.MaxWidth))
	case st.MaxHeight > 0:
		prop("max-width", "100%")
	}
	if st.Gap > 0 {
		prop("gap", px(st.Gap))
	}
	return template.CSS(b.String())
}

func flexCSS(weights []float64, i int) template.CSS {
	w := 1.0
	if i < len(weights) && weights[i] > 0 {
		w = weights[i]
	}
	return template.CSS("flex:" + strconv.FormatFloat(w, 'f', -1, 64) + " 1 0;")
}

// safeDataURL lets data URIs through the URL sanitizer. Anything else is dropped.
func safeDataURL(s string) template.URL {
	if !datauri.IsDataURI(s) {
		return ""
	}
	return template.URL(s)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}
