package tpl

import (
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadFSAndCombine(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/layout.gohtml":       {Data: []byte(`<main>{{template "item" .}}</main>`)},
		"tpl/parts/item.gohtml":   {Data: []byte(`{{define "item"}}<b>{{shout .}}</b>{{end}}`)},
		"tpl/.hidden/skip.gohtml": {Data: []byte(`{{`)},
		"tpl/readme.txt":          {Data: []byte(`ignored`)},
	}
	s := NewHTMLTemplateStore(zaptest.NewLogger(t))
	s.Funcs = template.FuncMap{"shout": strings.ToUpper}
	require.NoError(t, s.LoadFS(fsys, "tpl"))

	assert.Len(t, s.Base, 2)
	assert.Contains(t, s.Base, "parts/item")

	combined, err := s.Combine("page", "layout", "parts/item")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, combined.Execute(&sb, "<hi>"))
	assert.Equal(t, "<main><b>&lt;HI&gt;</b></main>", sb.String())

	got, ok := s.Get("page")
	require.True(t, ok)
	assert.Same(t, combined, got)
}

func TestCombineUnknownBase(t *testing.T) {
	s := NewHTMLTemplateStore(nil)
	_, err := s.Combine("page", "missing")
	assert.Error(t, err)
	_, err = s.Combine("page")
	assert.Error(t, err)
}

func TestLoadFSRejectsInvalidUTF8(t *testing.T) {
	s := NewHTMLTemplateStore(nil)
	err := s.LoadFS(fstest.MapFS{"bad.gohtml": {Data: []byte{0xff, 0xfe}}}, ".")
	assert.ErrorContains(t, err, "UTF-8")
}
