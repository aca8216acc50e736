package console

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplatesEmbedded(t *testing.T) {
	pages, err := parseTemplates(tplFS)
	require.NoError(t, err)
	assert.Contains(t, pages, "login.tmpl")
	assert.Contains(t, pages, "home.tmpl")
	assert.NotContains(t, pages, "layout.tmpl")
}

func TestParseTemplatesReportsErrors(t *testing.T) {
	layout := &fstest.MapFile{Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)}

	_, err := parseTemplates(fstest.MapFS{"templates/layout.tmpl": layout})
	assert.ErrorContains(t, err, "no page templates")

	_, err = parseTemplates(fstest.MapFS{
		"templates/layout.tmpl": layout,
		"templates/broken.tmpl": {Data: []byte(`{{define "content"}}{{if}}{{end}}`)},
	})
	assert.ErrorContains(t, err, "broken.tmpl")

	_, err = parseTemplates(fstest.MapFS{
		"templates/page.tmpl": {Data: []byte(`{{define "content"}}ok{{end}}`)},
	})
	assert.Error(t, err)

	pages, err := parseTemplates(fstest.MapFS{
		"templates/layout.tmpl": layout,
		"templates/page.tmpl":   {Data: []byte(`{{define "content"}}ok{{end}}`)},
	})
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}
