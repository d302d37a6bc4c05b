package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleXML = `<article>
  <!-- a comment that must survive -->
  <graphic xlink:href="1234-5678-rctb-45-05-0600-gf01.gif"/>
  <body>
    <p><inline-graphic xlink:href="1234-5678-rctb-45-05-0600-gf02.gif"/></p>
  </body>
</article>`

func TestEnumerateAssetsFindsAllElementTypesInOrder(t *testing.T) {
	refs := EnumerateAssets([]byte(sampleXML))
	assert.Len(t, refs, 2)
	assert.Equal(t, "1234-5678-rctb-45-05-0600-gf01.gif", refs[0].Href)
	assert.Equal(t, "graphic", refs[0].Element)
	assert.Equal(t, "1234-5678-rctb-45-05-0600-gf02.gif", refs[1].Href)
	assert.Equal(t, "inline-graphic", refs[1].Element)
}

func TestRewriteAssetsPreservesCommentsAndWhitespace(t *testing.T) {
	resolved := map[string]string{
		"1234-5678-rctb-45-05-0600-gf01.gif": "https://objectstore/gf01.gif",
		"1234-5678-rctb-45-05-0600-gf02.gif": "https://objectstore/gf02.gif",
	}
	out := RewriteAssets([]byte(sampleXML), func(href string) string { return resolved[href] })

	assert.Contains(t, string(out), "<!-- a comment that must survive -->")
	assert.Contains(t, string(out), `xlink:href="https://objectstore/gf01.gif"`)
	assert.Contains(t, string(out), `xlink:href="https://objectstore/gf02.gif"`)
}

func TestRewriteAssetsLeavesUnresolvedHrefEmpty(t *testing.T) {
	out := RewriteAssets([]byte(sampleXML), func(href string) string { return "" })
	assert.Contains(t, string(out), `xlink:href=""`)
}
