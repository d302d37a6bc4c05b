package httpapi

import (
	"regexp"
	"strings"
)

var (
	titlePattern    = regexp.MustCompile(`(?s)<article-title[^>]*>(.*?)</article-title>`)
	abstractPattern = regexp.MustCompile(`(?s)<abstract[^>]*>(.*?)</abstract>`)
	tagStrip        = regexp.MustCompile(`<[^>]+>`)
)

// sanitizeFront extracts a minimal, front-matter JSON view (title,
// abstract) from a document's XML body. There is no corpus library for
// JATS front-matter sanitization - the original relies on a
// domain-specific package with no Go counterpart anywhere in the pack -
// so this is a hand-rolled, deliberately narrow substitute scoped to the
// two fields the spec's front endpoint needs to prove out, using the same
// targeted-regexp approach as the asset rewriter rather than a full XML
// parse.
func sanitizeFront(xml []byte) map[string]string {
	front := map[string]string{}
	if m := titlePattern.FindSubmatch(xml); m != nil {
		front["title"] = cleanText(m[1])
	}
	if m := abstractPattern.FindSubmatch(xml); m != nil {
		front["abstract"] = cleanText(m[1])
	}
	return front
}

func cleanText(b []byte) string {
	return strings.TrimSpace(string(tagStrip.ReplaceAll(b, nil)))
}
