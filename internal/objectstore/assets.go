package objectstore

import "regexp"

// assetElements lists the five SciELO PS element types that carry an
// xlink:href pointing at a static asset, in the order the original
// get_static_assets xpath iterfind visits them.
var assetElements = []string{"graphic", "media", "inline-graphic", "supplementary-material", "inline-supplementary-material"}

// tagPattern matches one asset-bearing element's opening tag, capturing its
// full attribute text so hrefPattern can find xlink:href within it.
var tagPattern = buildTagPattern()

// hrefPattern matches an xlink:href="..." or xlink:href='...' attribute
// within an already-isolated tag's attribute text.
var hrefPattern = regexp.MustCompile(`xlink:href\s*=\s*(["'])([^"']*)(["'])`)

func buildTagPattern() *regexp.Regexp {
	alt := assetElements[0]
	for _, e := range assetElements[1:] {
		alt += "|" + e
	}
	return regexp.MustCompile(`<(?:` + alt + `)\b[^>]*>`)
}

// EnumerateAssets scans xml for every xlink:href carried by an
// asset-bearing element, in document order. It is a byte-level scan rather
// than a full encoding/xml decode because the documents being scanned are
// often too large or too loosely-formed to parse reliably, and because
// scanning never needs to modify the bytes.
func EnumerateAssets(xml []byte) []AssetRef {
	var refs []AssetRef
	for _, tag := range tagPattern.FindAll(xml, -1) {
		m := hrefPattern.FindSubmatch(tag)
		if m == nil {
			continue
		}
		refs = append(refs, AssetRef{
			Href:    string(m[2]),
			Element: elementNameOf(tag),
		})
	}
	return refs
}

var elementNamePattern = regexp.MustCompile(`^<(\S+)`)

func elementNameOf(tag []byte) string {
	m := elementNamePattern.FindSubmatch(tag)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// RewriteAssets replaces each xlink:href value in xml with the URI
// resolve(href) returns, leaving everything else - including comments and
// blank text - byte-for-byte untouched. A full decode/re-encode round trip
// through encoding/xml cannot make that guarantee, since Go's XML
// marshaling drops comments and normalizes whitespace; a targeted
// byte-preserving rewrite is used instead.
func RewriteAssets(xml []byte, resolve func(href string) string) []byte {
	return tagPattern.ReplaceAllFunc(xml, func(tag []byte) []byte {
		return hrefPattern.ReplaceAllFunc(tag, func(attr []byte) []byte {
			sub := hrefPattern.FindSubmatch(attr)
			if sub == nil {
				return attr
			}
			quote := string(sub[1])
			href := string(sub[2])
			newURI := resolve(href)
			return []byte("xlink:href=" + quote + newURI + quote)
		})
	})
}
