package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scieloorg/kernel-sub000/internal/domain"
)

func TestSanitizeFrontExtractsTitleAndAbstract(t *testing.T) {
	xml := []byte(`<article><front><article-meta>
		<title-group><article-title>A <italic>Study</italic></article-title></title-group>
		<abstract><p>Background text.</p></abstract>
	</article-meta></front></article>`)

	front := sanitizeFront(xml)
	assert.Equal(t, "A Study", front["title"])
	assert.Equal(t, "Background text.", front["abstract"])
}

func TestSanitizeFrontMissingFieldsOmitted(t *testing.T) {
	front := sanitizeFront([]byte(`<article/>`))
	assert.NotContains(t, front, "title")
	assert.NotContains(t, front, "abstract")
}

func TestSlugifyProducesURLSafeIdentifier(t *testing.T) {
	assert.Equal(t, "1234-5678-rctb-45-05-0600-gf01-gif", slugify("1234-5678-rctb-45-05-0600-gf01.gif"))
}

func TestStatusForErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForError(domain.ErrDoesNotExist))
	assert.Equal(t, http.StatusConflict, statusForError(domain.ErrAlreadyExists))
	assert.Equal(t, http.StatusBadRequest, statusForError(domain.ErrInvalidTimestamp))
	assert.Equal(t, http.StatusNotFound, statusForError(domain.ErrUnknownAsset))
}
