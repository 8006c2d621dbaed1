package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument is a Document with a fixed page count.
type fakeDocument struct {
	pages  int
	closed bool
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) RenderPage(page int, scale float64) ([]byte, error) {
	return []byte("png-page"), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// fakeOpener requires a specific password when protected and records every
// password attempted.
type fakeOpener struct {
	pages     int
	password  string // "" means unprotected
	attempted []string
}

func (o *fakeOpener) Open(_ context.Context, _ []byte, password string) (Document, error) {
	o.attempted = append(o.attempted, password)
	if o.password != "" && password != o.password {
		return nil, eris.Wrap(ErrPasswordRequired, "no password given")
	}
	return &fakeDocument{pages: o.pages}, nil
}

func writeTempPDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub"), 0644))
	return path
}

func TestPageCountUnprotected(t *testing.T) {
	opener := &fakeOpener{pages: 3}
	r := NewRenderer(opener, 1.5)
	path := writeTempPDF(t, "nota.pdf")

	n, err := r.PageCount(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{""}, opener.attempted)
}

func TestPasswordRecoveredFromFileName(t *testing.T) {
	opener := &fakeOpener{pages: 1, password: "5678"}
	r := NewRenderer(opener, 1.5)
	path := writeTempPDF(t, "NF_senha5678.pdf")

	n, err := r.PageCount(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	// No-password attempt first, then candidates until one unlocks.
	assert.Equal(t, "", opener.attempted[0])
	assert.Equal(t, "5678", opener.attempted[len(opener.attempted)-1])
}

func TestPasswordRecoveryExhausted(t *testing.T) {
	opener := &fakeOpener{pages: 1, password: "segredo-que-nao-esta-no-nome"}
	r := NewRenderer(opener, 1.5)
	path := writeTempPDF(t, "NF_1234.pdf")

	_, err := r.PageCount(context.Background(), path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPasswordRequired))
}

func TestRenderPageBounds(t *testing.T) {
	opener := &fakeOpener{pages: 2}
	r := NewRenderer(opener, 1.5)
	path := writeTempPDF(t, "nota.pdf")
	ctx := context.Background()

	_, err := r.RenderPage(ctx, path, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3")
	assert.Contains(t, err.Error(), "2 pages")

	_, err = r.RenderPage(ctx, path, 0)
	assert.Error(t, err)

	png, err := r.RenderPage(ctx, path, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-page"), png)
}

func TestRenderPageMissingFile(t *testing.T) {
	r := NewRenderer(&fakeOpener{pages: 1}, 1.5)
	_, err := r.RenderPage(context.Background(), "/nonexistent/nota.pdf", 1)
	assert.Error(t, err)
}

func TestToPNGPassthrough(t *testing.T) {
	payload := append([]byte("\x89PNG\r\n\x1a\n"), []byte("rest")...)
	out, err := toPNG(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestToPNGGarbage(t *testing.T) {
	_, err := toPNG([]byte("not an image"))
	assert.Error(t, err)
}
