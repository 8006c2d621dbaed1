package pdf

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"

	_ "image/jpeg" // register JPEG decoder for embedded scans

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

// PdfcpuOpener opens documents with pdfcpu. NFS-e PDFs are scanned pages, so
// rasterization serves the page's embedded image stream; scale is a hint the
// scan already satisfies at capture resolution.
type PdfcpuOpener struct{}

// NewPdfcpuOpener returns the production Opener.
func NewPdfcpuOpener() *PdfcpuOpener {
	return &PdfcpuOpener{}
}

// Open parses and validates the document. Failures that look like encryption
// problems are classified as ErrPasswordRequired so the renderer can try
// recovered candidates.
func (o *PdfcpuOpener) Open(_ context.Context, data []byte, password string) (Document, error) {
	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		if looksLikePasswordError(err) {
			return nil, eris.Wrap(ErrPasswordRequired, err.Error())
		}
		return nil, eris.Wrap(err, "pdf: open document")
	}

	return &pdfcpuDocument{ctx: pdfCtx}, nil
}

type pdfcpuDocument struct {
	ctx *model.Context
}

func (d *pdfcpuDocument) PageCount() int {
	return d.ctx.PageCount
}

// RenderPage returns the page's raster content as PNG. The largest embedded
// image on the page is taken as the page scan.
func (d *pdfcpuDocument) RenderPage(page int, _ float64) ([]byte, error) {
	images, err := pdfcpu.ExtractPageImages(d.ctx, page, false)
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: extract images from page %d", page)
	}
	if len(images) == 0 {
		return nil, eris.Errorf("pdf: page %d has no raster content", page)
	}

	var largest []byte
	for _, img := range images {
		payload, err := io.ReadAll(img)
		if err != nil {
			return nil, eris.Wrapf(err, "pdf: read image stream on page %d", page)
		}
		if len(payload) > len(largest) {
			largest = payload
		}
	}

	return toPNG(largest)
}

func (d *pdfcpuDocument) Close() error {
	return nil
}

// toPNG re-encodes the payload as PNG when it is not PNG already.
func toPNG(payload []byte) ([]byte, error) {
	if bytes.HasPrefix(payload, []byte("\x89PNG")) {
		return payload, nil
	}

	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "pdf: decode page image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, eris.Wrap(err, "pdf: encode png")
	}
	return buf.Bytes(), nil
}
