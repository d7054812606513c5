package docparse

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExtract_Text(t *testing.T) {
	p := New(Limits{})
	out, err := p.Extract("notes.txt", []byte("plain body"))
	require.NoError(t, err)
	assert.Equal(t, "plain body", out)

	_, err = p.Extract("bad.txt", []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExtract_Limits(t *testing.T) {
	p := New(Limits{MaxFileSize: 4})

	_, err := p.Extract("big.txt", []byte("12345"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = p.Extract("empty.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = p.Extract("slides.pptx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtract_Defaults(t *testing.T) {
	p := New(Limits{})
	assert.Equal(t, DefaultMaxPages, p.limits.MaxPages)
	assert.Equal(t, int64(DefaultMaxFileSize), p.limits.MaxFileSize)
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := New(Limits{}).Extract("broken.PDF", []byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestExtract_Markdown(t *testing.T) {
	md := "# Cell Biology\n\nCells are the *basic* unit of life.\n\n- nucleus\n- membrane\n"
	out, err := New(Limits{}).Extract("ch1.md", []byte(md))
	require.NoError(t, err)

	assert.Contains(t, out, "Cell Biology")
	assert.Contains(t, out, "Cells are the basic unit of life.")
	assert.Contains(t, out, "nucleus")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "*")
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Term"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Definition"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Osmosis"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Diffusion of water"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := New(Limits{}).Extract("glossary.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, out, "## Sheet: Sheet1")
	assert.Contains(t, out, "Osmosis\tDiffusion of water")
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDocx(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
			`<w:p><w:r><w:t>Photosynthesis &amp; respiration</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>`+
			`</w:body></w:document>`)

	out, err := New(Limits{}).Extract("lesson.docx", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Photosynthesis & respiration\n")
	assert.Contains(t, out, "Second paragraph")
	assert.NotContains(t, out, "<w:")
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
