package document

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"report.txt", FormatText, false},
		{"REPORT.TXT", FormatText, false},
		{"minutes.docx", FormatDOCX, false},
		{"paper.Pdf", FormatPDF, false},
		{"legacy.doc", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractBytes_UTF8Text(t *testing.T) {
	doc, err := ExtractBytes("a.txt", []byte("\xEF\xBB\xBFThe CPU, and (GPU).\nOK"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", doc.Name)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, []string{"The", "CPU", "and", "GPU", "OK"}, doc.Words)
}

func TestExtractBytes_Windows1251Fallback(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Отчёт ЦБ и МВД")
	require.NoError(t, err)

	doc, err := ExtractBytes("legacy.txt", []byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Отчёт ЦБ и МВД", doc.Text)
	assert.Equal(t, []string{"Отчёт", "ЦБ", "и", "МВД"}, doc.Words)
}

func TestExtractBytes_DOCX(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>The CPU</w:t></w:r><w:r><w:t xml:space="preserve"> and GPU</w:t></w:r></w:p>
<w:p><w:r><w:t>are</w:t><w:tab/><w:t>OK</w:t></w:r></w:p>
</w:body>
</w:document>`

	doc, err := ExtractBytes("minutes.docx", buildDOCX(t, xml))
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Equal(t, "The CPU and GPU\nare\tOK\n", doc.Text)
	assert.Equal(t, []string{"The", "CPU", "and", "GPU", "are", "OK"}, doc.Words)
}

func TestExtractBytes_BrokenDOCX(t *testing.T) {
	_, err := ExtractBytes("broken.docx", []byte("not a zip"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("word/other.xml")
	require.NoError(t, zw.Close())
	_, err = ExtractBytes("empty.docx", buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml not found")
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestExtractBytes_BrokenPDF(t *testing.T) {
	_, err := ExtractBytes("paper.pdf", []byte("%PDF-1.4 truncated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestExtract_FromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("USB-C and HDMI"), 0o644))

	doc, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "input.txt", doc.Name)
	assert.Equal(t, []string{"USB", "C", "and", "HDMI"}, doc.Words)

	_, err = Extract(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnreadableDocument)

	_, err = Extract(filepath.Join(dir, "image.png"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestFromText_NFC(t *testing.T) {
	doc := FromText("\u0438\u0306 \u0426\u0411")
	assert.Equal(t, "\u0439 \u0426\u0411", doc.Text)
	assert.Equal(t, []string{"\u0439", "\u0426\u0411"}, doc.Words)
}
