// Package document turns an uploaded file into text and a word list.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

type Format string

const (
	FormatText Format = "txt"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// Document is the extracted content of one file.
type Document struct {
	Name   string   `json:"name"`
	Format Format   `json:"format"`
	Text   string   `json:"-"`
	Words  []string `json:"-"`
}

// FormatOf derives the format from the file extension (case-insensitive).
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "txt":
		return FormatText, nil
	case "docx":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%s: %w", filepath.Base(name), domain.ErrUnsupportedFormat)
	}
}

// Extract reads the file at path.
func Extract(path string) (*Document, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ExtractBytes(filepath.Base(path), raw)
}

// ExtractBytes extracts an in-memory file; name only selects the format.
func ExtractBytes(name string, raw []byte) (*Document, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case FormatText:
		text, err = DecodeText(raw)
	case FormatDOCX:
		text, err = parseDOCX(raw)
	case FormatPDF:
		text, err = parsePDF(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, domain.ErrUnreadableDocument)
	}

	doc := FromText(text)
	doc.Name = name
	doc.Format = format
	return doc, nil
}

// FromText wraps raw text that did not come from a file.
func FromText(text string) *Document {
	text = domain.NormalizeText(text)
	return &Document{
		Format: FormatText,
		Text:   text,
		Words:  domain.Tokenize(text),
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText reads UTF-8 when the bytes are valid UTF-8 and falls back to
// Windows-1251, the usual encoding of legacy Russian plain-text files.
func DecodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.Windows1251.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode windows-1251: %w", err)
	}
	return string(decoded), nil
}
