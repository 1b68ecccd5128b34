// Package extract turns uploaded documents into plain text for the page's text areas.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	KindText = "text/plain"
	KindPDF  = "application/pdf"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")
	ErrNoText          = errors.New("no text could be extracted from the file")
)

// Kind resolves the document kind from the declared content type, falling
// back to the file extension when the type is missing or generic.
func Kind(filename, contentType string) (string, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case KindText, KindPDF:
			return mediaType, nil
		case "application/octet-stream":
		default:
			return "", ErrUnsupportedType
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Text extracts the text of an uploaded document.
func Text(filename, contentType string, content []byte) (string, error) {
	kind, err := Kind(filename, contentType)
	if err != nil {
		return "", err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("read pdf %s: %w", filename, err)
		}
	default:
		text = strings.ToValidUTF8(string(content), "")
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
