// Package extract 从上传文件中抽取纯文本。
// 支持 txt/md 直接读取与 pdf 纯文本抽取。
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

// Text extracts plain text from the file at path. The declared filename
// decides the parser; unknown extensions fail with ErrUnsupportedFormat
// and a missing path with ErrFileNotFound.
func Text(path, filename string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", pkgerrors.ErrFileNotFound.WithCause(err)
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return pdfText(path)
	default:
		return "", pkgerrors.ErrUnsupportedFormat.WithMessagef("unsupported file type: %s", ext)
	}
}

// pdfText extracts the plain text content of a PDF file.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}
