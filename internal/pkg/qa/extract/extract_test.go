package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/extract"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

func TestTextPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello questionnaire"), 0o600))

	text, err := extract.Text(path, "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello questionnaire", text)
}

func TestTextMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\n\nbody"), 0o600))

	text, err := extract.Text(path, "notes.md")
	require.NoError(t, err)
	assert.Contains(t, text, "Heading")
}

func TestTextUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o600))

	_, err := extract.Text(path, "sheet.xlsx")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrUnsupportedFormat.Code))
}

func TestTextFileNotFound(t *testing.T) {
	_, err := extract.Text("/nonexistent/nope.txt", "nope.txt")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrFileNotFound.Code))
}
