package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/pkg/validator"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBackend struct {
	uploads int
	asks    []string
}

func (b *stubBackend) UploadDocument(context.Context, *entity.UploadFile) (*entity.DocumentReference, error) {
	b.uploads++
	return &entity.DocumentReference{ID: "doc-123"}, nil
}

func (b *stubBackend) AskQuestion(_ context.Context, _, question string) (*entity.QAResult, error) {
	b.asks = append(b.asks, question)
	return &entity.QAResult{Answer: "X", Confidence: 0.95, Source: "Page 1"}, nil
}

func runREPL(t *testing.T, backend flow.Backend, script string) string {
	t.Helper()

	var out bytes.Buffer
	console := NewConsole(&out)
	const maxSize = 10485760
	f := flow.New(backend, validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: maxSize}), console, zap.NewNop())

	repl := NewREPL(f, formatter.NewFactory(), console, strings.NewReader(script), maxSize, zap.NewNop())
	require.NoError(t, repl.Run(context.Background()))

	return out.String()
}

func TestREPL_UploadAskExportReset(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7\ncontent"), 0o644))
	exportPath := filepath.Join(dir, "answer")

	backend := &stubBackend{}
	script := strings.Join([]string{
		"upload " + pdfPath,
		"ask What is the main conclusion?",
		"status",
		"export md " + exportPath,
		"reset",
		"status",
		"bogus",
		"quit",
		"ask never sent",
	}, "\n")

	out := runREPL(t, backend, script)

	assert.Contains(t, out, "[Success] PDF uploaded successfully")
	assert.Contains(t, out, "[Success] Answer generated successfully")
	assert.Contains(t, out, "Answer: X\nConfidence: 95.0%\nSource: Page 1\n")
	assert.Contains(t, out, "Document: report.pdf (doc-123)")
	assert.Contains(t, out, "Saved "+exportPath+".md")
	assert.Contains(t, out, "[Reset] Ready to upload a new PDF")
	assert.Contains(t, out, "No PDF loaded.")
	assert.Contains(t, out, `Unknown command "bogus"`)
	assert.Equal(t, []string{"What is the main conclusion?"}, backend.asks)

	exported, err := os.ReadFile(exportPath + ".md")
	require.NoError(t, err)
	assert.Contains(t, string(exported), "What is the main conclusion?")
	assert.Contains(t, string(exported), "95.0%")
}

func TestREPL_RejectsAndGuides(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("plain text"), 0o644))

	backend := &stubBackend{}
	script := strings.Join([]string{
		"ask anything?",
		"upload " + txtPath,
		"upload " + filepath.Join(dir, "missing.pdf"),
		"export md " + filepath.Join(dir, "out"),
		"export html " + filepath.Join(dir, "out"),
		"help",
	}, "\n")

	out := runREPL(t, backend, script)

	assert.Contains(t, out, "No PDF loaded. Use: upload <path>")
	assert.Contains(t, out, "[Error] Only PDF files are accepted")
	assert.Contains(t, out, "Cannot read")
	assert.Contains(t, out, "Nothing to export yet. Ask a question first.")
	assert.Contains(t, out, `Unsupported format "html"`)
	assert.Contains(t, out, "upload a PDF (max 10 MB)")
	assert.Empty(t, backend.asks)
}

func TestREPL_SecondUploadNeedsReset(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))

	out := runREPL(t, &stubBackend{}, "upload "+pdfPath+"\nupload "+pdfPath+"\n")

	assert.Equal(t, 1, strings.Count(out, "[Success] PDF uploaded successfully"))
	assert.Contains(t, out, "A PDF is already loaded. Use 'reset' first.")
}

func TestREPL_OversizedFileIsNotRead(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "huge.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7\n"), 0o644))
	require.NoError(t, os.Truncate(pdfPath, 10485761))

	backend := &stubBackend{}
	out := runREPL(t, backend, "upload "+pdfPath+"\nstatus\n")

	assert.Contains(t, out, "[Error] File is too large. Maximum size is 10 MB")
	assert.Contains(t, out, "State: NO_DOCUMENT")
	assert.Zero(t, backend.uploads)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line, command, rest string
	}{
		{"ask What is it?", "ask", "What is it?"},
		{"  UPLOAD\t/tmp/a.pdf", "upload", "/tmp/a.pdf"},
		{"status", "status", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		command, rest := splitCommand(tt.line)
		assert.Equal(t, tt.command, command)
		assert.Equal(t, tt.rest, rest)
	}
}
