package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const prompt = "> "

const helpText = `Commands:
  upload <path>                 upload a PDF (max %s)
  ask <question>                ask a question about the uploaded PDF
  reset                         forget the current PDF and answer
  status                        show the current document and answer
  export <md|pdf|docx> <path>   save the last answer to a file
  help                          show this help
  quit                          exit`

// Flow is the part of flow.Flow the REPL drives.
type Flow interface {
	SelectFile(ctx context.Context, file *entity.UploadFile) error
	SubmitQuestion(ctx context.Context, text string) error
	Reset(ctx context.Context)
	View() flow.View
	Export() (*entity.AnswerExport, error)
}

// REPL is a line-oriented terminal front-end for a single flow.
type REPL struct {
	flow        Flow
	formatters  *formatter.Factory
	console     *Console
	in          io.Reader
	maxFileSize int64
	logger      *zap.Logger
}

func NewREPL(
	f Flow,
	formatters *formatter.Factory,
	console *Console,
	in io.Reader,
	maxFileSize int64,
	logger *zap.Logger,
) *REPL {
	return &REPL{
		flow:        f,
		formatters:  formatters,
		console:     console,
		in:          in,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Run reads commands until quit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctxzap.ToContext(ctx, r.logger))
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	r.console.Println("PDF Q&A. Type 'help' for commands.")
	r.console.Printf(prompt)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := r.execute(ctx, line); quit {
				return nil
			}
			r.console.Printf(prompt)
		}
	}
}

// execute runs one command line and reports whether the REPL should exit.
func (r *REPL) execute(ctx context.Context, line string) bool {
	command, args := splitCommand(line)

	switch command {
	case "":
	case "upload":
		r.upload(ctx, args)
	case "ask":
		r.ask(ctx, args)
	case "reset":
		r.flow.Reset(ctx)
	case "status":
		r.status()
	case "export":
		r.export(args)
	case "help":
		r.console.Println(fmt.Sprintf(helpText, flow.FormatSize(r.maxFileSize)))
	case "quit", "exit":
		return true
	default:
		r.console.Printf("Unknown command %q. Type 'help' for commands.\n", command)
	}

	return false
}

func (r *REPL) upload(ctx context.Context, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		r.console.Println("Usage: upload <path>")
		return
	}

	info, err := os.Stat(path)
	if err == nil && r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		ctxzap.Warn(ctx, "file rejected before reading",
			zap.String("path", path),
			zap.Int64("size", info.Size()),
		)
		r.console.Notify(ctx, entity.Notification{
			Type:        entity.NotificationError,
			Title:       flow.TitleError,
			Description: flow.ValidationMessage(entity.ErrFileTooLarge, r.maxFileSize),
		})
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		ctxzap.Warn(ctx, "failed to read file", zap.String("path", path), zap.Error(err))
		r.console.Printf("Cannot read %s: %v\n", path, err)
		return
	}

	err = r.flow.SelectFile(ctx, entity.NewUploadFile(filepath.Base(path), content))
	r.printFlowError(err)
}

func (r *REPL) ask(ctx context.Context, question string) {
	if !r.flow.View().HasDocument() {
		r.console.Println("No PDF loaded. Use: upload <path>")
		return
	}
	if strings.TrimSpace(question) == "" {
		r.console.Println("Usage: ask <question>")
		return
	}

	if err := r.flow.SubmitQuestion(ctx, question); err != nil {
		r.printFlowError(err)
		return
	}

	r.printAnswer(r.flow.View())
}

func (r *REPL) status() {
	v := r.flow.View()

	r.console.Printf("State: %s\n", v.State)
	if v.Loading {
		r.console.Printf("Loading: %s in progress\n", v.Operation)
	}
	if !v.HasDocument() {
		r.console.Println("No PDF loaded.")
		return
	}

	r.console.Printf("Document: %s (%s)\n", v.Filename, v.DocumentID)
	if v.Question != "" {
		r.console.Printf("Question: %s\n", v.Question)
	}
	r.printAnswer(v)
}

func (r *REPL) export(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		r.console.Println("Usage: export <md|pdf|docx> <path>")
		return
	}

	format, err := entity.ParseResultFormat(fields[0])
	if err != nil {
		r.console.Printf("Unsupported format %q. Use md, pdf or docx.\n", fields[0])
		return
	}

	path, err := r.exportTo(format, fields[1])
	if err != nil {
		if errors.Is(err, entity.ErrNoResult) {
			r.console.Println("Nothing to export yet. Ask a question first.")
			return
		}
		r.console.Printf("Export failed: %v\n", err)
		return
	}

	r.console.Printf("Saved %s\n", path)
}

func (r *REPL) exportTo(format entity.ResultFormat, path string) (string, error) {
	export, err := r.flow.Export()
	if err != nil {
		return "", err
	}

	f, err := r.formatters.Create(format)
	if err != nil {
		return "", err
	}

	data, err := f.Format(export)
	if err != nil {
		return "", fmt.Errorf("format %s: %w", format, err)
	}

	if filepath.Ext(path) == "" {
		path += f.FileExtension()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (r *REPL) printAnswer(v flow.View) {
	if v.Result == nil {
		return
	}
	r.console.Printf("Answer: %s\nConfidence: %s\nSource: %s\n", v.Result.Answer, v.Confidence(), v.Result.Source)
}

// printFlowError prints errors the flow did not already report through a
// notification.
func (r *REPL) printFlowError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrDocumentLoaded):
		r.console.Println("A PDF is already loaded. Use 'reset' first.")
	case errors.Is(err, entity.ErrRequestInFlight):
		r.console.Println("Another request is in progress.")
	}
}

// splitCommand separates the command word from the raw remainder of the line.
func splitCommand(line string) (string, string) {
	line = strings.TrimLeft(line, " \t")
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return strings.ToLower(strings.TrimSpace(line)), ""
	}
	return strings.ToLower(line[:i]), line[i+1:]
}
