package render

import (
	"fmt"
	"strings"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/usecase/flow"
)

const (
	// Welcome messages
	MsgWelcome = `👋 Hi! Send me a PDF (up to %s) and ask questions about it.

I answer with a confidence score and the place in the document the answer comes from.`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/help - Show this help
/reset - Forget the current PDF
/status - Show the current PDF and the last answer
/export [md|pdf|docx] - Download the last answer

How it works:
1. Send a PDF document (up to %s)
2. Ask a question as a plain text message
3. Get the answer, its confidence and source`

	// Guidance
	MsgNoDocument         = `📄 Send me a PDF document first.`
	MsgDocumentLoaded     = `📄 A PDF is already loaded. Use /reset to start over with a new one.`
	MsgBusy               = `⏳ Still working on your previous request. Please wait.`
	MsgNothingToExport    = `❌ Nothing to export yet. Ask a question first.`
	MsgUnsupportedFormat  = `❌ Unsupported format. Use /export md, /export pdf or /export docx.`
	MsgUnsupportedMessage = `Send me a PDF document or a question about it.`

	// Status
	MsgStatusEmpty = `📭 No PDF loaded. Send me one to start.`

	// Errors
	ErrGeneric        = `❌ Something went wrong. Please try again or use /reset`
	ErrDownload       = `❌ Could not download the file from Telegram. Please send it again.`
	ErrTimeout        = `❌ The request took too long. Please try again.`
	ErrUnknownCommand = `❌ Unknown command. Use /help`
	ErrRateLimited    = `⚠️ Too many requests. Please wait a moment.`
)

// RenderWelcome formats the welcome message with the upload limit.
func RenderWelcome(maxFileSize int64) string {
	return fmt.Sprintf(MsgWelcome, flow.FormatSize(maxFileSize))
}

// RenderHelp formats the help message with the upload limit.
func RenderHelp(maxFileSize int64) string {
	return fmt.Sprintf(MsgHelp, flow.FormatSize(maxFileSize))
}

// RenderNotification turns a flow notification into a chat message.
func RenderNotification(n entity.Notification) string {
	if n.Type == entity.NotificationError {
		return RenderError(n.Description)
	}
	if n.Title == flow.TitleReset {
		return "🔄 " + n.Description
	}
	return "✅ " + n.Description
}

// RenderError formats a user-facing error text.
func RenderError(text string) string {
	return "❌ " + text
}

// RenderAnswer formats the last answer of a flow.
func RenderAnswer(v flow.View) string {
	if v.Result == nil {
		return ""
	}

	return fmt.Sprintf("💡 %s\n\n📊 Confidence: %s\n📍 Source: %s",
		v.Result.Answer, v.Confidence(), v.Result.Source)
}

// RenderStatus describes the current document, pending request and answer.
func RenderStatus(v flow.View) string {
	if !v.HasDocument() {
		if v.Loading {
			return "⏳ Uploading your PDF..."
		}
		return MsgStatusEmpty
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 Document: %s\n🆔 %s", v.Filename, v.DocumentID)
	if v.Loading {
		sb.WriteString("\n⏳ Working on your question...")
	}
	if v.Question != "" {
		fmt.Fprintf(&sb, "\n\n❓ %s", v.Question)
	}
	if v.Result != nil {
		sb.WriteString("\n\n")
		sb.WriteString(RenderAnswer(v))
	}
	return sb.String()
}
