package render

import (
	"testing"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/stretchr/testify/assert"
)

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		in   entity.Notification
		want string
	}{
		{
			in:   entity.Notification{Type: entity.NotificationSuccess, Title: flow.TitleSuccess, Description: flow.MsgUploaded},
			want: "✅ PDF uploaded successfully",
		},
		{
			in:   entity.Notification{Type: entity.NotificationSuccess, Title: flow.TitleReset, Description: flow.MsgReset},
			want: "🔄 Ready to upload a new PDF",
		},
		{
			in:   entity.Notification{Type: entity.NotificationError, Title: flow.TitleError, Description: "Failed to connect to the server"},
			want: "❌ Failed to connect to the server",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderNotification(tt.in))
	}
}

func TestRenderAnswerAndStatus(t *testing.T) {
	v := flow.View{
		State:      flow.StateAnswered,
		DocumentID: "doc-123",
		Filename:   "report.pdf",
		Question:   "What?",
		Result:     &entity.QAResult{Answer: "X", Confidence: 0.92, Source: "Page 3, Section 2.1"},
	}

	answer := RenderAnswer(v)
	assert.Equal(t, "💡 X\n\n📊 Confidence: 92.0%\n📍 Source: Page 3, Section 2.1", answer)

	status := RenderStatus(v)
	assert.Contains(t, status, "📄 Document: report.pdf")
	assert.Contains(t, status, "❓ What?")
	assert.Contains(t, status, answer)

	assert.Equal(t, MsgStatusEmpty, RenderStatus(flow.View{State: flow.StateNoDocument}))
	assert.Empty(t, RenderAnswer(flow.View{}))
}

func TestRenderHelp(t *testing.T) {
	assert.Contains(t, RenderHelp(10485760), "up to 10 MB")
	assert.Contains(t, RenderWelcome(10485760), "up to 10 MB")
}
