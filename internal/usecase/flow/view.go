package flow

import "github.com/futig/pdfqa/internal/entity"

// View is an immutable snapshot of a Flow.
type View struct {
	State      State
	DocumentID string
	Filename   string
	Question   string
	Result     *entity.QAResult
	Loading    bool
	Operation  string
}

func (v View) HasDocument() bool {
	return v.DocumentID != ""
}

// CanAsk reports whether the ask control should be enabled.
func (v View) CanAsk() bool {
	return v.HasDocument() && !v.Loading
}

// Confidence returns the formatted confidence of the last answer, or "".
func (v View) Confidence() string {
	if v.Result == nil {
		return ""
	}
	return FormatConfidence(v.Result.Confidence)
}
