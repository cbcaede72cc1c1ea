package entity

// DocumentReference is the opaque handle the backend returns for an uploaded PDF.
type DocumentReference struct {
	ID string `json:"id"`
}

// UploadFile is a file handed to the flow by a front-end.
type UploadFile struct {
	Name    string
	Size    int64
	Content []byte
}

// NewUploadFile builds an UploadFile from in-memory content.
func NewUploadFile(name string, content []byte) *UploadFile {
	return &UploadFile{
		Name:    name,
		Size:    int64(len(content)),
		Content: content,
	}
}

type AskRequest struct {
	PdfID    string `json:"pdfId"`
	Question string `json:"question"`
}

// QAResult is the answer returned for a question against a document.
type QAResult struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// ErrorResponse is the error body shared by every backend endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
