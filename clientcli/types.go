package clientcli

import "github.com/sagarc03/todos"

// AttachResult describes a finished attachment upload.
type AttachResult struct {
	ItemID        string `json:"itemId"`
	LocalPath     string `json:"localPath"`
	ContentType   string `json:"contentType"`
	Size          int64  `json:"sizeBytes"`
	AttachmentURL string `json:"attachmentUrl"`
}

type itemEnvelope struct {
	Item todos.Item `json:"item"`
}

type listEnvelope struct {
	Items []todos.Item `json:"items"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
