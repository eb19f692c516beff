package clipboard

//go:generate mockgen -source=interfaces.go -destination=../mock/clipboard_mock.go -package=mock

// Writer is the system clipboard as seen by the Guard.
type Writer interface {
	// WriteAll replaces the clipboard content with text.
	WriteAll(text string) error
	// ReadAll returns the current clipboard content.
	ReadAll() (string, error)
}
