package theme

// Style is how a note should look given its state
type Style int

const (
	Pending Style = iota
	Target
	Played
	Missed
)

type Theme interface {
	RenderNote(duration string, style Style) string
	RenderTargetLine() string
	RenderStaffLine() string
	RenderFeedback(feedback string) string
}
