package pipeline

// ProgressType represents different types of progress updates
type ProgressType int

const (
	ProgressStep ProgressType = iota
	ProgressComplete
	ProgressError
)

// ProgressUpdate represents a progress update from a pipeline run. Percent is
// monotonically non-decreasing within one run.
type ProgressUpdate struct {
	Type    ProgressType
	Stage   string
	Message string
	Percent int
	Error   error
}

// ProgressWriter is an interface for handling progress updates
type ProgressWriter interface {
	WriteProgress(update ProgressUpdate) error
}

// ProgressFunc adapts a plain callback to the ProgressWriter interface
type ProgressFunc func(stage, message string, percent int)

func (f ProgressFunc) WriteProgress(update ProgressUpdate) error {
	if f != nil {
		f(update.Stage, update.Message, update.Percent)
	}
	return nil
}

// channelProgressWriter implements ProgressWriter by sending updates to a channel
type channelProgressWriter struct {
	ch chan<- ProgressUpdate
}

func NewChannelProgressWriter(ch chan<- ProgressUpdate) ProgressWriter {
	return &channelProgressWriter{ch: ch}
}

func (w *channelProgressWriter) WriteProgress(update ProgressUpdate) error {
	w.ch <- update
	return nil
}
