package editor

// NoticeLevel tells the shell how to present a notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient user-visible message.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Shell is the UI around the engine: toolbar state, loading overlay, toasts.
type Shell interface {
	ModeChanged(mode Mode)
	ShowLoading(show bool)
	Notify(n Notice)
}

// OrbitControl is the camera controller that drags must suspend.
type OrbitControl interface {
	SetEnabled(enabled bool)
}

type nopShell struct{}

func (nopShell) ModeChanged(Mode) {}
func (nopShell) ShowLoading(bool) {}
func (nopShell) Notify(Notice)    {}

type nopOrbit struct{}

func (nopOrbit) SetEnabled(bool) {}
