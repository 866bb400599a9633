package admin

// Level はトースト通知の種類です。
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice は画面をブロックしない通知 (トースト) です。
type Notice struct {
	Level   Level
	Message string
}
