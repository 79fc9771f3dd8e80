package vic3d

// Key and mouse button codes used to index the Input arrays.
const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	KeyRightShift
	KeyRightControl
	KeyRightAlt
	KeyPageUp
	KeyPageDown
	KeyHome
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Input is the keyboard and mouse state of one tick. A producer (GlfwInput,
// or a test) fills it before every Scene.Tick; the scene only reads it.
// Mouse coordinates are window pixels, origin top left, y down.
type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	// wheel notches since the last tick, positive away from the user
	Scroll float64

	WindowWidth, WindowHeight int
	CharBuffer                []rune
}

// Advance starts a new tick: edge flags, deltas and the wheel are cleared,
// held keys stay held.
func (in *Input) Advance() {
	in.JustPressed = [256]bool{}
	in.JustReleased = [256]bool{}
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
	in.Scroll = 0
	in.CharBuffer = in.CharBuffer[:0]
}

// Press marks key as pressed in the current tick.
func (in *Input) Press(key int) {
	if !in.Pressed[key] {
		in.JustPressed[key] = true
	}
	in.Pressed[key] = true
}

// Release marks key as released in the current tick.
func (in *Input) Release(key int) {
	if in.Pressed[key] {
		in.JustReleased[key] = true
	}
	in.Pressed[key] = false
}

// MoveMouse sets the cursor position and adds the movement to the delta.
func (in *Input) MoveMouse(x, y float64) {
	in.MouseDeltaX += x - in.MouseX
	in.MouseDeltaY += y - in.MouseY
	in.MouseX, in.MouseY = x, y
}

// KeyShift, KeyControl and KeyLeftAlt are the left-hand modifiers; the
// queries below accept either side.
func (in *Input) Shift() bool   { return in.Pressed[KeyShift] || in.Pressed[KeyRightShift] }
func (in *Input) Control() bool { return in.Pressed[KeyControl] || in.Pressed[KeyRightControl] }
func (in *Input) Alt() bool     { return in.Pressed[KeyLeftAlt] || in.Pressed[KeyRightAlt] }
