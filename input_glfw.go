package vic3d

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// GlfwInput polls a glfw window into an Input once per frame.
type GlfwInput struct {
	Window *glfw.Window
	Input  Input

	scroll    float64
	chars     []rune
	installed bool
}

func NewGlfwInput(w *glfw.Window) *GlfwInput {
	return &GlfwInput{Window: w}
}

func (g *GlfwInput) install() {
	if g.installed {
		return
	}
	g.Window.SetCharCallback(func(w *glfw.Window, char rune) {
		g.chars = append(g.chars, char)
	})
	g.Window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		g.scroll += yoff
	})
	g.installed = true
}

func (g *GlfwInput) update(key int, action glfw.Action) {
	switch action {
	case glfw.Press, glfw.Repeat:
		g.Input.Press(key)
	case glfw.Release:
		g.Input.Release(key)
	}
}

// Poll processes pending window events and returns the state for this tick.
func (g *GlfwInput) Poll() *Input {
	g.install()
	in := &g.Input
	in.Advance()

	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		g.update(key, g.Window.GetKey(glfwKey))
	}

	mx, my := g.Window.GetCursorPos()
	in.MoveMouse(mx, my)
	in.Scroll, g.scroll = g.scroll, 0
	in.CharBuffer, g.chars = append(in.CharBuffer, g.chars...), g.chars[:0]

	in.WindowWidth, in.WindowHeight = g.Window.GetSize()

	for btn := MouseButtonLeft; btn <= MouseButtonMiddle; btn++ {
		var glfwBtn glfw.MouseButton
		switch btn {
		case MouseButtonLeft:
			glfwBtn = glfw.MouseButtonLeft
		case MouseButtonRight:
			glfwBtn = glfw.MouseButtonRight
		case MouseButtonMiddle:
			glfwBtn = glfw.MouseButtonMiddle
		}
		g.update(btn, g.Window.GetMouseButton(glfwBtn))
	}
	return in
}

// WarpCursor moves the cursor without producing a mouse delta.
func (g *GlfwInput) WarpCursor(x, y float64) {
	g.Window.SetCursorPos(x, y)
	g.Input.MouseX, g.Input.MouseY = x, y
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:            glfw.KeyA,
	KeyB:            glfw.KeyB,
	KeyC:            glfw.KeyC,
	KeyD:            glfw.KeyD,
	KeyE:            glfw.KeyE,
	KeyF:            glfw.KeyF,
	KeyG:            glfw.KeyG,
	KeyH:            glfw.KeyH,
	KeyI:            glfw.KeyI,
	KeyJ:            glfw.KeyJ,
	KeyK:            glfw.KeyK,
	KeyL:            glfw.KeyL,
	KeyM:            glfw.KeyM,
	KeyN:            glfw.KeyN,
	KeyO:            glfw.KeyO,
	KeyP:            glfw.KeyP,
	KeyQ:            glfw.KeyQ,
	KeyR:            glfw.KeyR,
	KeyS:            glfw.KeyS,
	KeyT:            glfw.KeyT,
	KeyU:            glfw.KeyU,
	KeyV:            glfw.KeyV,
	KeyW:            glfw.KeyW,
	KeyX:            glfw.KeyX,
	KeyY:            glfw.KeyY,
	KeyZ:            glfw.KeyZ,
	Key0:            glfw.Key0,
	Key1:            glfw.Key1,
	Key2:            glfw.Key2,
	Key3:            glfw.Key3,
	Key4:            glfw.Key4,
	Key5:            glfw.Key5,
	Key6:            glfw.Key6,
	Key7:            glfw.Key7,
	Key8:            glfw.Key8,
	Key9:            glfw.Key9,
	KeySpace:        glfw.KeySpace,
	KeyEnter:        glfw.KeyEnter,
	KeyEscape:       glfw.KeyEscape,
	KeyTab:          glfw.KeyTab,
	KeyBackspace:    glfw.KeyBackspace,
	KeyInsert:       glfw.KeyInsert,
	KeyDelete:       glfw.KeyDelete,
	KeyRight:        glfw.KeyRight,
	KeyLeft:         glfw.KeyLeft,
	KeyDown:         glfw.KeyDown,
	KeyUp:           glfw.KeyUp,
	KeyF1:           glfw.KeyF1,
	KeyF2:           glfw.KeyF2,
	KeyF3:           glfw.KeyF3,
	KeyF4:           glfw.KeyF4,
	KeyF5:           glfw.KeyF5,
	KeyF6:           glfw.KeyF6,
	KeyF7:           glfw.KeyF7,
	KeyF8:           glfw.KeyF8,
	KeyF9:           glfw.KeyF9,
	KeyF10:          glfw.KeyF10,
	KeyF11:          glfw.KeyF11,
	KeyF12:          glfw.KeyF12,
	KeyMinus:        glfw.KeyMinus,
	KeyEqual:        glfw.KeyEqual,
	KeyKPPlus:       glfw.KeyKPAdd,
	KeyKPMinus:      glfw.KeyKPSubtract,
	KeyShift:        glfw.KeyLeftShift,
	KeyControl:      glfw.KeyLeftControl,
	KeyLeftAlt:      glfw.KeyLeftAlt,
	KeyRightShift:   glfw.KeyRightShift,
	KeyRightControl: glfw.KeyRightControl,
	KeyRightAlt:     glfw.KeyRightAlt,
	KeyPageUp:       glfw.KeyPageUp,
	KeyPageDown:     glfw.KeyPageDown,
	KeyHome:         glfw.KeyHome,
}
