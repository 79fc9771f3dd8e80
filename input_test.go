package vic3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputEdges(t *testing.T) {
	var in Input
	in.Press(KeyW)
	assert.True(t, in.Pressed[KeyW])
	assert.True(t, in.JustPressed[KeyW])

	in.Advance()
	assert.True(t, in.Pressed[KeyW])
	assert.False(t, in.JustPressed[KeyW])

	// repeat while held is no new press
	in.Press(KeyW)
	assert.False(t, in.JustPressed[KeyW])

	in.Release(KeyW)
	assert.False(t, in.Pressed[KeyW])
	assert.True(t, in.JustReleased[KeyW])
	in.Advance()
	in.Release(KeyW)
	assert.False(t, in.JustReleased[KeyW])
}

func TestInputMouseDelta(t *testing.T) {
	in := Input{MouseX: 10, MouseY: 10}
	in.MoveMouse(15, 8)
	in.MoveMouse(20, 4)
	assert.Equal(t, 10.0, in.MouseDeltaX)
	assert.Equal(t, -6.0, in.MouseDeltaY)
	in.Scroll = 2
	in.CharBuffer = append(in.CharBuffer, '1')

	in.Advance()
	assert.Zero(t, in.MouseDeltaX)
	assert.Zero(t, in.MouseDeltaY)
	assert.Zero(t, in.Scroll)
	assert.Empty(t, in.CharBuffer)
	assert.Equal(t, 20.0, in.MouseX)
}

func TestInputModifiers(t *testing.T) {
	var in Input
	assert.False(t, in.Shift() || in.Control() || in.Alt())
	in.Press(KeyShift)
	in.Press(KeyLeftAlt)
	assert.True(t, in.Shift())
	assert.True(t, in.Alt())
	assert.False(t, in.Control())
}

func TestInputRightModifiers(t *testing.T) {
	var in Input
	in.Press(KeyRightShift)
	in.Press(KeyRightControl)
	in.Press(KeyRightAlt)
	assert.True(t, in.Shift())
	assert.True(t, in.Control())
	assert.True(t, in.Alt())

	// releasing one side keeps the modifier down while the other is held
	in.Press(KeyShift)
	in.Release(KeyRightShift)
	assert.True(t, in.Shift())
	in.Release(KeyShift)
	assert.False(t, in.Shift())
}
