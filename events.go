package vic3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/buffers"
	"github.com/simvicus/vic3d/view3d/project"
)

type EventKind int

const (
	SelectionChanged EventKind = iota
	GeometryChanged
	VisibilityChanged
	ColorModeChanged
	NavigationModeChanged
	OperationModeChanged
	TransformPreview
	VerticesPlaced
	MeasurementDone
	BuffersRegenerated
	InputRejected
)

func (k EventKind) String() string {
	switch k {
	case SelectionChanged:
		return "SelectionChanged"
	case GeometryChanged:
		return "GeometryChanged"
	case VisibilityChanged:
		return "VisibilityChanged"
	case ColorModeChanged:
		return "ColorModeChanged"
	case NavigationModeChanged:
		return "NavigationModeChanged"
	case OperationModeChanged:
		return "OperationModeChanged"
	case TransformPreview:
		return "TransformPreview"
	case VerticesPlaced:
		return "VerticesPlaced"
	case MeasurementDone:
		return "MeasurementDone"
	case BuffersRegenerated:
		return "BuffersRegenerated"
	case InputRejected:
		return "InputRejected"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Preview is the live transformation of the selection while a gizmo
// sub-mode is active. Nothing is committed until the mode ends.
type Preview struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Pivot       mgl64.Vec3
	Scale       mgl64.Vec3
}

// Event is delivered synchronously to subscribers. Only the fields
// relevant for Kind are set.
type Event struct {
	Kind EventKind

	Navigation NavigationMode
	Operation  OperationMode
	ColorMode  buffers.ColorMode

	Preview  Preview
	Vertices []mgl64.Vec3
	Distance float64
	IDs      []project.ID
	Err      error
}

type subscriber struct {
	id int
	fn func(Event)
}

// Events is a synchronous observer list.
type Events struct {
	subs   []subscriber
	nextID int
}

// Subscribe registers fn and returns a function that removes it again.
func (e *Events) Subscribe(fn func(Event)) func() {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber in subscription order.
func (e *Events) Emit(ev Event) {
	// a subscriber may unsubscribe while being called
	subs := append([]subscriber(nil), e.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}

func (e *Events) Len() int { return len(e.subs) }
