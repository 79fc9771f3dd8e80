package undo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simvicus/vic3d/view3d/project"
)

func checkIDs(p *project.Project, ids []project.ID) error {
	for _, id := range ids {
		if _, ok := p.Lookup(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownID, id)
		}
	}
	return nil
}

func withChildren(p *project.Project, ids []project.ID) []project.ID {
	seen := make(map[project.ID]bool, len(ids))
	var out []project.ID
	add := func(id project.ID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		add(id)
		for _, c := range p.Children(id, true) {
			add(c)
		}
	}
	return out
}

type flagState struct {
	id       project.ID
	on       bool
	selected bool
}

// SelectObjects sets the selection flag of IDs, optionally carrying all
// descendants along. An exclusive selection first clears every other
// selected object.
type SelectObjects struct {
	header
	IDs             []project.ID
	Select          bool
	IncludeChildren bool
	Exclusive       bool

	prev []flagState
}

func NewSelectObjects(ids []project.ID, sel, includeChildren bool) *SelectObjects {
	desc := "Select objects"
	if !sel {
		desc = "Deselect objects"
	}
	return &SelectObjects{
		header:          newHeader(desc),
		IDs:             append([]project.ID(nil), ids...),
		Select:          sel,
		IncludeChildren: includeChildren,
	}
}

func (c *SelectObjects) Changes() Change { return ChangeSelection }

// Targets returns the IDs the command will touch.
func (c *SelectObjects) Targets(p *project.Project) []project.ID {
	if c.IncludeChildren {
		return withChildren(p, c.IDs)
	}
	return c.IDs
}

func (c *SelectObjects) Redo(p *project.Project) error {
	if err := checkIDs(p, c.IDs); err != nil {
		return err
	}
	ids := c.Targets(p)
	c.prev = c.prev[:0]
	if c.Exclusive {
		keep := make(map[project.ID]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		for _, id := range p.SelectedIDs() {
			if !keep[id] {
				c.prev = append(c.prev, flagState{id: id, on: true})
				p.SetSelected([]project.ID{id}, false)
			}
		}
	}
	for _, id := range ids {
		r, _ := p.Lookup(id)
		c.prev = append(c.prev, flagState{id: id, on: r.Object().Selected})
	}
	p.SetSelected(ids, c.Select)
	return nil
}

func (c *SelectObjects) Undo(p *project.Project) error {
	for _, s := range c.prev {
		p.SetSelected([]project.ID{s.id}, s.on)
	}
	return nil
}

// DeselectAll clears the selection.
type DeselectAll struct {
	header
	prev []project.ID
}

func NewDeselectAll() *DeselectAll {
	return &DeselectAll{header: newHeader("Deselect all")}
}

func (c *DeselectAll) Changes() Change { return ChangeSelection }

func (c *DeselectAll) Redo(p *project.Project) error {
	c.prev = p.SelectedIDs()
	p.SetSelected(c.prev, false)
	return nil
}

func (c *DeselectAll) Undo(p *project.Project) error {
	p.SetSelected(c.prev, true)
	return nil
}

// SetVisibility shows or hides objects together with their descendants.
type SetVisibility struct {
	header
	IDs     []project.ID
	Visible bool

	prev []flagState
}

func NewSetVisibility(ids []project.ID, visible bool) *SetVisibility {
	desc := "Show objects"
	if !visible {
		desc = "Hide objects"
	}
	return &SetVisibility{
		header:  newHeader(desc),
		IDs:     append([]project.ID(nil), ids...),
		Visible: visible,
	}
}

func (c *SetVisibility) Changes() Change { return ChangeVisibility | ChangeSelection }

func (c *SetVisibility) Redo(p *project.Project) error {
	if len(c.IDs) == 0 {
		return ErrEmptySelection
	}
	if err := checkIDs(p, c.IDs); err != nil {
		return err
	}
	ids := withChildren(p, c.IDs)
	c.prev = c.prev[:0]
	for _, id := range ids {
		r, _ := p.Lookup(id)
		c.prev = append(c.prev, flagState{id: id, on: r.Object().Visible, selected: r.Object().Selected})
	}
	p.SetVisible(ids, c.Visible)
	if !c.Visible {
		// hidden objects cannot stay selected
		p.SetSelected(ids, false)
	}
	return nil
}

func (c *SetVisibility) Undo(p *project.Project) error {
	for _, s := range c.prev {
		p.SetVisible([]project.ID{s.id}, s.on)
		p.SetSelected([]project.ID{s.id}, s.selected)
	}
	return nil
}

// TransformKind selects which part of CommitTransform applies.
type TransformKind int

const (
	Translate TransformKind = iota
	Rotate
	Scale
)

func (k TransformKind) String() string {
	switch k {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// CommitTransform applies the final gizmo transformation to the points of
// the given objects.
//
// Translate moves by Translation. Rotate turns by Rotation around Pivot.
// Scale multiplies the coordinates along the axes of Frame, measured from
// Pivot, by the components of Factors.
type CommitTransform struct {
	header
	IDs         []project.ID
	Kind        TransformKind
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Pivot       mgl64.Vec3
	Frame       mgl64.Quat
	Factors     mgl64.Vec3

	before project.Geometry
}

func NewTranslate(ids []project.ID, d mgl64.Vec3) *CommitTransform {
	return &CommitTransform{
		header:      newHeader("Translate geometry"),
		IDs:         append([]project.ID(nil), ids...),
		Kind:        Translate,
		Translation: d,
	}
}

func NewRotate(ids []project.ID, q mgl64.Quat, pivot mgl64.Vec3) *CommitTransform {
	return &CommitTransform{
		header:   newHeader("Rotate geometry"),
		IDs:      append([]project.ID(nil), ids...),
		Kind:     Rotate,
		Rotation: q,
		Pivot:    pivot,
	}
}

func NewScale(ids []project.ID, factors mgl64.Vec3, pivot mgl64.Vec3, frame mgl64.Quat) *CommitTransform {
	return &CommitTransform{
		header:  newHeader("Scale geometry"),
		IDs:     append([]project.ID(nil), ids...),
		Kind:    Scale,
		Factors: factors,
		Pivot:   pivot,
		Frame:   frame,
	}
}

func (c *CommitTransform) Changes() Change { return ChangeGeometry }

// Apply maps a single point.
func (c *CommitTransform) Apply(pt mgl64.Vec3) mgl64.Vec3 {
	switch c.Kind {
	case Translate:
		return pt.Add(c.Translation)
	case Rotate:
		return c.Pivot.Add(c.Rotation.Rotate(pt.Sub(c.Pivot)))
	case Scale:
		frame := c.Frame
		if frame.Len() == 0 {
			frame = mgl64.QuatIdent()
		}
		local := frame.Conjugate().Rotate(pt.Sub(c.Pivot))
		local = mgl64.Vec3{local[0] * c.Factors[0], local[1] * c.Factors[1], local[2] * c.Factors[2]}
		return c.Pivot.Add(frame.Rotate(local))
	}
	return pt
}

func (c *CommitTransform) Redo(p *project.Project) error {
	if len(c.IDs) == 0 {
		return ErrEmptySelection
	}
	if err := checkIDs(p, c.IDs); err != nil {
		return err
	}
	c.before = p.Snapshot()
	p.TransformPoints(c.IDs, c.Apply)
	return nil
}

func (c *CommitTransform) Undo(p *project.Project) error {
	p.Restore(c.before)
	return nil
}

// DeleteSelected removes all selected objects.
type DeleteSelected struct {
	header
	Deleted []project.ID

	before project.Geometry
}

func NewDeleteSelected() *DeleteSelected {
	return &DeleteSelected{header: newHeader("Delete selected objects")}
}

func (c *DeleteSelected) Changes() Change { return ChangeGeometry | ChangeSelection }

func (c *DeleteSelected) Redo(p *project.Project) error {
	ids := p.SelectedIDs()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	c.before = p.Snapshot()
	c.Deleted = ids
	p.Delete(ids)
	return nil
}

func (c *DeleteSelected) Undo(p *project.Project) error {
	p.Restore(c.before)
	return nil
}
