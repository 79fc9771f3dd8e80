package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/simvicus/vic3d/view3d/buffers"
)

// Headroom added when a buffer has to grow, so small edits do not
// reallocate every time.
const (
	HeadroomVertices = 64 * 1024
	HeadroomIndices  = 32 * 1024
)

// ensureBuffer writes data into *buf, recreating the buffer when it is
// missing or too small. It reports whether a new buffer was created.
func ensureBuffer(device *wgpu.Device, name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	created := false
	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
			*buf = nil
		}
		newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("create %s: %w", name, err)
		}
		*buf = newBuf
		created = true
	}
	if len(data) > 0 {
		device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return created, nil
}

// BufferSet holds the GPU copy of one buffers.Buffers.
type BufferSet struct {
	Device *wgpu.Device
	Label  string

	VertexBuf *wgpu.Buffer
	IndexBuf  *wgpu.Buffer

	Opaque      DrawRange
	Transparent DrawRange

	// Generation counts uploads; renderers compare it to skip rebinding.
	Generation uint64
}

func NewBufferSet(device *wgpu.Device, label string) *BufferSet {
	return &BufferSet{Device: device, Label: label}
}

// Upload replaces the GPU contents with b. It reports whether any buffer
// was reallocated.
func (s *BufferSet) Upload(b *buffers.Buffers) (bool, error) {
	s.Opaque, s.Transparent = Ranges(b)
	s.Generation++
	if b.Empty() {
		return false, nil
	}
	v, err := ensureBuffer(s.Device, s.Label+"Vertices", &s.VertexBuf, EncodeVertices(b), wgpu.BufferUsageVertex, HeadroomVertices)
	if err != nil {
		return false, err
	}
	i, err := ensureBuffer(s.Device, s.Label+"Indices", &s.IndexBuf, EncodeIndices(b.Indices), wgpu.BufferUsageIndex, HeadroomIndices)
	if err != nil {
		return v, err
	}
	return v || i, nil
}

// Draw issues the opaque or the transparent range. The pipeline and bind
// groups are set by the caller.
func (s *BufferSet) Draw(pass *wgpu.RenderPassEncoder, transparent bool) {
	r := s.Opaque
	if transparent {
		r = s.Transparent
	}
	if r.Empty() || s.VertexBuf == nil || s.IndexBuf == nil {
		return
	}
	pass.SetVertexBuffer(0, s.VertexBuf, 0, s.VertexBuf.GetSize())
	pass.SetIndexBuffer(s.IndexBuf, wgpu.IndexFormatUint32, 0, s.IndexBuf.GetSize())
	pass.DrawIndexed(r.Count, 1, r.First, 0, 0)
}

func (s *BufferSet) Release() {
	if s.VertexBuf != nil {
		s.VertexBuf.Release()
		s.VertexBuf = nil
	}
	if s.IndexBuf != nil {
		s.IndexBuf.Release()
		s.IndexBuf = nil
	}
	s.Opaque, s.Transparent = DrawRange{}, DrawRange{}
}

// LineSet holds a line list (grid or gizmo).
type LineSet struct {
	Device *wgpu.Device
	Label  string

	VertexBuf   *wgpu.Buffer
	VertexCount uint32
}

func (s *LineSet) Upload(lines []LineVertex) error {
	s.VertexCount = uint32(len(lines))
	if len(lines) == 0 {
		return nil
	}
	_, err := ensureBuffer(s.Device, s.Label+"LineVertices", &s.VertexBuf, EncodeLines(lines), wgpu.BufferUsageVertex, 0)
	return err
}

func (s *LineSet) Draw(pass *wgpu.RenderPassEncoder) {
	if s.VertexCount == 0 || s.VertexBuf == nil {
		return
	}
	pass.SetVertexBuffer(0, s.VertexBuf, 0, s.VertexBuf.GetSize())
	pass.Draw(s.VertexCount, 1, 0, 0)
}

func (s *LineSet) Release() {
	if s.VertexBuf != nil {
		s.VertexBuf.Release()
		s.VertexBuf = nil
	}
	s.VertexCount = 0
}
