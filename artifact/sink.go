// Package artifact writes the files a hobbing run leaves behind: meshes and
// raster frames of the intermediate solids, videos made from the frames and
// DXF drawings of the tooth.
package artifact

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/soypat/gears/hob"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/render"
)

// Default output settings.
const (
	DefaultCells  = 96
	DefaultWidth  = 640
	DefaultHeight = 480
)

// StepName is the file name of the mesh of a step.
func StepName(step int) string { return fmt.Sprintf("step_%05d.stl", step) }

// FrameName is the file name of the raster frame of a step.
func FrameName(step int) string { return fmt.Sprintf("frame_%05d.png", step) }

// MeshSink writes an STL file of every observed solid to Dir.
type MeshSink struct {
	Kernel kernel.Kernel
	Dir    string
	// Cells is the meshing resolution along the longest side. Zero means DefaultCells.
	Cells int
}

var _ hob.StepSink = (*MeshSink)(nil)

// Observe meshes s and writes it as Dir/step_<step>.stl.
func (ms *MeshSink) Observe(step int, s kernel.Solid, _ *hob.Pose) error {
	if ms.Kernel == nil {
		return errors.New("artifact: mesh sink without kernel")
	}
	cells := ms.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	model, err := ms.Kernel.Mesh(s, cells)
	if err != nil {
		return fmt.Errorf("meshing step %d: %w", step, err)
	}
	return WriteMesh(filepath.Join(ms.Dir, StepName(step)), model)
}

// WriteMesh writes model to a binary STL file at path.
func WriteMesh(path string, model []render.Triangle3) error {
	if err := render.SaveSTL(path, model); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FrameSink renders every observed solid to a PNG in Dir. The camera is
// fixed from the bounds of the first observed solid, normally the blank,
// so frames of one run line up. A FrameSink serves a single simulation.
type FrameSink struct {
	Kernel kernel.Kernel
	Dir    string
	// Zero values select DefaultCells, DefaultWidth and DefaultHeight.
	Cells, Width, Height int

	view *render.View
}

var _ hob.StepSink = (*FrameSink)(nil)

// Observe renders s and writes it as Dir/frame_<step>.png.
func (fs *FrameSink) Observe(step int, s kernel.Solid, _ *hob.Pose) error {
	if fs.Kernel == nil {
		return errors.New("artifact: frame sink without kernel")
	}
	if fs.view == nil {
		v := render.NewView(s.Bounds())
		fs.view = &v
	}
	cells, width, height := fs.Cells, fs.Width, fs.Height
	if cells <= 0 {
		cells = DefaultCells
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	model, err := fs.Kernel.Mesh(s, cells)
	if err != nil {
		return fmt.Errorf("meshing step %d: %w", step, err)
	}
	img, err := render.ImageOf(model, *fs.view, width, height)
	if err != nil {
		return fmt.Errorf("rendering step %d: %w", step, err)
	}
	fp, err := os.Create(filepath.Join(fs.Dir, FrameName(step)))
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := png.Encode(fp, img); err != nil {
		return err
	}
	return fp.Close()
}

// View returns the camera fixed by the first observation.
func (fs *FrameSink) View() (render.View, bool) {
	if fs.view == nil {
		return render.View{}, false
	}
	return *fs.view, true
}

// Recorder keeps the step numbers and poses it observes. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	steps []int
	poses []hob.Pose
}

var _ hob.StepSink = (*Recorder)(nil)

// Observe records the step. The blank step has no pose.
func (r *Recorder) Observe(step int, _ kernel.Solid, pose *hob.Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
	if pose != nil {
		r.poses = append(r.poses, *pose)
	}
	return nil
}

// Steps returns the observed step numbers in order.
func (r *Recorder) Steps() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.steps...)
}

// Poses returns the poses of the observed cuts in order.
func (r *Recorder) Poses() []hob.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hob.Pose(nil), r.poses...)
}
