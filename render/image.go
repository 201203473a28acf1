package render

import (
	"errors"
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/gears/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View is a fixed camera for rendering meshes to images. Scene coordinates
// are normalized by Frame so that consecutive renders of a changing solid
// share the same framing.
type View struct {
	// Frame is the scene region mapped to the [-1, 1] cube.
	Frame r3.Box
	// Eye, Center and Up are given in normalized coordinates.
	Eye, Center, Up r3.Vec
	Fovy            float64 // vertical field of view in degrees
	Near, Far       float64
	// Supersample renders at a larger size and downscales. Zero means 1.
	Supersample int
}

// NewView returns a View looking at the frame box from above and to the side.
func NewView(frame r3.Box) View {
	return View{
		Frame:       frame,
		Eye:         r3.Vec{X: 0, Y: -2.5, Z: 2.5},
		Up:          r3.Vec{Z: 1},
		Fovy:        30,
		Near:        1,
		Far:         10,
		Supersample: 2,
	}
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

// frameMatrix maps the frame box onto the bi-unit cube keeping aspect ratio.
func (v View) frameMatrix() fauxgl.Matrix {
	box := d3.Box(v.Frame)
	size := box.Size()
	s := 2 / math.Max(size.X, math.Max(size.Y, size.Z))
	c := box.Center()
	return fauxgl.Identity().Translate(fauxgl.V(-c.X, -c.Y, -c.Z)).Scale(fauxgl.V(s, s, s))
}

// ImageOf renders the mesh with a Phong shader from the view's camera.
func ImageOf(model []Triangle3, view View, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("image size must be positive")
	}
	size := d3.Box(view.Frame).Size()
	if size.X <= 0 && size.Y <= 0 && size.Z <= 0 {
		return nil, errors.New("empty view frame")
	}
	scale := view.Supersample
	if scale <= 0 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.Transform(view.frameMatrix())

	var (
		eye    = vec(view.Eye)
		center = vec(view.Center)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale != 1 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}
