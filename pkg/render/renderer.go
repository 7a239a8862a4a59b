package render

import (
	"image/color"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/piray/pkg/random"
	"github.com/taigrr/piray/pkg/scene"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBounces is the number of path segments traced per sample.
const DefaultBounces = 3

// surfaceOffset lifts bounce origins off the surface to avoid self-hits.
const surfaceOffset = 1e-4

// Settings controls how frames are rendered.
type Settings struct {
	// Accumulate averages samples over successive frames. When false every
	// frame shows a single, freshly seeded sample per pixel.
	Accumulate bool

	// Bounces is the maximum number of path segments per sample.
	Bounces int

	// Workers limits how many rows render concurrently.
	// Zero means GOMAXPROCS.
	Workers int

	// ThroughputWeighted scales each emission by the path throughput
	// (product of albedos so far). When false emission is added as-is at
	// every bounce.
	ThroughputWeighted bool
}

// DefaultSettings returns accumulating, three-bounce, unweighted settings.
func DefaultSettings() Settings {
	return Settings{
		Accumulate: true,
		Bounces:    DefaultBounces,
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for resizes, resets and skipped frames.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(r *Renderer) {
		r.settings = s
	}
}

// Renderer path-traces a scene into a framebuffer, averaging samples
// across frames.
type Renderer struct {
	settings Settings
	log      *zap.Logger

	width, height int
	finalImage    *Framebuffer
	accumulation  []mgl64.Vec4

	frameIndex  uint32
	sampleCount uint32

	// seed is the frame number fed to the sampler. It follows frameIndex
	// while accumulating and keeps counting when accumulation is off.
	seed uint32
}

// NewRenderer creates a renderer with an empty viewport.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		settings:   DefaultSettings(),
		log:        zap.NewNop(),
		finalImage: NewFramebuffer(0, 0),
		frameIndex: 1,
		seed:       1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the live settings. Changes take effect on the next
// Render.
func (r *Renderer) Settings() *Settings {
	return &r.settings
}

// OnResize reallocates the buffers for a new viewport and restarts
// accumulation. It is a no-op if the size is unchanged.
// Must not be called concurrently with Render.
func (r *Renderer) OnResize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == r.width && height == r.height {
		return
	}

	r.width, r.height = width, height
	r.finalImage = NewFramebuffer(width, height)
	r.accumulation = make([]mgl64.Vec4, width*height)
	r.frameIndex = 1
	r.seed = 1
	r.sampleCount = 0

	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// ResetFrameIndex restarts accumulation on the next Render.
func (r *Renderer) ResetFrameIndex() {
	if r.frameIndex != 1 {
		r.log.Debug("accumulation reset", zap.Uint32("frames", r.frameIndex-1))
	}
	r.frameIndex = 1
	r.seed = 1
}

// FrameIndex returns the index of the next frame to render, starting at 1.
func (r *Renderer) FrameIndex() int {
	return int(r.frameIndex)
}

// SampleCount returns the number of samples per pixel averaged into the
// current image.
func (r *Renderer) SampleCount() int {
	return int(r.sampleCount)
}

// FinalImage returns the display buffer. It is replaced on resize.
func (r *Renderer) FinalImage() *Framebuffer {
	return r.finalImage
}

// Size returns the viewport dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Render traces one sample per pixel, folds it into the accumulation buffer
// and refreshes the final image. The scene and camera are only read.
func (r *Renderer) Render(s *scene.Scene, cam *Camera) {
	if r.width == 0 || r.height == 0 {
		return
	}

	rays := cam.RayDirections()
	if cw, ch := cam.ViewportSize(); cw != r.width || ch != r.height || len(rays) != r.width*r.height {
		r.log.Warn("camera viewport does not match renderer, skipping frame",
			zap.Int("camera_width", cw), zap.Int("camera_height", ch),
			zap.Int("width", r.width), zap.Int("height", r.height))
		return
	}

	if !r.settings.Accumulate {
		r.frameIndex = 1
	}
	if r.frameIndex == 1 {
		clear(r.accumulation)
	}

	workers := r.settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	origin := cam.Position()
	frame, seed := r.frameIndex, r.seed

	var g errgroup.Group
	g.SetLimit(workers)
	for y := range r.height {
		g.Go(func() error {
			r.renderRow(s, origin, rays, y, frame, seed)
			return nil
		})
	}
	_ = g.Wait()

	r.sampleCount = frame
	r.seed++
	if r.settings.Accumulate {
		r.frameIndex++
	} else {
		r.frameIndex = 1
	}
}

// renderRow writes only row y of the accumulation buffer and final image.
func (r *Renderer) renderRow(s *scene.Scene, origin mgl64.Vec3, rays []mgl64.Vec3, y int, frame, seed uint32) {
	scale := 1 / float64(frame)
	row := y * r.width

	for x := range r.width {
		i := row + x
		sample := r.sample(s, scene.Ray{Origin: origin, Direction: rays[i]}, uint32(i), seed)

		r.accumulation[i] = r.accumulation[i].Add(sample)
		r.finalImage.Pixels[i] = toRGBA(r.accumulation[i].Mul(scale))
	}
}

// PerPixel returns the sample the next Render would take for pixel (x, y).
// Out of range pixels return opaque black.
func (r *Renderer) PerPixel(s *scene.Scene, cam *Camera, x, y int) mgl64.Vec4 {
	w, h := cam.ViewportSize()
	rays := cam.RayDirections()
	if x < 0 || x >= w || y < 0 || y >= h || len(rays) != w*h {
		return mgl64.Vec4{0, 0, 0, 1}
	}
	i := y*w + x
	return r.sample(s, scene.Ray{Origin: cam.Position(), Direction: rays[i]}, uint32(i), r.seed)
}

// LinearColor returns the averaged, unclamped linear color of pixel (x, y)
// from the last Render.
func (r *Renderer) LinearColor(x, y int) mgl64.Vec3 {
	if x < 0 || x >= r.width || y < 0 || y >= r.height || r.sampleCount == 0 {
		return mgl64.Vec3{}
	}
	return r.accumulation[y*r.width+x].Vec3().Mul(1 / float64(r.sampleCount))
}

// sample traces one light path. Paths end at the bounce limit or on the
// first miss; a miss contributes nothing.
func (r *Renderer) sample(s *scene.Scene, ray scene.Ray, pixelIndex, frame uint32) mgl64.Vec4 {
	rng := random.ForPixel(pixelIndex, frame)

	var light mgl64.Vec3
	contribution := mgl64.Vec3{1, 1, 1}

	for range r.settings.Bounces {
		hit := s.TraceRay(ray)
		if hit.Missed() {
			break
		}

		m, ok := s.Material(s.Objects[hit.ObjectIndex].MaterialIndex())
		if !ok {
			break
		}

		emission := m.Emission()
		if r.settings.ThroughputWeighted {
			emission = mulComponents(emission, contribution)
		}
		light = light.Add(emission)
		contribution = mulComponents(contribution, m.Albedo)

		ray.Origin = hit.WorldPosition.Add(hit.WorldNormal.Mul(surfaceOffset))
		ray.Direction = diffuseDirection(hit.WorldNormal, &rng)
	}

	return light.Vec4(1)
}

// diffuseDirection picks normal + a uniform point on the unit sphere, which
// is cosine-distributed about the normal.
func diffuseDirection(normal mgl64.Vec3, rng *random.Stream) mgl64.Vec3 {
	dir := normal.Add(rng.OnUnitSphere())
	if dir.LenSqr() < 1e-12 {
		return normal
	}
	return dir.Normalize()
}

func mulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// toRGBA clamps a linear color to [0, 1], applies a 2.0 gamma and packs it.
func toRGBA(c mgl64.Vec4) color.RGBA {
	return color.RGBA{
		R: toChannel(c[0]),
		G: toChannel(c[1]),
		B: toChannel(c[2]),
		A: 255,
	}
}

func toChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Sqrt(mgl64.Clamp(v, 0, 1)) * 255)
}
