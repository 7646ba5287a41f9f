package render

import (
	"errors"

	"github.com/vk/reelgraph/internal/media"
)

// ErrResourceExhausted is returned when a program would bind more textures
// than the backend has texture units.
var ErrResourceExhausted = errors.New("not enough texture units")

// Texture is an image the backend can sample from.
type Texture interface {
	Name() string
}

// SourceTexture is a texture fed from a media handle.
type SourceTexture interface {
	Texture
	// Upload copies the handle's current frame into the texture.
	Upload(h media.Handle) error
	// Clear makes the texture fully transparent.
	Clear()
	// Empty reports whether the texture is transparent.
	Empty() bool
}

// Definition describes a processing program: its shaders, the names of its
// input samplers and the default values of its properties.
type Definition struct {
	Title          string
	Description    string
	VertexShader   string
	FragmentShader string
	Inputs         []string
	Properties     map[string]Value
}

// DrawCall is everything a program needs for one draw.
type DrawCall struct {
	Target Texture
	// Inputs is aligned with the definition's input names for bounded nodes
	// and holds nil for an empty slot.
	Inputs []Texture
	// Resources holds the textures bound for ResourceRef properties, by
	// property name.
	Resources   map[string]Texture
	Properties  map[string]Value
	CurrentTime float64
}

// Program is a compiled Definition.
type Program interface {
	Draw(call DrawCall) error
}

// Backend owns every texture and program.
type Backend interface {
	MaxTextureUnits() int
	NewSourceTexture(name string) SourceTexture
	NewRenderTarget(name string) Texture
	// Screen is the output surface the destination draws into.
	Screen() Texture
	NewProgram(def Definition) (Program, error)
	// Resource resolves the image named by a ResourceRef property.
	Resource(ref string) (Texture, error)
	// BeginFrame and EndFrame bracket the draws of one tick.
	BeginFrame(currentTime float64)
	EndFrame() error
}

// TextureUnits counts the texture units a definition binds: one per input and
// one per resource property.
func TextureUnits(inputs []string, properties map[string]Value) int {
	n := len(inputs)
	for _, v := range properties {
		if v.Kind() == KindResource {
			n++
		}
	}
	return n
}
