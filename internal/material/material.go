package material

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Tuning holds the artist controls of the ray marched cloud shader.
type Tuning struct {
	ShadowDist   float32 `yaml:"shadow_dist"`
	ShadowCoef   float32 `yaml:"shadow_coef"`
	SunPen       float32 `yaml:"sun_pen"`
	WorleyFactor float32 `yaml:"worley_factor"`
	ValueFactor  float32 `yaml:"value_factor"`
	CloudCoef    float32 `yaml:"cloud_coef"`
	CloudHeight  float32 `yaml:"cloud_height"`
}

func DefaultTuning() Tuning {
	return Tuning{
		ShadowDist:   50,
		ShadowCoef:   0.1,
		SunPen:       30,
		WorleyFactor: 0.1,
		ValueFactor:  0,
		CloudCoef:    0.2,
		CloudHeight:  0.2,
	}
}

// Cloud is the uniform block of the cloud material. Everything except
// TextureDimensions and Tuning is refreshed every frame by Update.
type Cloud struct {
	SunDirection      mgl32.Vec3
	CameraPosition    mgl32.Vec3
	AABBPosition      mgl32.Vec3
	Scale             mgl32.Vec3
	TextureDimensions mgl32.Vec3
	Time              float32

	Tuning Tuning
}

func NewCloud(tuning Tuning, width, height, depth int) *Cloud {
	return &Cloud{
		Scale:             mgl32.Vec3{1, 1, 1},
		TextureDimensions: mgl32.Vec3{float32(width), float32(height), float32(depth)},
		Tuning:            tuning,
	}
}

// Frame is the per frame scene state the material depends on.
type Frame struct {
	CameraPosition mgl32.Vec3
	// SunForward is the direction the sun light travels.
	SunForward mgl32.Vec3
	// Elapsed is the time since start in seconds.
	Elapsed float32
	// Position and Scale of the cloud's bounding box.
	Position mgl32.Vec3
	Scale    mgl32.Vec3
}

func (c *Cloud) Update(f Frame) {
	c.CameraPosition = f.CameraPosition
	if f.SunForward.Len() > 0 {
		c.SunDirection = f.SunForward.Normalize()
	}
	c.Time = f.Elapsed
	c.AABBPosition = f.Position
	c.Scale = f.Scale
}

// UniformSetter receives uniform values by name.
type UniformSetter interface {
	SetFloat(name string, value float32)
	SetVec3(name string, x, y, z float32)
}

// Apply pushes every uniform to u.
func (c *Cloud) Apply(u UniformSetter) {
	setVec3 := func(name string, v mgl32.Vec3) {
		u.SetVec3(name, v[0], v[1], v[2])
	}
	setVec3("sunDirection", c.SunDirection)
	setVec3("cameraPosition", c.CameraPosition)
	setVec3("aabbPosition", c.AABBPosition)
	setVec3("scale", c.Scale)
	setVec3("textureDimensions", c.TextureDimensions)
	u.SetFloat("time", c.Time)

	u.SetFloat("shadowDist", c.Tuning.ShadowDist)
	u.SetFloat("shadowCoef", c.Tuning.ShadowCoef)
	u.SetFloat("sunPen", c.Tuning.SunPen)
	u.SetFloat("worleyFactor", c.Tuning.WorleyFactor)
	u.SetFloat("valueFactor", c.Tuning.ValueFactor)
	u.SetFloat("cloudCoef", c.Tuning.CloudCoef)
	u.SetFloat("cloudHeight", c.Tuning.CloudHeight)
}
