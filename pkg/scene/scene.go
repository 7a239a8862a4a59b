// Package scene holds the render objects and materials that make up a scene,
// and resolves which object a ray hits first.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrMaterialIndex is returned when an object refers to a material the scene
// does not have.
var ErrMaterialIndex = errors.New("material index out of range")

// ErrNilObject is returned when a nil object is added to a scene.
var ErrNilObject = errors.New("nil object")

// ErrObjectIndex is returned when an object index is out of range.
var ErrObjectIndex = errors.New("object index out of range")

// ErrNotEditable is returned when an object does not support an edit.
var ErrNotEditable = errors.New("object cannot be edited")

// MinRadius is the smallest radius ResizeObject will leave a sphere with.
const MinRadius = 0.05

// materialSetter is implemented by objects whose material can be reassigned.
type materialSetter interface {
	SetMaterialIndex(i int)
}

// transformer is implemented by objects that can be moved and resized.
type transformer interface {
	Translate(delta mgl64.Vec3)
	Grow(delta, minRadius float64)
}

// Scene is an ordered arena of objects and materials. Objects refer to
// materials by index and hit payloads refer to objects by index.
type Scene struct {
	Objects   []Object
	Materials []Material
}

// New creates a scene and validates every object's material index.
func New(materials []Material, objects ...Object) (*Scene, error) {
	s := &Scene{
		Objects:   objects,
		Materials: materials,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every object resolves to a material.
func (s *Scene) Validate() error {
	for i, obj := range s.Objects {
		if err := s.checkObject(obj); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

func (s *Scene) checkObject(obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if idx := obj.MaterialIndex(); idx < 0 || idx >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d)", ErrMaterialIndex, idx, len(s.Materials))
	}
	return nil
}

// AddMaterial appends a material and returns its index.
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddObject appends an object and returns its index. The object's material
// must already exist.
func (s *Scene) AddObject(obj Object) (int, error) {
	if err := s.checkObject(obj); err != nil {
		return -1, fmt.Errorf("add object: %w", err)
	}
	s.Objects = append(s.Objects, obj)
	return len(s.Objects) - 1, nil
}

// Material returns the material at index i.
// ok is false if i is out of range.
func (s *Scene) Material(i int) (m Material, ok bool) {
	if i < 0 || i >= len(s.Materials) {
		return Material{}, false
	}
	return s.Materials[i], true
}

// ObjectCount returns the number of objects.
func (s *Scene) ObjectCount() int {
	return len(s.Objects)
}

// MaterialCount returns the number of materials.
func (s *Scene) MaterialCount() int {
	return len(s.Materials)
}

// TraceRay finds the nearest object in front of the ray origin.
// Ties go to the object that comes first.
func (s *Scene) TraceRay(ray Ray) HitPayload {
	closest := -1
	hitDistance := math.MaxFloat64

	for i, obj := range s.Objects {
		t, ok := obj.Intersect(ray)
		if !ok || !(t > 0) {
			continue
		}
		if t < hitDistance {
			hitDistance = t
			closest = i
		}
	}

	if closest < 0 {
		return miss()
	}
	return s.closestHit(ray, hitDistance, closest)
}

func (s *Scene) closestHit(ray Ray, hitDistance float64, objectIndex int) HitPayload {
	position := ray.At(hitDistance)
	return HitPayload{
		HitDistance:   hitDistance,
		WorldPosition: position,
		WorldNormal:   s.Objects[objectIndex].NormalAt(position),
		ObjectIndex:   objectIndex,
	}
}

// SetObjectMaterial points an object at a different material.
func (s *Scene) SetObjectMaterial(object, material int) error {
	if object < 0 || object >= len(s.Objects) {
		return fmt.Errorf("%w: %d (have %d)", ErrObjectIndex, object, len(s.Objects))
	}
	if material < 0 || material >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d)", ErrMaterialIndex, material, len(s.Materials))
	}
	ms, ok := s.Objects[object].(materialSetter)
	if !ok {
		return fmt.Errorf("object %d: %w", object, ErrNotEditable)
	}
	ms.SetMaterialIndex(material)
	return nil
}

// SetEmissionPower sets a material's emission power. Negative powers are
// clamped to zero.
func (s *Scene) SetEmissionPower(material int, power float64) error {
	if material < 0 || material >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d)", ErrMaterialIndex, material, len(s.Materials))
	}
	s.Materials[material].EmissionPower = max(power, 0)
	return nil
}

// MoveObject offsets an object's position.
func (s *Scene) MoveObject(object int, delta mgl64.Vec3) error {
	tr, err := s.transformer(object)
	if err != nil {
		return err
	}
	tr.Translate(delta)
	return nil
}

// ResizeObject changes an object's radius by delta, keeping it at least
// MinRadius.
func (s *Scene) ResizeObject(object int, delta float64) error {
	tr, err := s.transformer(object)
	if err != nil {
		return err
	}
	tr.Grow(delta, MinRadius)
	return nil
}

func (s *Scene) transformer(object int) (transformer, error) {
	if object < 0 || object >= len(s.Objects) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrObjectIndex, object, len(s.Objects))
	}
	tr, ok := s.Objects[object].(transformer)
	if !ok {
		return nil, fmt.Errorf("object %d: %w", object, ErrNotEditable)
	}
	return tr, nil
}
