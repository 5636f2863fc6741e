package lighting

// DirectionalData is the shading record for the sun.
// Layout matches a std140 block member: three vec4 colors then a padded vec3.
type DirectionalData struct {
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Direction [3]float32
	_         float32
}

// PointData is the shading record for one point light (std140, 80 bytes).
type PointData struct {
	Position    [3]float32
	_           float32
	Ambient     [4]float32
	Diffuse     [4]float32
	Specular    [4]float32
	Attenuation [3]float32
	Range       float32
}

// DirectionalShading derives the sun record from a light.
func DirectionalShading(l Light) DirectionalData {
	return DirectionalData{
		Ambient:   l.Ambient,
		Diffuse:   l.Diffuse,
		Specular:  l.Specular,
		Direction: l.Direction.Array(),
	}
}

// PointShading derives a point light record from a light.
func PointShading(l Light) PointData {
	return PointData{
		Position:    l.Position().Array(),
		Ambient:     l.Ambient,
		Diffuse:     l.Diffuse,
		Specular:    l.Specular,
		Attenuation: l.Attenuation.Array(),
		Range:       l.Range,
	}
}
