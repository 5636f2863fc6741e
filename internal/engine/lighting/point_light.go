package lighting

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 32

// PointLightBuffer holds point light records for GPU upload.
type PointLightBuffer struct {
	Records [MaxPointLights]PointData
	Count   int
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Records = [MaxPointLights]PointData{}
	b.Count = 0
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []Light) {
	b.Clear()
	count := min(len(lights), MaxPointLights)
	for i := 0; i < count; i++ {
		b.Records[i] = PointShading(lights[i])
	}
	b.Count = count
}
