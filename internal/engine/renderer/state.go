package renderer

// State is a stage of the device lifecycle.
//
//	Uninitialized -> DeviceReady -> ResourcesReady -> Running
//	Running -> DeviceLost -> DeviceReady -> ResourcesReady -> Running
//
// A resize moves Running back through DeviceReady. A loss reported at any
// stage before Running sends the lifecycle back to DeviceLost.
type State uint8

const (
	Uninitialized State = iota
	// DeviceReady: device, camera, scene, programs and input layout exist.
	DeviceReady
	// ResourcesReady: size-dependent views, constant buffers and states exist.
	ResourcesReady
	Running
	// DeviceLost: a device call reported a removed or reset device.
	DeviceLost
	// Closed: everything was released by Close.
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case DeviceReady:
		return "device-ready"
	case ResourcesReady:
		return "resources-ready"
	case Running:
		return "running"
	case DeviceLost:
		return "device-lost"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
