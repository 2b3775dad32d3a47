package metadata

import "fmt"

type DeviceType string

const (
	DeviceLaptop     DeviceType = "laptop"
	DeviceDesktop    DeviceType = "desktop"
	DevicePhone      DeviceType = "phone"
	DeviceTablet     DeviceType = "tablet"
	DeviceMonitor    DeviceType = "monitor"
	DevicePrinter    DeviceType = "printer"
	DevicePeripheral DeviceType = "peripheral"
	DeviceNetwork    DeviceType = "network"
	DeviceOther      DeviceType = "other"

	// DeviceUnknown is reserved for placeholder assets synthesized from
	// unrecognized scans. It is never accepted as user input.
	DeviceUnknown DeviceType = "unknown"
)

func NewDeviceType(value string) (DeviceType, error) {
	deviceType := DeviceType(value)
	if !deviceType.isValid() {
		return "", fmt.Errorf("invalid device type: %s", value)
	}
	return deviceType, nil
}

func (d DeviceType) isValid() bool {
	switch d {
	case DeviceLaptop, DeviceDesktop, DevicePhone, DeviceTablet, DeviceMonitor,
		DevicePrinter, DevicePeripheral, DeviceNetwork, DeviceOther:
		return true
	default:
		return false
	}
}

func (d DeviceType) String() string {
	return string(d)
}
