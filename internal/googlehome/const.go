package googlehome

// Domain identifies the integration in device identifiers and MQTT topics.
const Domain = "google_home"

// Manufacturer is reported in every device's DeviceInfo.
const Manufacturer = "Google"

// IconToken is the icon shown for the IP address field.
const IconToken = "mdi:form-textbox-password"

const (
	labelIPAddress    = "IP Address"
	ipAddressIDSuffix = "_ip_address"

	// UnknownIPAddress is the state of a device with no recorded address.
	UnknownIPAddress = "Unknown"
)
