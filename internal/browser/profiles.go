// File: internal/browser/profiles.go
package browser

// DeviceProfile describes the emulated device a session launches with.
type DeviceProfile struct {
	Name      string
	UserAgent string
	Width     int64
	Height    int64
	Scale     float64
	Mobile    bool
}

// Profiles is the table of named device profiles, in presentation order.
var Profiles = []DeviceProfile{
	{
		Name:      "desktop",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Width:     1440,
		Height:    900,
		Scale:     1.0,
	},
	{
		Name:      "mobile",
		UserAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Mobile Safari/537.36",
		Width:     412,
		Height:    915,
		Scale:     2.625,
		Mobile:    true,
	},
}

// ProfileByName resolves a profile by name, defaulting to desktop for empty
// or unknown names.
func ProfileByName(name string) DeviceProfile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[0]
}
