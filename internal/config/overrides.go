package config

// Overrides carries command-line values; nil fields leave the loaded value alone
type Overrides struct {
	CaptureDir *string
	Device     *string
	Zooms      *string
	Fullscreen *bool
	LogLevel   *string
	JSONLogs   *bool
}

// Apply returns c with the overrides applied and validated
func (c Config) Apply(o Overrides) (Config, error) {
	if o.CaptureDir != nil {
		c.CaptureDir = expandHome(*o.CaptureDir)
	}
	if o.Device != nil {
		c.Camera.Device = *o.Device
	}
	if o.Zooms != nil {
		zooms, err := ParseZooms(*o.Zooms)
		if err != nil {
			return Config{}, err
		}
		c.ZoomOptions = zooms
	}
	if o.Fullscreen != nil {
		c.StartFullscreen = *o.Fullscreen
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.JSONLogs != nil {
		c.JSONLogs = *o.JSONLogs
	}
	return c, c.Validate()
}
