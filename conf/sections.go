package conf

type LogConf struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // console, json
}

type PDFConf struct {
	Rasterizer string   `json:"rasterizer" yaml:"rasterizer"` // software, chrome
	ChromeBin  string   `json:"chrome_bin" yaml:"chrome_bin"`
	ControlURL string   `json:"control_url" yaml:"control_url"` // attach to a running chrome instead of launching one
	NoSandbox  bool     `json:"no_sandbox" yaml:"no_sandbox"`
	Timeout    Duration `json:"timeout" yaml:"timeout"`
	OutDir     string   `json:"out_dir" yaml:"out_dir"` // export target, relative to AppRoot
	Scale      float64  `json:"scale" yaml:"scale"`
	Paper      string   `json:"paper" yaml:"paper"` // A4, Letter
}

// ThrottleConf limits PDF downloads per client IP. Burst 0 turns it off.
type ThrottleConf struct {
	Burst            int      `json:"burst" yaml:"burst"`
	Increment        int      `json:"increment" yaml:"increment"`
	Period           Duration `json:"period" yaml:"period"`
	CleanupCycle     Duration `json:"cleanup_cycle" yaml:"cleanup_cycle"`
	CleanupOlderThan Duration `json:"cleanup_older_than" yaml:"cleanup_older_than"`
	// BehindProxy keys buckets on X-Forwarded-For / X-Real-IP instead of the peer address.
	// Set it only when a reverse proxy overwrites those headers on every request.
	BehindProxy bool `json:"behind_proxy" yaml:"behind_proxy"`
}
