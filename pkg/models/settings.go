package models

// Settings represents the application configuration
type Settings struct {
	Server ServerSettings `yaml:"server"`
	Serve  ServeSettings  `yaml:"serve"`
	UI     UISettings     `yaml:"ui"`
	Log    LogSettings    `yaml:"log"`
}

// ServerSettings controls how the client reaches the filter store
type ServerSettings struct {
	URL            string `yaml:"url"`
	User           string `yaml:"user"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServeSettings controls the embedded filter store started by `dashviews serve`
type ServeSettings struct {
	Addr       string `yaml:"addr"`
	Database   string `yaml:"database"`
	GroupsFile string `yaml:"groups_file"`
}

// UISettings controls UI preferences
type UISettings struct {
	LiveRefresh bool   `yaml:"live_refresh"`
	CurrentView string `yaml:"current_view"`
	DialogWidth int    `yaml:"dialog_width"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			URL:            "http://localhost:8153",
			User:           "anonymous",
			TimeoutSeconds: 10,
		},
		Serve: ServeSettings{
			Addr:       ":8153",
			Database:   ".dashviews/dashviews.sqlite",
			GroupsFile: ".dashviews/groups.yaml",
		},
		UI: UISettings{
			LiveRefresh: true,
			CurrentView: DefaultViewName,
			DialogWidth: 64,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}
