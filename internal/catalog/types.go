package catalog

// InputFormat describes how the value of an Input should be interpreted.
type InputFormat string

const (
	FormatString   InputFormat = "string"
	FormatNumber   InputFormat = "number"
	FormatBoolean  InputFormat = "boolean"
	FormatFilePath InputFormat = "file_path"
)

// ArgumentType distinguishes positional from named command line arguments.
type ArgumentType string

const (
	ArgumentPositional ArgumentType = "positional"
	ArgumentNamed      ArgumentType = "named"
)

// Repository identifies where the source code of a server lives.
type Repository struct {
	URL    string `json:"url"    yaml:"url"`
	Source string `json:"source" yaml:"source"`
	ID     string `json:"id"     yaml:"id"`
}

// VersionDetail describes a published version of a server.
type VersionDetail struct {
	Version     string `json:"version"      yaml:"version"`
	ReleaseDate string `json:"release_date" yaml:"release_date"`
	IsLatest    bool   `json:"is_latest"    yaml:"is_latest"`
}

// ServerSummary is the catalog's listing representation of a server.
type ServerSummary struct {
	ID            string        `json:"id"             yaml:"id"`
	Name          string        `json:"name"           yaml:"name"`
	Description   string        `json:"description"    yaml:"description"`
	Repository    Repository    `json:"repository"     yaml:"repository"`
	VersionDetail VersionDetail `json:"version_detail" yaml:"version_detail"`
}

// Input describes a configurable value a server expects.
type Input struct {
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	IsRequired  bool             `json:"is_required,omitempty" yaml:"is_required,omitempty"`
	Format      InputFormat      `json:"format,omitempty"      yaml:"format,omitempty"`
	Value       string           `json:"value,omitempty"       yaml:"value,omitempty"`
	IsSecret    bool             `json:"is_secret,omitempty"   yaml:"is_secret,omitempty"`
	Default     string           `json:"default,omitempty"     yaml:"default,omitempty"`
	Choices     []string         `json:"choices,omitempty"     yaml:"choices,omitempty"`
	Template    string           `json:"template,omitempty"    yaml:"template,omitempty"`
	Properties  map[string]Input `json:"properties,omitempty"  yaml:"properties,omitempty"`
}

// Argument is an Input passed on the command line of a package's runtime or the package itself.
type Argument struct {
	Input      `yaml:",inline"`
	Type       ArgumentType     `json:"type"                  yaml:"type"`
	Name       string           `json:"name,omitempty"        yaml:"name,omitempty"`
	IsRepeated bool             `json:"is_repeated,omitempty" yaml:"is_repeated,omitempty"`
	ValueHint  string           `json:"value_hint,omitempty"  yaml:"value_hint,omitempty"`
	Variables  map[string]Input `json:"variables,omitempty"   yaml:"variables,omitempty"`
}

// KeyValueInput is a named Input, used for environment variables and headers.
type KeyValueInput struct {
	Input     `yaml:",inline"`
	Name      string           `json:"name"                yaml:"name"`
	Variables map[string]Input `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Package is a distributable artifact that runs a server locally.
type Package struct {
	RegistryName         string          `json:"registry_name"                   yaml:"registry_name"`
	Name                 string          `json:"name"                            yaml:"name"`
	Version              string          `json:"version"                         yaml:"version"`
	RuntimeHint          string          `json:"runtime_hint,omitempty"          yaml:"runtime_hint,omitempty"`
	RuntimeArguments     []Argument      `json:"runtime_arguments,omitempty"     yaml:"runtime_arguments,omitempty"`
	PackageArguments     []Argument      `json:"package_arguments,omitempty"     yaml:"package_arguments,omitempty"`
	EnvironmentVariables []KeyValueInput `json:"environment_variables,omitempty" yaml:"environment_variables,omitempty"`
}

// Remote is a hosted endpoint for a server.
type Remote struct {
	TransportType string  `json:"transport_type"    yaml:"transport_type"`
	URL           string  `json:"url"               yaml:"url"`
	Headers       []Input `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ServerDetail is the full representation of a single server.
type ServerDetail struct {
	ServerSummary `yaml:",inline"`
	Packages      []Package `json:"packages,omitempty" yaml:"packages,omitempty"`
	Remotes       []Remote  `json:"remotes,omitempty"  yaml:"remotes,omitempty"`
}

// Metadata accompanies a page of servers.
// Count and Total are pointers so that an explicit zero survives a round trip.
type Metadata struct {
	NextCursor string `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
	Count      *int   `json:"count,omitempty"       yaml:"count,omitempty"`
	Total      *int   `json:"total,omitempty"       yaml:"total,omitempty"`
}

// ServerListResult is a page of servers.
type ServerListResult struct {
	Servers  []ServerSummary `json:"servers"            yaml:"servers"`
	Metadata *Metadata       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NextCursor returns the cursor for the following page, or an empty string when there is none.
func (r ServerListResult) NextCursor() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.NextCursor
}

// Health is the catalog service's self-reported status.
type Health struct {
	Status      string `json:"status"       yaml:"status"`
	AuthEnabled bool   `json:"auth_enabled" yaml:"auth_enabled"`
}

// HealthStatusUnknown is presented when the catalog's health could not be determined.
const HealthStatusUnknown = "unknown"

// UnknownHealth is the presentation value for a failed health check.
func UnknownHealth() Health {
	return Health{Status: HealthStatusUnknown}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
