package cmd

// version is set at build time using -ldflags "-X github.com/mozilla-ai/mcpcat/internal/cmd.version=..."
var version = "dev"

const appName = "mcpcat"

// AppName returns the name of the binary.
func AppName() string {
	return appName
}

// Version returns the version of the binary.
func Version() string {
	return version
}
