// Package version holds the service version.
package version

// Version is the current service version.
const Version = "0.1.0"
