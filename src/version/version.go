// Package version holds the mzmatch version
package version

// VERSION is the current mzmatch version
const VERSION = "0.1.0"
