//go:build !windows

package vcredist

// systemDirectory has no meaning off Windows; the platform gate in
// Checker keeps this from ever being probed, but the stub keeps the
// package compiling everywhere.
func systemDirectory() string {
	return ""
}
