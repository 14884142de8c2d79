//go:build windows

package vcredist

import "golang.org/x/sys/windows"

// systemDirectory returns the Windows system directory (typically
// C:\Windows\System32), the first place the runtime DLLs are expected.
// An empty string is returned if the lookup fails; the probe simply
// skips it.
func systemDirectory() string {
	dir, err := windows.GetSystemDirectory()
	if err != nil {
		return ""
	}
	return dir
}
