// Package vcredist verifies — and if necessary installs — the Microsoft
// Visual C++ runtime redistributable that the native-extension wheels link
// against on Windows.
//
// The check-then-remediate sequence is bounded and fully enumerable:
// probe a fixed pair of runtime DLL names across an ordered list of
// candidate directories; if either is missing, download the official
// redistributable installer to a temporary file, run it unattended, delete
// the temporary file, and probe again. Exit code 1638 ("a newer version is
// already installed") counts as success.
//
// On any platform other than Windows the check succeeds immediately
// without touching the filesystem.
package vcredist
