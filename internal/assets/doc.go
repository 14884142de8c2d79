// Package assets copies the node's bundled example assets into the host's
// input directory before startup.
//
// The copy is deliberately conservative: only regular files are copied
// (no directories, no symlink traversal), and a destination that already
// exists is never overwritten — the input directory belongs to the user,
// and anything they put there wins. A missing source directory is not an
// error; it just means this build of the node ships no examples.
package assets
