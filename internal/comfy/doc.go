// Package comfy resolves the ComfyUI installation layout surrounding the
// TRELLIS2 custom node.
//
// ComfyUI loads custom nodes from <comfyui>/custom_nodes/<node>/, so the
// host installation root is always two parent directories above the node
// root. Everything this harness touches hangs off those two roots: the
// host venv interpreter, the host input directory, and the node's bundled
// requirements file and example assets.
//
// Resolution is a pure function of the filesystem at call time. Nothing is
// cached — a venv created between two calls is picked up by the next call.
package comfy
