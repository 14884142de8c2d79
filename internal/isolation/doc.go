// Package isolation preserves the call-site shape of the node's old
// sandboxing hook.
//
// Earlier revisions could hand node execution off to an external isolated
// environment when TRELLIS2_ENABLE_COMFY_ENV was truthy. That mechanism
// has been removed: the node always runs directly in the host's venv, and
// the decorator is now a structural no-op kept so code written against
// the isolation-aware version keeps working unchanged.
package isolation
