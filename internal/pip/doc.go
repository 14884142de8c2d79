// Package pip drives a target interpreter's package manager via
// `<python> -m pip`. It implements the three install-time operations of
// the bootstrap harness: installing the node's requirements file,
// installing the native-extension wheel set in one combined invocation,
// and probing which wheel modules are importable.
//
// Every operation is a single blocking subprocess with no retry, no
// timeout, and no rollback — a partially installed environment is left
// as-is, matching the package manager's own semantics. Failures are
// returned as model.StepResult values, never as errors: a missing
// requirements file, a launch failure, and a non-zero pip exit all
// collapse into a success flag plus a printable diagnostic.
package pip
