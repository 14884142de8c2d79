package isolation

import (
	"os"

	"github.com/arcticlatent/trellis2-bootstrap/internal/envutil"
)

// EnvEnableFlag is the historical opt-in flag for the external isolation
// mechanism. It is still read (so its presence can be reported) but no
// longer changes behavior.
const EnvEnableFlag = "TRELLIS2_ENABLE_COMFY_ENV"

// Isolated returns an identity decorator regardless of its arguments.
//
// The arguments mirror the configuration the isolation-aware revision
// accepted (environment name, GPU visibility, and so on); they are
// accepted and ignored so existing call sites need no changes:
//
//	wrapped := isolation.Isolated[NodeFunc]("trellis2", "gpu=0")(fn)
//	// wrapped == fn
func Isolated[T any](_ ...any) func(T) T {
	return func(v T) T { return v }
}

// Requested reports whether the removed isolation mechanism was asked for
// via the environment. Callers use this only to log that the flag no
// longer has any effect.
func Requested() bool {
	return envutil.IsTruthy(os.Getenv(EnvEnableFlag))
}
