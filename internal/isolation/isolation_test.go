package isolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsolated_IdentityForFuncs verifies the decorator returns a callable
// indistinguishable from the original, for any decorator arguments.
func TestIsolated_IdentityForFuncs(t *testing.T) {
	calls := 0
	fn := func(x int) int {
		calls++
		return x * 2
	}

	wrapped := Isolated[func(int) int]()(fn)
	require.NotNil(t, wrapped)
	assert.Equal(t, 10, wrapped(5))
	assert.Equal(t, 1, calls)

	// Arbitrary arguments are accepted and ignored.
	wrapped = Isolated[func(int) int]("env-name", 42, map[string]string{"gpu": "0"})(fn)
	assert.Equal(t, 14, wrapped(7))
}

// TestIsolated_IdentityForValues verifies the decorator is an identity
// mapping for non-callable values too.
func TestIsolated_IdentityForValues(t *testing.T) {
	type node struct{ name string }

	n := node{name: "trellis2"}
	assert.Equal(t, n, Isolated[node]("ignored")(n))
	assert.Equal(t, "s", Isolated[string]()("s"))
}

// TestRequested follows the truthy convention of the historical flag.
func TestRequested(t *testing.T) {
	t.Setenv(EnvEnableFlag, "")
	assert.False(t, Requested())

	t.Setenv(EnvEnableFlag, " Yes ")
	assert.True(t, Requested())

	t.Setenv(EnvEnableFlag, "0")
	assert.False(t, Requested())
}
