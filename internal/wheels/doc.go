// Package wheels defines the set of prebuilt native-extension wheels the
// TRELLIS2 node depends on, and the extra pip sources used to locate them.
//
// The built-in set is the five CUDA extension wheels published alongside
// the node, pinned to a specific interpreter ABI and platform tag. Each
// wheel is paired with the module name it provides, so the pre-startup
// hook can probe importability.
//
// Two override mechanisms exist:
//   - TRELLIS2_WHEEL_INDEX_URL / TRELLIS2_WHEEL_FIND_LINKS environment
//     variables extend pip's search sources (comma/semicolon-delimited).
//   - An optional wheels.jsonc manifest in the node root replaces the
//     built-in set entirely, for users who rebuild the extensions for a
//     different ABI. JSONC comments are allowed.
package wheels
