//go:build !litert

package litert

// Without the 'litert' build tag no native runtime is linked in. Creation
// calls fail with RuntimeUnavailable, mirroring how the daemon reports a
// missing backend instead of failing at link time.
func newDefaultAPI() nativeAPI { return unavailableAPI{} }
