package ecs

import "fmt"

// assertf panics when cond is false and the package was built with the
// ecsdebug tag. Without the tag the check compiles away and the caller's
// behaviour on a violated contract is undefined.
func assertf(cond bool, format string, args ...any) {
	if debugAssertions && !cond {
		panic(fmt.Sprintf("ecs: "+format, args...))
	}
}
