package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"heroscene/hal"
)

// recoverStep turns a panic inside a frame into an error and logs the stack,
// so the host runner can shut down through its normal error path.
func recoverStep(l hal.Logger, err *error) {
	v := recover()
	if v == nil {
		return
	}
	if l != nil {
		l.WriteLineString(fmt.Sprintf("heroscene panic: %v", v))
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}
	*err = fmt.Errorf("frame panic: %v", v)
}
