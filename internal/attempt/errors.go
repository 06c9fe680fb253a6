package attempt

import (
	"errors"
	"fmt"
)

// OutOfRangeError reports a navigation or mutation target outside the
// attempt's question list. It is raised, not clamped, so UI bugs surface
// in testing instead of silently landing on the wrong question.
type OutOfRangeError struct {
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("question index %d out of range [0, %d)", e.Index, e.Count)
}

// ErrNegativeTimeDelta rejects negative time accrual. Accepting it would
// corrupt every downstream time analytic.
var ErrNegativeTimeDelta = errors.New("attempt: negative time delta")
