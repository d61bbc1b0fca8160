package exprs

import (
	"fmt"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the hard limit for a single expression evaluation.
const EvalTimeout = 5 * time.Second

// runResult passes evaluation results through the timeout channel.
type runResult struct {
	sexp zygo.Sexp
	err  error
}

// waitWithTimeout waits for a result from ch, returning a timeout error
// if the evaluation exceeds EvalTimeout. On timeout the goroutine may
// still be running; its eventual send lands in the buffered channel and
// is garbage collected with it.
func waitWithTimeout(ch <-chan runResult) (zygo.Sexp, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.sexp, res.err
	case <-timer.C:
		return nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
