package runtime

import (
	"fmt"

	"github.com/aretw0/markovchain/pkg/domain"
)

// panicError carries the value recovered from a rate function.
type panicError struct {
	cause any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("%v: %v", domain.ErrRatePanic, p.cause)
}

func (p *panicError) Unwrap() error {
	return domain.ErrRatePanic
}
