package output

import (
	"context"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
)

// Output defines the interface for evaluation report destinations.
type Output interface {
	Write(ctx context.Context, res *evaluate.Result) error
	Close() error
}
