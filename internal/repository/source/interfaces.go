package source

import (
	"context"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
)

// Source defines the interface for one news source adapter. A source
// fetches raw items published inside the given window. Adapters are
// side-effect-free on shared state and may fail independently.
type Source interface {
	Name() string
	Priority() int
	Fetch(ctx context.Context, window time.Duration) ([]model.RawItem, error)
}
