package worker

import (
	"context"
)

// Worker background job, Run blocks until ctx is done
type Worker interface {
	Run(ctx context.Context) error
}
