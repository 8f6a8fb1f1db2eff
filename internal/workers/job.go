package workers

import "context"

// Job is one unit of work for a WorkerPool.
type Job[T any] struct {
	Description JobDescriptor
	ExecFn      ExecutionFn[T]
	Args        T
}

type ExecutionFn[T any] func(ctx context.Context, args T) (T, error)

type JobID string
type JobType string

// JobDescriptor identifies a job in results and logs. Metadata is free-form
// context attached to failure logs.
type JobDescriptor struct {
	ID       JobID
	JobType  JobType
	Metadata map[string]string
}

type Result[T any] struct {
	Value       T
	Err         error
	Description JobDescriptor
}

func (j Job[T]) execute(ctx context.Context) Result[T] {
	res := Result[T]{Description: j.Description}
	res.Value, res.Err = j.ExecFn(ctx, j.Args)
	if res.Err != nil {
		var zero T
		res.Value = zero
	}
	return res
}
