// Package fetchstate models the lifecycle of a view's data fetch as a tagged
// variant and guards it against stale responses.
package fetchstate

// Status names the variant of a State.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// State is one of Idle, Loading, Success or Failure. The set is closed:
// only this package can add variants.
type State[T any] interface {
	Status() Status
	isState()
}

// Idle means no fetch has started.
type Idle[T any] struct{}

// Loading means a fetch for Key is in flight.
type Loading[T any] struct {
	Key string
}

// Success holds the data fetched for Key.
type Success[T any] struct {
	Key  string
	Data T
}

// Failure holds the error that ended the fetch for Key.
type Failure[T any] struct {
	Key string
	Err error
}

func (Idle[T]) Status() Status    { return StatusIdle }
func (Loading[T]) Status() Status { return StatusLoading }
func (Success[T]) Status() Status { return StatusSuccess }
func (Failure[T]) Status() Status { return StatusFailure }

func (Idle[T]) isState()    {}
func (Loading[T]) isState() {}
func (Success[T]) isState() {}
func (Failure[T]) isState() {}

// Resolved builds the terminal state for a finished fetch.
func Resolved[T any](key string, data T, err error) State[T] {
	if err != nil {
		return Failure[T]{Key: key, Err: err}
	}
	return Success[T]{Key: key, Data: data}
}
