package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher runs notification tasks in the background. A task's outcome is
// logged and reported but never returned to whoever queued it.
type Dispatcher struct {
	log      *logrus.Logger
	timeout  time.Duration
	onResult func(error)
	wg       sync.WaitGroup
}

func NewDispatcher(log *logrus.Logger, timeout time.Duration, onResult func(error)) *Dispatcher {
	if onResult == nil {
		onResult = func(error) {}
	}
	return &Dispatcher{log: log, timeout: timeout, onResult: onResult}
}

// Go starts task on its own goroutine with a context detached from the
// caller's, so the task outlives the request that queued it.
func (d *Dispatcher) Go(name string, task func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := task(ctx)
		d.onResult(err)
		if err != nil {
			d.log.WithError(err).WithField("task", name).Warn("notification not delivered")
			return
		}
		d.log.WithField("task", name).Debug("notification delivered")
	}()
}

// Wait blocks until every started task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
