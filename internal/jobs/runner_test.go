package jobs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type tickerJob struct {
	runs    atomic.Int32
	release chan struct{}
}

func (j *tickerJob) Schedule() string {
	return "@every 1s"
}

func (j *tickerJob) Run() {
	j.runs.Add(1)
	if j.release != nil {
		<-j.release
	}
}

func TestTaskExecutor_RunsOnSchedule(t *testing.T) {
	job := &tickerJob{}

	executor := NewTaskExecutor([]CronJob{job})
	executor.Run()
	defer executor.Stop()

	time.Sleep(2500 * time.Millisecond)
	assert.GreaterOrEqual(t, job.runs.Load(), int32(2))
}

func TestTaskExecutor_SkipsRunningJob(t *testing.T) {
	job := &tickerJob{release: make(chan struct{})}

	executor := NewTaskExecutor([]CronJob{job})
	executor.Run()
	defer executor.Stop()

	// the first run blocks across several ticks; the later ticks must be
	// skipped, not stacked
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.release)
}
