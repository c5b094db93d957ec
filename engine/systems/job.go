package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/**
 * @brief A fixed pool of worker goroutines draining a shared queue. Jobs only
 * touch CPU memory; anything using the graphics context goes back to the
 * submitting goroutine through the job callbacks.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup

	mutex    sync.Mutex
	shutdown bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemShutdown = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan metadata.JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job metadata.JobTask) {
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}
	if job.OnStart == nil {
		return
	}
	result, err := job.OnStart(job.InputParams)
	if err != nil {
		core.LogError(err.Error())
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(result)
	}
}

/**
 * @brief Shuts the job system down. Queued jobs still run; Submit fails afterwards.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.shutdown {
		js.mutex.Unlock()
		return nil
	}
	js.shutdown = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	if js.shutdown {
		return ErrJobSystemShutdown
	}
	js.jobQueue <- jt
	return nil
}

// SubmitAndWait queues every job and returns once all of them finished.
func (js *JobSystem) SubmitAndWait(jobs []metadata.JobTask) error {
	var wg sync.WaitGroup
	for i := range jobs {
		job := jobs[i]
		previous := job.OnCompletionCallback
		job.OnCompletionCallback = func() {
			if previous != nil {
				previous()
			}
			wg.Done()
		}
		wg.Add(1)
		if err := js.Submit(job); err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()
	return nil
}

func (js *JobSystem) Workers() int {
	return js.numWorkers
}
