package integrator

import (
	"runtime"
	"sort"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/photon"
)

// emissionTask is one worker's share of the photon emission pass
type emissionTask struct {
	TaskID          int          // For deterministic merging
	Rays            int          // Photon rays to trace
	CausticCapacity int          // Local caustic list cap
	GlobalCapacity  int          // Local global list cap
	Sampler         core.Sampler // Private sample generator cloned from the scene's
}

// emissionResult holds the private photon lists and light counters of one task
type emissionResult struct {
	TaskID     int
	Caustics   []photon.Photon
	Global     []photon.Photon
	LightCount []int // Rays emitted per light index
	Traced     int
}

// emissionPool runs photon emission tasks in parallel
type emissionPool struct {
	taskQueue   chan emissionTask
	resultQueue chan emissionResult
	workers     []*emissionWorker
	numWorkers  int
	wg          sync.WaitGroup
}

// emissionWorker traces the photon rays of one task at a time
type emissionWorker struct {
	ID          int
	tracer      *photonTracer
	taskQueue   chan emissionTask
	resultQueue chan emissionResult
}

// newEmissionPool creates a pool of numWorkers workers tracing photons through scene.
// Room is reserved for numTasks tasks so submitting never blocks.
func newEmissionPool(scene core.Scene, tracer photonTracer, numWorkers, numTasks int) *emissionPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}

	ep := &emissionPool{
		taskQueue:   make(chan emissionTask, numTasks),
		resultQueue: make(chan emissionResult, numTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		t := tracer
		t.scene = scene
		ep.workers = append(ep.workers, &emissionWorker{
			ID:          i,
			tracer:      &t,
			taskQueue:   ep.taskQueue,
			resultQueue: ep.resultQueue,
		})
	}
	return ep
}

// Start begins all workers
func (ep *emissionPool) Start() {
	for _, worker := range ep.workers {
		ep.wg.Add(1)
		go worker.run(&ep.wg)
	}
}

// Stop waits for the submitted tasks to finish and closes the result queue
func (ep *emissionPool) Stop() {
	close(ep.taskQueue)
	ep.wg.Wait()
	close(ep.resultQueue)
}

// SubmitTask queues a task
func (ep *emissionPool) SubmitTask(task emissionTask) {
	ep.taskQueue <- task
}

// Results drains the result queue after Stop, ordered by TaskID
func (ep *emissionPool) Results() []emissionResult {
	var results []emissionResult
	for result := range ep.resultQueue {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].TaskID < results[j].TaskID })
	return results
}

// GetNumWorkers returns the number of workers in the pool
func (ep *emissionPool) GetNumWorkers() int {
	return ep.numWorkers
}

func (w *emissionWorker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.tracer.trace(task)
	}
}

// DefaultWorkers returns the logical core count
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// splitEven divides total into parts shares that differ by at most one
func splitEven(total, parts, index int) int {
	share := total / parts
	if index < total%parts {
		share++
	}
	return share
}
