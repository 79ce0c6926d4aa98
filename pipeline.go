package meshcheck

import "sync"

// task fans fn out over data in contiguous chunks, one chunk per worker, and
// blocks until all workers finish. Workers share only read-only state; fn
// must write solely through data it owns (its element or worker-local
// accumulators).
func task[T any](workersCount int, data []T, fn func(data T)) {
	if workersCount < 1 {
		workersCount = 1
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// taskRanges is the batch form of task: it hands each worker one contiguous
// index range [start, end) plus its worker id, so workers can keep local
// result sets that the caller merges after the wait.
func taskRanges(workersCount, n int, fn func(workerID, start, end int)) {
	if workersCount < 1 {
		workersCount = 1
	}

	var wg sync.WaitGroup
	chunkSize := (n + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			fn(workerID, start, end)
		}(workerID, start, end)
	}
	wg.Wait()
}
