package pipeline

import (
	"sync"
)

// minion is the base data type
type minion struct {
	id              int
	info            *Info
	inputChannel    chan *query
	outputChannel   chan *queryResult
	receivedCount   int
	matchedCount    int
	unsketchedCount int
	classifiedCount int
	wg              *sync.WaitGroup
}

// newMinion is the constructor function
func newMinion(id int, runtimeInfo *Info, inputChannel chan *query, outputChannel chan *queryResult, wg *sync.WaitGroup) *minion {
	return &minion{
		id:            id,
		info:          runtimeInfo,
		inputChannel:  inputChannel,
		outputChannel: outputChannel,
		wg:            wg,
	}
}

// start is a method to start the minion running
func (minion *minion) start() {
	go func() {
		defer minion.wg.Done()
		for {

			// pull queries from the queue until done
			q, ok := <-minion.inputChannel
			if !ok {
				return
			}
			minion.receivedCount++

			// sketch the query and look it up in the index
			result := minion.info.index.Query(q.record.ID, q.record.Seq)
			switch {
			case result.Err != nil:
				minion.unsketchedCount++
			case len(result.Hits) > 0:
				minion.matchedCount++
				if result.Classify(minion.info.MinScore, minion.info.MinHits) != nil {
					minion.classifiedCount++
				}
			}

			// send the result on to be collected
			minion.outputChannel <- &queryResult{order: q.order, result: result}
		}
	}()
}

// finish is a method to return the counts from this minion, it should only be called once the minion has stopped
func (minion *minion) finish() (int, int, int, int) {
	return minion.receivedCount, minion.matchedCount, minion.unsketchedCount, minion.classifiedCount
}
