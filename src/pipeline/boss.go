package pipeline

import (
	"sync"
)

// theBoss is used to orchestrate the minions
type theBoss struct {
	info            *Info             // the runtime info for the pipeline
	queries         chan *query       // the boss uses this channel to receive queries from the streamer
	results         chan *queryResult // the minions send their results here
	minionRegister  []*minion         // used to keep a record of the minions
	receivedCount   int               // the number of queries the boss is sent during its lifetime
	matchedCount    int               // the number of queries with at least one match
	unsketchedCount int               // the number of queries that were too short to sketch
	classifiedCount int               // the number of queries assigned a best hit
}

// mapQueries is a function to start off the minions to sketch and match queries, returning their boss once all queries are done
func mapQueries(runtimeInfo *Info, inputChan chan *query, outputChan chan *queryResult) *theBoss {

	// create a boss to orchestrate the minions and collect stats
	boss := &theBoss{
		info:    runtimeInfo,
		queries: inputChan,
		results: outputChan,
	}

	// launch the minions
	numMinions := runtimeInfo.NumProc
	if numMinions < 1 {
		numMinions = 1
	}
	var wg sync.WaitGroup
	wg.Add(numMinions)
	boss.minionRegister = make([]*minion, numMinions)
	for i := 0; i < numMinions; i++ {
		boss.minionRegister[i] = newMinion(i, runtimeInfo, boss.queries, boss.results, &wg)
		boss.minionRegister[i].start()
	}

	// wait for the minions to run out of work
	wg.Wait()

	// get the counts
	for _, minion := range boss.minionRegister {
		received, matched, unsketched, classified := minion.finish()
		boss.receivedCount += received
		boss.matchedCount += matched
		boss.unsketchedCount += unsketched
		boss.classifiedCount += classified
	}
	return boss
}
