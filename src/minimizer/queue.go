package minimizer

// Candidate is a k-mer hash and the start position of the k-mer
type Candidate struct {
	Hash uint32
	Pos  int
}

// Less orders candidates by hash, then by position
func (c Candidate) Less(other Candidate) bool {
	if c.Hash != other.Hash {
		return c.Hash < other.Hash
	}
	return c.Pos < other.Pos
}

// Queue is a fixed capacity circular monotonic queue used to track the minimum hash in a sliding window
//
// the occupied slots run from start to end (wrapping at the window size) and are held in ascending hash order,
// so the window minimum is always found at start
type Queue struct {
	window int
	buf    []Candidate
	start  int // slot of the current minimum
	end    int // next free slot
	size   int // number of occupied slots
	seen   int // number of positions inserted so far
}

// NewQueue is the constructor for a Queue spanning w consecutive k-mers
func NewQueue(w int) *Queue {
	// init the buffer with sentinel values
	buf := make([]Candidate, w)
	for i := range buf {
		buf[i] = Candidate{Hash: Sentinel, Pos: -1}
	}
	return &Queue{
		window: w,
		buf:    buf,
	}
}

// Insert adds the hash of the k-mer starting at pos to the queue and returns the window minimum if it has changed
//
// positions must be inserted consecutively, starting at 0
// nothing is returned until the first full window has been seen, or while the window only holds Sentinel hashes
func (q *Queue) Insert(hash uint32, pos int) (Candidate, bool) {
	q.seen++
	previous, hadMin := q.Min()

	// evict the minimum if it has slid out of the window, at most one candidate can expire per position
	if q.size != 0 && q.buf[q.start].Pos <= pos-q.window {
		q.buf[q.start] = Candidate{Hash: Sentinel, Pos: -1}
		q.start = q.next(q.start)
		q.size--
	}

	// a Sentinel only moves the window on
	if hash != Sentinel {

		// drop everything at the back with a hash >= the new one, these can't become the minimum before the new k-mer leaves the window
		for q.size != 0 {
			last := q.prev(q.end)
			if q.buf[last].Hash < hash {
				break
			}
			q.end = last
			q.size--
		}
		q.buf[q.end] = Candidate{Hash: hash, Pos: pos}
		q.end = q.next(q.end)
		q.size++
	}

	// don't report anything until the first window is full
	if q.seen < q.window {
		return Candidate{}, false
	}
	min, ok := q.Min()
	if !ok {
		return Candidate{}, false
	}
	if q.seen == q.window || !hadMin || min.Pos != previous.Pos {
		return min, true
	}
	return Candidate{}, false
}

// Min returns the current window minimum, ok is false if the window holds no valid hash
func (q *Queue) Min() (Candidate, bool) {
	if q.size == 0 {
		return Candidate{}, false
	}
	return q.buf[q.start], true
}

// Len returns the number of candidates held in the queue
func (q *Queue) Len() int {
	return q.size
}

// next and prev step around the circular buffer
func (q *Queue) next(i int) int {
	i++
	if i == q.window {
		return 0
	}
	return i
}

func (q *Queue) prev(i int) int {
	if i == 0 {
		return q.window - 1
	}
	return i - 1
}
