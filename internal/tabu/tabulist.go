package tabu

// tabuList is a ring buffer plus a lookup map: O(1) IsTabu/Add, with the
// oldest entry evicted from the map as the ring wraps.
type tabuList struct {
	key []uint64
	exp []int
	i   int
	m   map[uint64]int
}

func newTabuList(capacity int) *tabuList {
	return &tabuList{
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
		m:   make(map[uint64]int, capacity),
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	expiry, ok := t.m[k]
	return ok && expiry > iter
}

func (t *tabuList) Add(k uint64, expiry int) {
	if oldKey := t.key[t.i]; t.m[oldKey] == t.exp[t.i] {
		delete(t.m, oldKey)
	}
	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry
	t.i = (t.i + 1) % len(t.key)
}

// pairKey packs a session and the two smaller/larger person indices of a
// pair move into one lookup key.
func pairKey(sess, p1, p2 int) uint64 {
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	return uint64(sess)<<42 | uint64(p1)<<21 | uint64(p2)
}

// groupPairKey packs a session and an unordered pair of groups into one
// lookup key, used for multi-person (clique) swaps: the tabu list
// forbids re-swapping the same two groups in the same session for the
// tenure, rather than tracking the exact member sets.
func groupPairKey(sess, gA, gB int) uint64 {
	if gA > gB {
		gA, gB = gB, gA
	}
	return uint64(1)<<63 | uint64(sess)<<42 | uint64(gA)<<21 | uint64(gB)
}
