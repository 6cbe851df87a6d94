package state

// RawPairSwap exchanges p1 and p2's groups within sess without touching
// Contacts or the running scores. It exists for callers (internal/
// genetic's mutation step) that build several structural edits before a
// single Recalculate recomputes everything at once, rather than paying for
// an incremental delta update per edit.
func (s *State) RawPairSwap(sess, p1, p2 int) {
	s.swapInPlace(sess, p1, p2)
}
