// Package placement builds the initial feasible schedule: per session,
// pins are seated first, then cliques (in randomized group order), then
// the remaining participants, with bounded retries before giving up.
package placement

import (
	"fmt"

	"groupmix/internal/state"
)

// Failed reports that no feasible placement could be found for a
// session within the retry budget.
type Failed struct {
	Session int
	Reason  string
}

func (e *Failed) Error() string {
	return fmt.Sprintf("placement: session %d: %s", e.Session, e.Reason)
}

const maxRetriesPerSession = 50

// Place fills s.Schedule for every session, then finalizes locations and
// scores. s.RNG drives every random choice, so the same seed reproduces
// the same initial placement.
func Place(s *state.State) error {
	for sess := 0; sess < s.NumSessions; sess++ {
		if err := placeSession(s, sess); err != nil {
			return err
		}
	}
	s.Finalize()
	return nil
}

func placeSession(s *state.State, sess int) error {
	var lastErr error
	for attempt := 0; attempt < maxRetriesPerSession; attempt++ {
		if err := tryPlaceSession(s, sess); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return &Failed{Session: sess, Reason: lastErr.Error()}
}

func tryPlaceSession(s *state.State, sess int) error {
	numGroups := s.Maps.NumGroups()
	groups := make([][]int, numGroups)
	remaining := make([]int, numGroups)
	for g := 0; g < numGroups; g++ {
		remaining[g] = s.GroupSize[g]
	}
	placed := make([]bool, s.Maps.NumPeople())

	for _, pin := range s.Pre.Pins {
		if !pin.Sessions[sess] || !s.Maps.PersonSessions[pin.Person][sess] {
			continue
		}
		if remaining[pin.Group] <= 0 {
			return fmt.Errorf("pinned person %q has no room in group %q", s.Maps.PersonIdxToID[pin.Person], s.Maps.GroupIdxToID[pin.Group])
		}
		groups[pin.Group] = append(groups[pin.Group], pin.Person)
		remaining[pin.Group]--
		placed[pin.Person] = true
	}

	cliqueOrder := shuffledIndices(s, len(s.Pre.Cliques))
	for _, ci := range cliqueOrder {
		cl := s.Pre.Cliques[ci]
		if !cl.Sessions[sess] {
			continue
		}
		var attending []int
		home := -1 // group a pinned member of the clique already sits in
		for _, p := range cl.Members {
			if placed[p] {
				for _, pin := range s.Pre.Pins {
					if pin.Person == p && pin.Sessions[sess] {
						home = pin.Group
					}
				}
				continue // already seated by a pin
			}
			if s.Maps.PersonSessions[p][sess] {
				attending = append(attending, p)
			}
		}
		if len(attending) == 0 {
			continue
		}
		g, err := home, error(nil)
		if g == -1 {
			g, err = pickGroupWithRoom(s, remaining, len(attending), sess)
		} else if remaining[g] < len(attending) {
			err = fmt.Errorf("clique pinned to group %q has no room for its other members", s.Maps.GroupIdxToID[g])
		}
		if err != nil {
			return err
		}
		groups[g] = append(groups[g], attending...)
		remaining[g] -= len(attending)
		for _, p := range attending {
			placed[p] = true
		}
	}

	var rest []int
	for p := 0; p < s.Maps.NumPeople(); p++ {
		if !placed[p] && s.Maps.PersonSessions[p][sess] {
			rest = append(rest, p)
		}
	}
	shuffleInts(s, rest)
	for _, p := range rest {
		g, err := pickGroupWithRoom(s, remaining, 1, sess)
		if err != nil {
			return err
		}
		groups[g] = append(groups[g], p)
		remaining[g]--
	}

	s.Schedule[sess] = groups
	return nil
}

// pickGroupWithRoom chooses a random group (among those with enough
// spare capacity) to keep placement from always favoring low-index
// groups.
func pickGroupWithRoom(s *state.State, remaining []int, need int, sess int) (int, error) {
	var candidates []int
	for g, r := range remaining {
		if r >= need {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no group has room for %d more people in session %d", need, sess)
	}
	return candidates[s.RNG.Intn(len(candidates))], nil
}

func shuffledIndices(s *state.State, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	shuffleInts(s, idx)
	return idx
}

func shuffleInts(s *state.State, xs []int) {
	for i := len(xs) - 1; i > 0; i-- {
		j := s.RNG.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
