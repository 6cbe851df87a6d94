// Package constraints implements the constraint preprocessor: it turns
// the loosely-typed MustStayTogether/CannotBeTogether/ImmovablePerson
// constraint entries into cliques (via union-find), forbidden pairs, and
// pins, validating structural feasibility along the way.
package constraints

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"groupmix/internal/indexmap"
	"groupmix/internal/problem"
)

// Clique is a set of people who must always share a group, for the
// sessions named by Sessions (the intersection of every contributing
// MustStayTogether constraint's own session mask).
type Clique struct {
	Members       []int
	Sessions      []bool
	PenaltyWeight float64
}

// ForbiddenPair is two people who must never share a group, for the
// sessions named by Sessions.
type ForbiddenPair struct {
	P1, P2        int
	Sessions      []bool
	PenaltyWeight float64
}

// Pin fixes a person to a group for the sessions named by Sessions.
type Pin struct {
	Person   int
	Group    int
	Sessions []bool
}

// Preprocessed is the validated, index-space output of preprocessing.
type Preprocessed struct {
	Cliques        []Clique
	PersonToClique []int // -1 when the person belongs to no clique
	ForbiddenPairs []ForbiddenPair
	Pins           []Pin
}

// Preprocess validates and lowers the constraint list. It returns every
// structural problem found (unknown ids, oversized cliques, forbidden
// pairs inside a clique, conflicting pins, a clique split across pins)
// aggregated via multierror, rather than stopping at the first.
func Preprocess(maps *indexmap.Maps, cs []problem.Constraint) (*Preprocessed, error) {
	var errs *multierror.Error
	n := maps.NumPeople()

	d := newDSU(n)
	rootMask := make(map[int][]bool)
	rootWeight := make(map[int]float64)
	inGrouping := make([]bool, n) // participates in >=1 MustStayTogether

	for _, c := range cs {
		if c.Kind != problem.ConstraintMustStayTogether {
			continue
		}
		g := c.MustStayTogether
		mask := sessionMask(g.Sessions, maps.NumSessions)
		idxs := make([]int, 0, len(g.People))
		ok := true
		for _, pid := range g.People {
			pi, err := maps.PersonIdx(pid)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("MustStayTogether: %w", err))
				ok = false
				continue
			}
			idxs = append(idxs, pi)
			inGrouping[pi] = true
		}
		if !ok || len(idxs) < 2 {
			continue
		}
		// Fold in the mask and weight of every clique this constraint
		// joins, not only the one its first member already belongs to.
		weight := g.PenaltyWeight
		for _, pi := range idxs {
			r := d.find(pi)
			if existing, ok := rootMask[r]; ok {
				mask = intersectMask(mask, existing)
			}
			if rootWeight[r] > weight {
				weight = rootWeight[r]
			}
		}
		for i := 1; i < len(idxs); i++ {
			d.union(idxs[0], idxs[i])
		}
		root := d.find(idxs[0])
		rootMask[root] = mask
		rootWeight[root] = weight
	}

	personToClique := make([]int, n)
	for i := range personToClique {
		personToClique[i] = -1
	}

	rootToClique := make(map[int]int)
	var cliques []Clique
	for p := 0; p < n; p++ {
		if !inGrouping[p] {
			continue
		}
		root := d.find(p)
		ci, ok := rootToClique[root]
		if !ok {
			ci = len(cliques)
			rootToClique[root] = ci
			cliques = append(cliques, Clique{
				Sessions:      rootMask[root],
				PenaltyWeight: rootWeight[root],
			})
		}
		cliques[ci].Members = append(cliques[ci].Members, p)
		personToClique[p] = ci
	}

	maxGroupSize := 0
	for _, sz := range maps.GroupSize {
		if sz > maxGroupSize {
			maxGroupSize = sz
		}
	}
	for _, cl := range cliques {
		if len(cl.Members) > maxGroupSize {
			errs = multierror.Append(errs, fmt.Errorf(
				"constraints: clique of %d people exceeds the largest group size (%d)",
				len(cl.Members), maxGroupSize))
		}
	}

	var forbidden []ForbiddenPair
	for _, c := range cs {
		if c.Kind != problem.ConstraintCannotBeTogether {
			continue
		}
		g := c.CannotBeTogether
		mask := sessionMask(g.Sessions, maps.NumSessions)
		idxs := make([]int, 0, len(g.People))
		for _, pid := range g.People {
			pi, err := maps.PersonIdx(pid)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("CannotBeTogether: %w", err))
				continue
			}
			idxs = append(idxs, pi)
		}
		for i := 0; i < len(idxs); i++ {
			for j := i + 1; j < len(idxs); j++ {
				p1, p2 := idxs[i], idxs[j]
				if personToClique[p1] != -1 && personToClique[p1] == personToClique[p2] {
					errs = multierror.Append(errs, fmt.Errorf(
						"constraints: CannotBeTogether pair (%s, %s) also belongs to the same MustStayTogether clique",
						maps.PersonIdxToID[p1], maps.PersonIdxToID[p2]))
					continue
				}
				forbidden = append(forbidden, ForbiddenPair{
					P1: p1, P2: p2, Sessions: mask, PenaltyWeight: g.PenaltyWeight,
				})
			}
		}
	}

	var pins []Pin
	// pinnedAt[person][session] remembers the group a person is already
	// pinned to, to detect conflicting ImmovablePerson entries.
	pinnedAt := make(map[int]map[int]int)
	for _, c := range cs {
		if c.Kind != problem.ConstraintImmovablePerson {
			continue
		}
		p := c.ImmovablePerson
		pi, err := maps.PersonIdx(p.PersonID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("ImmovablePerson: %w", err))
			continue
		}
		gi, err := maps.GroupIdx(p.GroupID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("ImmovablePerson: %w", err))
			continue
		}
		mask := make([]bool, maps.NumSessions)
		for _, s := range p.Sessions {
			if s >= 0 && s < maps.NumSessions {
				mask[s] = true
			}
		}
		if pinnedAt[pi] == nil {
			pinnedAt[pi] = make(map[int]int)
		}
		conflict := false
		for s, on := range mask {
			if !on {
				continue
			}
			if prevGroup, ok := pinnedAt[pi][s]; ok && prevGroup != gi {
				errs = multierror.Append(errs, fmt.Errorf(
					"constraints: person %q is pinned to two different groups in session %d",
					p.PersonID, s))
				conflict = true
				continue
			}
			pinnedAt[pi][s] = gi
		}
		if conflict {
			continue
		}
		pins = append(pins, Pin{Person: pi, Group: gi, Sessions: mask})
	}

	// A clique's members must all land in the same group wherever the
	// clique applies, so any two pins on the same clique that disagree
	// on the group for a shared session are a structural conflict, not
	// just a pin-vs-pin one.
	cliqueGroupAt := make(map[int]map[int]int) // clique idx -> session -> group
	for _, pin := range pins {
		ci := personToClique[pin.Person]
		if ci == -1 {
			continue
		}
		if cliqueGroupAt[ci] == nil {
			cliqueGroupAt[ci] = make(map[int]int)
		}
		for s, on := range pin.Sessions {
			if !on {
				continue
			}
			if prevGroup, ok := cliqueGroupAt[ci][s]; ok && prevGroup != pin.Group {
				errs = multierror.Append(errs, fmt.Errorf(
					"constraints: MustStayTogether clique has members pinned to different groups (%q and %q) in session %d",
					maps.GroupIdxToID[prevGroup], maps.GroupIdxToID[pin.Group], s))
				continue
			}
			cliqueGroupAt[ci][s] = pin.Group
		}
	}

	return &Preprocessed{
		Cliques:        cliques,
		PersonToClique: personToClique,
		ForbiddenPairs: forbidden,
		Pins:           pins,
	}, errs.ErrorOrNil()
}

func sessionMask(sessions *[]int, numSessions int) []bool {
	mask := make([]bool, numSessions)
	if sessions == nil {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	for _, s := range *sessions {
		if s >= 0 && s < numSessions {
			mask[s] = true
		}
	}
	return mask
}

func intersectMask(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}
