// Package indexmap builds the bidirectional string-id <-> dense-index
// translation tables the rest of the core operates on. Everything
// downstream of this package works in small contiguous integers; this is
// the only place string IDs are looked up.
package indexmap

import (
	"fmt"

	"groupmix/internal/problem"
)

// UnknownID reports a reference to a person, group or attribute id that
// was never defined in the problem. It is always a bug in the caller's
// input, not a transient condition.
type UnknownID struct {
	Kind string // "person", "group", "attribute key", "attribute value"
	ID   string
}

func (e *UnknownID) Error() string {
	return fmt.Sprintf("indexmap: unknown %s id %q", e.Kind, e.ID)
}

// Maps holds every id<->index translation table needed by the core.
type Maps struct {
	PersonIDToIdx map[string]int
	PersonIdxToID []string

	GroupIDToIdx map[string]int
	GroupIdxToID []string

	// AttrKeyToIdx/AttrIdxToKey index the distinct attribute keys seen
	// across all people (e.g. "gender", "department").
	AttrKeyToIdx map[string]int
	AttrIdxToKey []string

	// AttrValToIdx[k] maps a value string to a dense index local to
	// attribute key k; AttrIdxToVal[k] is the reverse.
	AttrValToIdx []map[string]int
	AttrIdxToVal [][]string

	// PersonAttrs[p][k] is the value index for person p's attribute k,
	// or -1 if the person has no value for that key.
	PersonAttrs [][]int

	// PersonSessions[p][s] is true when person p participates in
	// session s. A person with a nil Sessions field in the input
	// participates in every session.
	PersonSessions [][]bool

	NumSessions int
	GroupSize   []int
}

// Build constructs Maps from a problem definition. It returns an error
// for a duplicate person or group id. It does not check for empty
// people/groups (problem.Input.Validate does that), and it drops
// out-of-range session indices from a person's Sessions list silently.
func Build(def problem.Definition) (*Maps, error) {
	m := &Maps{
		PersonIDToIdx: make(map[string]int, len(def.People)),
		PersonIdxToID: make([]string, 0, len(def.People)),
		GroupIDToIdx:  make(map[string]int, len(def.Groups)),
		GroupIdxToID:  make([]string, 0, len(def.Groups)),
		AttrKeyToIdx:  make(map[string]int),
		NumSessions:   def.NumSessions,
	}

	for _, g := range def.Groups {
		if _, dup := m.GroupIDToIdx[g.ID]; dup {
			return nil, fmt.Errorf("indexmap: duplicate group id %q", g.ID)
		}
		m.GroupIDToIdx[g.ID] = len(m.GroupIdxToID)
		m.GroupIdxToID = append(m.GroupIdxToID, g.ID)
		m.GroupSize = append(m.GroupSize, g.Size)
	}

	for _, p := range def.People {
		if _, dup := m.PersonIDToIdx[p.ID]; dup {
			return nil, fmt.Errorf("indexmap: duplicate person id %q", p.ID)
		}
		m.PersonIDToIdx[p.ID] = len(m.PersonIdxToID)
		m.PersonIdxToID = append(m.PersonIdxToID, p.ID)
		for k := range p.Attributes {
			if _, ok := m.AttrKeyToIdx[k]; !ok {
				m.AttrKeyToIdx[k] = len(m.AttrIdxToKey)
				m.AttrIdxToKey = append(m.AttrIdxToKey, k)
				m.AttrValToIdx = append(m.AttrValToIdx, make(map[string]int))
				m.AttrIdxToVal = append(m.AttrIdxToVal, nil)
			}
		}
	}

	m.PersonAttrs = make([][]int, len(m.PersonIdxToID))
	for pi, p := range def.People {
		row := make([]int, len(m.AttrIdxToKey))
		for i := range row {
			row[i] = -1
		}
		for k, v := range p.Attributes {
			ki := m.AttrKeyToIdx[k]
			vi, ok := m.AttrValToIdx[ki][v]
			if !ok {
				vi = len(m.AttrIdxToVal[ki])
				m.AttrValToIdx[ki][v] = vi
				m.AttrIdxToVal[ki] = append(m.AttrIdxToVal[ki], v)
			}
			row[ki] = vi
		}
		m.PersonAttrs[pi] = row
	}

	m.PersonSessions = make([][]bool, len(m.PersonIdxToID))
	for pi, p := range def.People {
		mask := make([]bool, def.NumSessions)
		if p.Sessions == nil {
			for s := range mask {
				mask[s] = true
			}
		} else {
			for _, s := range *p.Sessions {
				if s >= 0 && s < def.NumSessions {
					mask[s] = true
				}
			}
		}
		m.PersonSessions[pi] = mask
	}

	return m, nil
}

// PersonIdx resolves a person id, returning UnknownID if undefined.
func (m *Maps) PersonIdx(id string) (int, error) {
	idx, ok := m.PersonIDToIdx[id]
	if !ok {
		return 0, &UnknownID{Kind: "person", ID: id}
	}
	return idx, nil
}

// GroupIdx resolves a group id, returning UnknownID if undefined.
func (m *Maps) GroupIdx(id string) (int, error) {
	idx, ok := m.GroupIDToIdx[id]
	if !ok {
		return 0, &UnknownID{Kind: "group", ID: id}
	}
	return idx, nil
}

// AttrKeyIdx resolves an attribute key, returning UnknownID if no person
// carries it.
func (m *Maps) AttrKeyIdx(key string) (int, error) {
	idx, ok := m.AttrKeyToIdx[key]
	if !ok {
		return 0, &UnknownID{Kind: "attribute key", ID: key}
	}
	return idx, nil
}

// NumPeople is the total number of participants.
func (m *Maps) NumPeople() int { return len(m.PersonIdxToID) }

// NumGroups is the total number of groups per session.
func (m *Maps) NumGroups() int { return len(m.GroupIdxToID) }
