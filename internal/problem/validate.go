package problem

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate performs shape-level sanity checks only: non-empty people and
// groups, a positive session count, in-range per-person session lists,
// and unique IDs. Cross-referencing validation (unknown IDs referenced
// by constraints, clique-vs-capacity, forbidden-pair-in-clique, pin
// conflicts) belongs to internal/indexmap and internal/constraints,
// which see the integer-indexed form.
func (in Input) Validate() error {
	var errs *multierror.Error

	if len(in.Problem.People) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("problem: no people defined"))
	}
	if len(in.Problem.Groups) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("problem: no groups defined"))
	}
	if in.Problem.NumSessions < 1 {
		errs = multierror.Append(errs, fmt.Errorf("problem: num_sessions must be >= 1, got %d", in.Problem.NumSessions))
	}

	seenPerson := make(map[string]bool, len(in.Problem.People))
	for _, p := range in.Problem.People {
		if p.ID == "" {
			errs = multierror.Append(errs, fmt.Errorf("problem: person with empty id"))
			continue
		}
		if seenPerson[p.ID] {
			errs = multierror.Append(errs, fmt.Errorf("problem: duplicate person id %q", p.ID))
		}
		seenPerson[p.ID] = true

		if p.Sessions == nil {
			continue
		}
		for _, s := range *p.Sessions {
			if s < 0 || s >= in.Problem.NumSessions {
				errs = multierror.Append(errs, fmt.Errorf("problem: person %q references out-of-range session %d", p.ID, s))
			}
		}
	}

	seenGroup := make(map[string]bool, len(in.Problem.Groups))
	for _, g := range in.Problem.Groups {
		if g.ID == "" {
			errs = multierror.Append(errs, fmt.Errorf("problem: group with empty id"))
			continue
		}
		if seenGroup[g.ID] {
			errs = multierror.Append(errs, fmt.Errorf("problem: duplicate group id %q", g.ID))
		}
		seenGroup[g.ID] = true
		if g.Size < 1 {
			errs = multierror.Append(errs, fmt.Errorf("problem: group %q has non-positive size %d", g.ID, g.Size))
		}
	}

	return errs.ErrorOrNil()
}
