package problem

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ConstraintKind discriminates the Constraint tagged union on its "type"
// field.
type ConstraintKind string

const (
	ConstraintRepeatEncounter  ConstraintKind = "RepeatEncounter"
	ConstraintAttributeBalance ConstraintKind = "AttributeBalance"
	ConstraintImmovablePerson  ConstraintKind = "ImmovablePerson"
	ConstraintMustStayTogether ConstraintKind = "MustStayTogether"
	ConstraintCannotBeTogether ConstraintKind = "CannotBeTogether"
)

// Constraint is one entry of the input's constraint union. Exactly one of
// the params fields is populated, selected by Kind.
type Constraint struct {
	Kind ConstraintKind

	RepeatEncounter  *RepeatEncounterParams
	AttributeBalance *AttributeBalanceParams
	ImmovablePerson  *ImmovablePersonParams
	MustStayTogether *GroupingParams
	CannotBeTogether *GroupingParams
}

type discriminator struct {
	Type ConstraintKind `json:"type"`
}

// UnmarshalJSON reads the "type" discriminator, then decodes the
// remaining fields into the matching params struct via mapstructure
// (TagName "json", so the params structs need no second tag vocabulary).
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var d discriminator
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("problem: decoding constraint discriminator: %w", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("problem: decoding constraint body: %w", err)
	}
	delete(generic, "type")

	c.Kind = d.Type
	switch d.Type {
	case ConstraintRepeatEncounter:
		out := &RepeatEncounterParams{PenaltyFunction: "squared"}
		if err := decodeParams(generic, out); err != nil {
			return err
		}
		c.RepeatEncounter = out
	case ConstraintAttributeBalance:
		out := &AttributeBalanceParams{}
		if err := decodeParams(generic, out); err != nil {
			return err
		}
		c.AttributeBalance = out
	case ConstraintImmovablePerson:
		out := &ImmovablePersonParams{}
		if err := decodeParams(generic, out); err != nil {
			return err
		}
		c.ImmovablePerson = out
	case ConstraintMustStayTogether:
		out := &GroupingParams{PenaltyWeight: defaultConstraintWeight}
		if err := decodeParams(generic, out); err != nil {
			return err
		}
		c.MustStayTogether = out
	case ConstraintCannotBeTogether:
		out := &GroupingParams{PenaltyWeight: defaultConstraintWeight}
		if err := decodeParams(generic, out); err != nil {
			return err
		}
		c.CannotBeTogether = out
	default:
		return fmt.Errorf("problem: unknown constraint type %q", d.Type)
	}
	return nil
}

// MarshalJSON re-flattens the populated params struct back under a
// "type"-tagged object, so a Constraint round-trips through JSON.
func (c Constraint) MarshalJSON() ([]byte, error) {
	var body any
	switch c.Kind {
	case ConstraintRepeatEncounter:
		body = c.RepeatEncounter
	case ConstraintAttributeBalance:
		body = c.AttributeBalance
	case ConstraintImmovablePerson:
		body = c.ImmovablePerson
	case ConstraintMustStayTogether:
		body = c.MustStayTogether
	case ConstraintCannotBeTogether:
		body = c.CannotBeTogether
	default:
		return nil, fmt.Errorf("problem: cannot marshal constraint with unset kind")
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	flat["type"] = string(c.Kind)
	return json.Marshal(flat)
}

const defaultConstraintWeight = 1000.0

func decodeParams(generic map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("problem: building constraint decoder: %w", err)
	}
	if err := dec.Decode(generic); err != nil {
		return fmt.Errorf("problem: decoding constraint params: %w", err)
	}
	return nil
}
