package problem_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/problem"
)

func TestConstraintUnmarshalRepeatEncounter(t *testing.T) {
	require := require.New(t)

	raw := `{"type":"RepeatEncounter","max_allowed_encounters":2,"penalty_weight":10}`
	var c problem.Constraint
	require.NoError(json.Unmarshal([]byte(raw), &c))
	require.Equal(problem.ConstraintRepeatEncounter, c.Kind)
	require.NotNil(c.RepeatEncounter)
	require.Equal(2, c.RepeatEncounter.MaxAllowedEncounters)
	require.Equal("squared", c.RepeatEncounter.PenaltyFunction, "default penalty_function should be squared")
	require.Equal(10.0, c.RepeatEncounter.PenaltyWeight)
}

func TestConstraintUnmarshalMustStayTogetherDefaultsWeight(t *testing.T) {
	require := require.New(t)

	raw := `{"type":"MustStayTogether","people":["p1","p2"]}`
	var c problem.Constraint
	require.NoError(json.Unmarshal([]byte(raw), &c))
	require.Equal(problem.ConstraintMustStayTogether, c.Kind)
	require.Equal([]string{"p1", "p2"}, c.MustStayTogether.People)
	require.Equal(1000.0, c.MustStayTogether.PenaltyWeight)
}

func TestConstraintUnmarshalUnknownType(t *testing.T) {
	var c problem.Constraint
	err := json.Unmarshal([]byte(`{"type":"Nonsense"}`), &c)
	require.Error(t, err)
}

func TestConstraintRoundTrip(t *testing.T) {
	require := require.New(t)

	raw := `{"type":"AttributeBalance","group_id":"g0","attribute_key":"team","desired_values":{"a":2,"b":2},"penalty_weight":50}`
	var c problem.Constraint
	require.NoError(json.Unmarshal([]byte(raw), &c))

	out, err := json.Marshal(c)
	require.NoError(err)

	var c2 problem.Constraint
	require.NoError(json.Unmarshal(out, &c2))
	require.Equal(c.Kind, c2.Kind)
	require.Equal(c.AttributeBalance, c2.AttributeBalance)
}

func TestInputValidateAggregatesErrors(t *testing.T) {
	in := problem.Input{
		Problem: problem.Definition{
			NumSessions: 0,
			People: []problem.Person{
				{ID: "p1"},
				{ID: "p1"},
			},
		},
	}
	err := in.Validate()
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "no groups defined")
	require.Contains(t, msg, "num_sessions must be >= 1")
	require.Contains(t, msg, "duplicate person id")
}

func TestInputValidateAcceptsFeasibleInput(t *testing.T) {
	in := problem.Input{
		Problem: problem.Definition{
			NumSessions: 2,
			People:      []problem.Person{{ID: "p1"}, {ID: "p2"}},
			Groups:      []problem.Group{{ID: "g1", Size: 2}},
		},
	}
	require.NoError(t, in.Validate())
}
