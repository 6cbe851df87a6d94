package indexmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/indexmap"
	"groupmix/internal/problem"
)

func TestBuildBasic(t *testing.T) {
	require := require.New(t)

	sessions := []int{0, 2}
	def := problem.Definition{
		NumSessions: 3,
		People: []problem.Person{
			{ID: "alice", Attributes: map[string]string{"team": "a"}},
			{ID: "bob", Attributes: map[string]string{"team": "b"}, Sessions: &sessions},
		},
		Groups: []problem.Group{{ID: "g1", Size: 2}, {ID: "g2", Size: 2}},
	}

	m, err := indexmap.Build(def)
	require.NoError(err)
	require.Equal(2, m.NumPeople())
	require.Equal(2, m.NumGroups())

	alice, err := m.PersonIdx("alice")
	require.NoError(err)
	bob, err := m.PersonIdx("bob")
	require.NoError(err)

	// alice attends every session
	require.Equal([]bool{true, true, true}, m.PersonSessions[alice])
	// bob only attends sessions 0 and 2
	require.Equal([]bool{true, false, true}, m.PersonSessions[bob])

	teamKey, err := m.AttrKeyIdx("team")
	require.NoError(err)
	require.NotEqual(m.PersonAttrs[alice][teamKey], m.PersonAttrs[bob][teamKey])
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	def := problem.Definition{
		NumSessions: 1,
		People: []problem.Person{
			{ID: "alice"},
			{ID: "alice"},
		},
		Groups: []problem.Group{{ID: "g1", Size: 2}},
	}
	_, err := indexmap.Build(def)
	require.Error(t, err)
}

func TestPersonIdxUnknown(t *testing.T) {
	def := problem.Definition{
		NumSessions: 1,
		People:      []problem.Person{{ID: "alice"}},
		Groups:      []problem.Group{{ID: "g1", Size: 1}},
	}
	m, err := indexmap.Build(def)
	require.NoError(t, err)

	_, err = m.PersonIdx("ghost")
	require.Error(t, err)
	var unk *indexmap.UnknownID
	require.ErrorAs(t, err, &unk)
	require.Equal(t, "person", unk.Kind)
}
