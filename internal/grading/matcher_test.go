package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_OperatorTokensAreLiteral(t *testing.T) {
	m, err := NewMatcher([]string{"$in", "$and", "$ne", "a.b"})
	require.NoError(t, err)

	// Unquoted, "$in" is an end anchor followed by "in" and never matches.
	assert.Equal(t, []string{"$in", "$and", "$ne", "a.b"}, m.Missing("in and ne axb"))
	assert.Empty(t, m.Missing(`{ $and: [{ x: { $in: [1] } }, { y: { $ne: 2 } }] } // a.b`))
}

func TestMatcher_CaseSensitive(t *testing.T) {
	m, err := NewMatcher([]string{"insertOne"})
	require.NoError(t, err)

	assert.Equal(t, []string{"insertOne"}, m.Missing("db.employees.insertone()"))
	assert.Empty(t, m.Missing("db.employees.insertOne()"))
}

func TestMatcher_MatchesInsideComments(t *testing.T) {
	m, err := NewMatcher([]string{"deleteMany"})
	require.NoError(t, err)

	assert.Empty(t, m.Missing("// TODO: deleteMany later"))
}

func TestMatcher_EmptyText(t *testing.T) {
	m, err := NewMatcher([]string{"find", "salary"})
	require.NoError(t, err)

	assert.Equal(t, []string{"find", "salary"}, m.Missing(""))
	assert.False(t, m.has("", 0))
}

func TestMatcher_RejectsEmptyToken(t *testing.T) {
	_, err := NewMatcher([]string{"find", ""})
	assert.Error(t, err)
}

func TestMatcher_RejectsInvalidUTF8Token(t *testing.T) {
	_, err := NewMatcher([]string{"find", "\xff"})
	assert.ErrorContains(t, err, "required token")
}
