package naming

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("noun")
	require.NoError(t, err)
	assert.Equal(t, Noun, c)
	assert.Equal(t, "NN", c.Tag())

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, Verb, c)
	assert.Equal(t, "VB", c.Tag())

	_, err = ParseCategory("adjective")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParseIdentifierKind(t *testing.T) {
	k, err := ParseIdentifierKind("vars")
	require.NoError(t, err)
	assert.Equal(t, AttributeName, k)
	assert.Equal(t, "vars", k.String())

	k, err = ParseIdentifierKind("FUNC")
	require.NoError(t, err)
	assert.Equal(t, DeclarationName, k)

	_, err = ParseIdentifierKind("classes")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNodeKindMatches(t *testing.T) {
	assert.True(t, NodeDeclarationName.Matches(DeclarationName))
	assert.False(t, NodeDeclarationName.Matches(AttributeName))
	assert.True(t, NodeAttributeName.Matches(AttributeName))
	assert.False(t, NodeOther.Matches(DeclarationName))
	assert.False(t, NodeOther.Matches(AttributeName))
}

func TestFileErrorReason(t *testing.T) {
	err := &FileError{Path: "a.py", Err: fmt.Errorf("%w: line 3", ErrParseFailure)}
	assert.Equal(t, "parse_failure", err.Reason())
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Contains(t, err.Error(), "a.py")

	err = &FileError{Path: "b.py", Err: ErrSourceUnreadable}
	assert.Equal(t, "source_unreadable", err.Reason())
}
