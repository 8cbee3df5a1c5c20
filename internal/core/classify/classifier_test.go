package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/estima/internal/store"
)

func newStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.AddType("type-stalas", "Stalas", "stalas", "table")
	s.AddType("type-lentyna", "Lentyna", "shelf", "corner shelf")
	s.AddType("type-kita", "Kita")
	return s
}

func TestClassifyMatchesSynonym(t *testing.T) {
	c := NewClassifier(newStore())

	cls, err := c.Classify(context.Background(), "Stalas apvalus", "Marble-top table with brushed steel legs")
	require.NoError(t, err)
	assert.Equal(t, "type-stalas", cls.TypeID)
	assert.Equal(t, "Stalas", cls.TypeName)
	assert.Equal(t, "stalas", cls.MatchedPhrase)
}

func TestClassifyLongerPhraseWins(t *testing.T) {
	// "corner shelf" must be tested before its substring "shelf", whatever
	// order the store returns synonyms in.
	s := store.NewMemoryStore()
	s.AddType("type-lentyna", "Lentyna", "shelf")
	s.AddType("type-corner", "Kampine lentyna", "corner shelf")
	s.AddType("type-kita", "Kita")
	c := NewClassifier(s)

	cls, err := c.Classify(context.Background(), "corner shelf unit", "")
	require.NoError(t, err)
	assert.Equal(t, "type-corner", cls.TypeID)
	assert.Equal(t, "corner shelf", cls.MatchedPhrase)
}

func TestClassifyRequiresWordBoundary(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddType("type-stalas", "Stalas", "stalas")
	s.AddType("type-kita", "Kita")
	c := NewClassifier(s)

	// "pastalas" must not match the phrase "stalas".
	cls, err := c.Classify(context.Background(), "pastalas", "")
	require.NoError(t, err)
	assert.Equal(t, "Kita", cls.TypeName)
	assert.Empty(t, cls.MatchedPhrase)
}

func TestClassifyFallsBackToCatchAll(t *testing.T) {
	c := NewClassifier(newStore())

	cls, err := c.Classify(context.Background(), "Pakaba", "chrome coat hook")
	require.NoError(t, err)
	assert.Equal(t, "type-kita", cls.TypeID)
	assert.Equal(t, "Kita", cls.TypeName)
	assert.Empty(t, cls.MatchedPhrase)
}

func TestClassifyWithoutCatchAllType(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddType("type-stalas", "Stalas", "stalas")
	c := NewClassifier(s)

	cls, err := c.Classify(context.Background(), "unknown thing", "")
	require.NoError(t, err)
	assert.Empty(t, cls.TypeID)
	assert.Equal(t, CatchAllTypeName, cls.TypeName)
}

func TestClassifyEscapesRegexMetacharacters(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddType("type-weird", "Kita", "shelf (corner)")
	c := NewClassifier(s)

	cls, err := c.Classify(context.Background(), "big shelf (corner) unit", "")
	require.NoError(t, err)
	assert.Equal(t, "shelf (corner)", cls.MatchedPhrase)
}
