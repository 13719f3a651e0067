package enumerate_test

import (
	"context"
	"testing"

	"github.com/kvschema/advisor/concurrent"
	"github.com/kvschema/advisor/enumerate"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
	"github.com/stretchr/testify/require"
)

func buildUserSchema(t *testing.T) (*schema.Schema, schema.FieldHandle, schema.FieldHandle, schema.FieldHandle) {
	t.Helper()
	b := schema.NewBuilder()
	b.AddEntity("User", 1000).
		IDKey("id").
		String("name", 32).
		Int("age")
	sch, err := b.Build()
	require.NoError(t, err)
	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	nameField, _ := sch.Entity(userID).FieldByName("name")
	ageField, _ := sch.Entity(userID).FieldByName("age")
	return sch, idField, nameField, ageField
}

// TestSingleEntityReadProducesCoveringIndex exercises spec.md §8
// scenario 1: SELECT name FROM User WHERE id=? must yield a candidate
// with hash={id}, order=∅, and name in extra.
func TestSingleEntityReadProducesCoveringIndex(t *testing.T) {
	sch, idField, nameField, _ := buildUserSchema(t)
	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)

	q := statement.New("q1", statement.Query, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})

	cands, err := enumerate.Candidates(context.Background(), sch, []*statement.Statement{q}, concurrent.Sequential())
	require.NoError(t, err)
	require.NotEmpty(t, cands)

	found := false
	for _, ix := range cands {
		if len(ix.Hash) == 1 && ix.Hash[0].Field == idField &&
			len(ix.Order) == 0 &&
			containsField(ix.Extra, nameField) {
			found = true
		}
	}
	require.True(t, found, "expected an index with hash={id}, order=∅, extra⊇{name}")
}

func TestEnumerationDeduplicatesByKey(t *testing.T) {
	sch, idField, nameField, _ := buildUserSchema(t)
	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)

	eq := []schema.KeyedField{{Field: idField, ReachingKey: idField}}
	sel := []schema.KeyedField{{Field: nameField, ReachingKey: idField}}
	q1 := statement.New("q1", statement.Query, path, eq, nil, nil, nil, sel)
	q2 := statement.New("q2", statement.Query, path, eq, nil, nil, nil, sel)

	cands, err := enumerate.Candidates(context.Background(), sch, []*statement.Statement{q1, q2}, concurrent.New(4))
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ix := range cands {
		require.False(t, seen[ix.Key()], "duplicate index key in candidate set")
		seen[ix.Key()] = true
	}
}

// TestJoinWithOrderAndLimit exercises spec.md §8 scenario 2:
// SELECT Tweet.body FROM Tweet.author WHERE User.name=? ORDER BY
// Tweet.ts LIMIT 10 should produce a candidate with
// hash={User.name}, order=[Tweet.ts, Tweet.id], extra={Tweet.body}.
func TestJoinWithOrderAndLimit(t *testing.T) {
	b := schema.NewBuilder()
	b.AddEntity("User", 10).
		IDKey("id").
		String("name", 32).
		ForeignKey("tweets", "Tweet", schema.Many, "author")
	b.AddEntity("Tweet", 100).
		IDKey("id").
		String("body", 280).
		Date("ts").
		ForeignKey("author", "User", schema.One, "tweets")
	sch, err := b.Build()
	require.NoError(t, err)

	userID, _ := sch.EntityByName("User")
	tweetID, _ := sch.EntityByName("Tweet")
	userIdentity, _ := sch.Entity(userID).FieldByName("id")
	nameField, _ := sch.Entity(userID).FieldByName("name")
	tweetsField, _ := sch.Entity(userID).FieldByName("tweets")
	bodyField, _ := sch.Entity(tweetID).FieldByName("body")
	tsField, _ := sch.Entity(tweetID).FieldByName("ts")
	tweetIdentity, _ := sch.Entity(tweetID).FieldByName("id")

	path, err := schema.NewKeyPath(sch, userIdentity, tweetsField)
	require.NoError(t, err)

	limit := 10
	q := statement.New("q2", statement.Query, path,
		[]schema.KeyedField{{Field: nameField, ReachingKey: userIdentity}},
		nil,
		[]schema.KeyedField{{Field: tsField, ReachingKey: tweetsField}},
		&limit,
		[]schema.KeyedField{{Field: bodyField, ReachingKey: tweetsField}})

	cands, err := enumerate.Candidates(context.Background(), sch, []*statement.Statement{q}, concurrent.Sequential())
	require.NoError(t, err)

	wantHash := []schema.KeyedField{{Field: nameField, ReachingKey: userIdentity}}
	wantOrder := []schema.KeyedField{
		{Field: tsField, ReachingKey: tweetsField},
		{Field: tweetIdentity, ReachingKey: tweetsField},
	}
	found := false
	for _, ix := range cands {
		if equalFieldSlices(ix.Hash, wantHash) && equalFieldSlices(ix.Order, wantOrder) &&
			containsField(ix.Extra, bodyField) {
			found = true
		}
	}
	require.True(t, found, "expected hash={User.name}, order=[Tweet.ts, Tweet.id], extra⊇{Tweet.body}")
}

func equalFieldSlices(a, b []schema.KeyedField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsField(fields []schema.KeyedField, f schema.FieldHandle) bool {
	for _, kf := range fields {
		if kf.Field == f {
			return true
		}
	}
	return false
}
