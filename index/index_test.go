package index_test

import (
	"testing"

	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/stretchr/testify/require"
)

func buildSchema(t *testing.T) *schema.Schema {
	t.Helper()
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
	return sch
}

func TestSimpleIndex(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	ix, err := index.Simple(sch, userID)
	require.NoError(t, err)
	require.Len(t, ix.Hash, 1)
	require.Empty(t, ix.Order)
	require.Len(t, ix.Extra, 1) // "name"; "tweets" is a foreign key, not scalar
}

func TestNewRejectsEmptyHash(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	path, _ := schema.NewKeyPath(sch, idField)
	_, err := index.New(sch, nil, nil, []schema.KeyedField{{Field: idField, ReachingKey: idField}}, path)
	require.ErrorIs(t, err, index.ErrEmptyHash)
}

func TestNewRejectsOverlap(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	path, _ := schema.NewKeyPath(sch, idField)
	kf := schema.KeyedField{Field: idField, ReachingKey: idField}
	_, err := index.New(sch, []schema.KeyedField{kf}, []schema.KeyedField{kf}, nil, path)
	require.ErrorIs(t, err, index.ErrOverlappingFields)
}

func TestKeyStableAcrossEqualTuples(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	ix1, err := index.Simple(sch, userID)
	require.NoError(t, err)
	ix2, err := index.Simple(sch, userID)
	require.NoError(t, err)
	require.Equal(t, ix1.Key(), ix2.Key())
	require.True(t, ix1.Equal(ix2))
}

func TestSizeScalesWithRowCount(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	tweetID, _ := sch.EntityByName("Tweet")
	idField, _ := sch.Entity(userID).FieldByName("id")
	tweetsField, _ := sch.Entity(userID).FieldByName("tweets")
	path, err := schema.NewKeyPath(sch, idField, tweetsField)
	require.NoError(t, err)

	nameField, _ := sch.Entity(userID).FieldByName("name")
	bodyField, _ := sch.Entity(tweetID).FieldByName("body")
	tweetIdentity, _ := sch.Entity(tweetID).FieldByName("id")
	hash := []schema.KeyedField{{Field: nameField, ReachingKey: idField}}
	order := []schema.KeyedField{{Field: tweetIdentity, ReachingKey: tweetsField}}
	extra := []schema.KeyedField{{Field: bodyField, ReachingKey: tweetsField}}
	ix, err := index.New(sch, hash, order, extra, path)
	require.NoError(t, err)

	// 10 Users each fan out to 10 Tweets (100 Tweets / 10 Users) via
	// the "many" side of the edge, so 100 rows are materialized, each
	// name(32) + Tweet.id(8) + body(280) bytes wide.
	require.InDelta(t, 100, ix.Size(sch)/float64(32+8+280), 0.001)
}
