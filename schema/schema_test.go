package schema_test

import (
	"testing"

	"github.com/kvschema/advisor/schema"
	"github.com/stretchr/testify/require"
)

func buildUserTweet(t *testing.T) (*schema.Schema, schema.FieldHandle, schema.FieldHandle) {
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

	userID, _ := sch.EntityByName("User")
	tweetID, _ := sch.EntityByName("Tweet")
	idField, _ := sch.Entity(userID).FieldByName("id")
	authorField, _ := sch.Entity(tweetID).FieldByName("author")
	return sch, idField, authorField
}

func TestBuilderResolvesReverseForeignKeys(t *testing.T) {
	sch, idField, authorField := buildUserTweet(t)

	userID, _ := sch.EntityByName("User")
	require.Equal(t, userID, sch.Field(idField).Parent)

	author := sch.Field(authorField)
	tweetsField, _ := sch.Entity(userID).FieldByName("tweets")
	require.Equal(t, tweetsField, author.FK.Reverse)

	tweets := sch.Field(tweetsField)
	require.Equal(t, authorField, tweets.FK.Reverse)
}

func TestBuilderRejectsMissingIdentity(t *testing.T) {
	b := schema.NewBuilder()
	b.AddEntity("NoKey", 1).Int("x")
	_, err := b.Build()
	require.ErrorIs(t, err, schema.ErrMissingIdentity)
}

func TestBuilderRejectsDuplicateFieldNames(t *testing.T) {
	b := schema.NewBuilder()
	b.AddEntity("E", 1).IDKey("id").Int("x").Int("x")
	_, err := b.Build()
	require.ErrorIs(t, err, schema.ErrDuplicateName)
}

func TestBuilderRejectsDanglingForeignKey(t *testing.T) {
	b := schema.NewBuilder()
	b.AddEntity("E", 1).IDKey("id").ForeignKey("fk", "Ghost", schema.One, "back")
	_, err := b.Build()
	require.ErrorIs(t, err, schema.ErrUnresolvedForeignKey)
}

func TestFieldCardinalityDefaultsToParentCount(t *testing.T) {
	sch, _, authorField := buildUserTweet(t)
	author := sch.Field(authorField)
	tweetID, _ := sch.EntityByName("Tweet")
	require.Equal(t, sch.Entity(tweetID).Count, author.Cardinality(sch))
}
