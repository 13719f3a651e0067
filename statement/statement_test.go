package statement_test

import (
	"testing"

	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
	"github.com/stretchr/testify/require"
)

func buildSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()
	b.AddEntity("User", 1000).
		IDKey("id").
		String("name", 32).
		Int("age")
	sch, err := b.Build()
	require.NoError(t, err)
	return sch
}

func TestFrequencyResolvesOnlyAssignedMix(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)

	nameField, _ := sch.Entity(userID).FieldByName("name")
	s := statement.New("q1", statement.Query, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})

	require.Equal(t, 0.0, s.Frequency("reads"))
	s2 := s.WithFrequency("reads", 0.75)
	require.Equal(t, 0.75, s2.Frequency("reads"))
	require.Equal(t, 0.0, s2.Frequency("default"))
	require.Equal(t, 1.0, s.Frequency("default"), "WithFrequency must not mutate the receiver")
}

func TestModifiesIndex(t *testing.T) {
	sch := buildSchema(t)
	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	nameField, _ := sch.Entity(userID).FieldByName("name")
	ageField, _ := sch.Entity(userID).FieldByName("age")
	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)

	ix, err := index.New(sch,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}},
		path)
	require.NoError(t, err)

	update := statement.New("u1", statement.Update, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: ageField, ReachingKey: idField}})
	require.False(t, update.ModifiesIndex(ix), "age is not materialized in ix")

	updateName := statement.New("u2", statement.Update, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})
	require.True(t, updateName.ModifiesIndex(ix))
}
