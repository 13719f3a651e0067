package costmodel_test

import (
	"testing"

	"github.com/kvschema/advisor/costmodel"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/stretchr/testify/require"
)

func buildSchema(t *testing.T) (*schema.Schema, schema.EntityHandle) {
	t.Helper()
	b := schema.NewBuilder()
	b.AddEntity("User", 1000).
		IDKey("id").
		String("name", 32)
	sch, err := b.Build()
	require.NoError(t, err)
	userID, _ := sch.EntityByName("User")
	return sch, userID
}

func TestDefaultLookupCostScalesWithPartitionSize(t *testing.T) {
	sch, userID := buildSchema(t)
	ix, err := index.Simple(sch, userID)
	require.NoError(t, err)

	cm := costmodel.NewDefault()
	require.Greater(t, cm.IndexLookupCost(sch, ix), 0.0)
}

func TestDefaultSortCostForSingleRowIsRowCount(t *testing.T) {
	cm := costmodel.NewDefault()
	require.Equal(t, 1.0, cm.SortCost(nil, 1))
}

func TestDefaultFilterCostIsZeroWithNoFields(t *testing.T) {
	cm := costmodel.NewDefault()
	require.Equal(t, 0.0, cm.FilterCost(nil, 100, nil))
}

func TestLookupUnknownModel(t *testing.T) {
	_, err := costmodel.Lookup("does-not-exist")
	require.ErrorIs(t, err, costmodel.ErrUnknownModel)
}

func TestLookupDefaultModelRegistered(t *testing.T) {
	cm, err := costmodel.Lookup("default")
	require.NoError(t, err)
	require.NotNil(t, cm)
}
