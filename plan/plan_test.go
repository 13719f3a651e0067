package plan_test

import (
	"context"
	"testing"

	"github.com/kvschema/advisor/concurrent"
	"github.com/kvschema/advisor/enumerate"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/plan"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
	"github.com/stretchr/testify/require"
)

// fakeCostModel prices every step by the row counts it touches (one
// unit per row, plus one per write), so plan-selection tests don't
// depend on the real cost formulas costmodel.Default will supply.
type fakeCostModel struct{}

func (fakeCostModel) IndexLookupCost(sch *schema.Schema, ix *index.Index) float64 {
	return ix.EntriesPerPartition(sch)
}
func (fakeCostModel) FilterCost(sch *schema.Schema, rows float64, fields []schema.KeyedField) float64 {
	return rows
}
func (fakeCostModel) SortCost(sch *schema.Schema, rows float64) float64 { return rows }
func (fakeCostModel) LimitCost(sch *schema.Schema, n int) float64      { return float64(n) }
func (fakeCostModel) UpdateCost(sch *schema.Schema, ix *index.Index) float64 {
	return ix.EntriesPerPartition(sch) + 1
}

func TestPlansForSingleEntityRead(t *testing.T) {
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

	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)

	q := statement.New("q1", statement.Query, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})

	cands, err := enumerate.Candidates(context.Background(), sch, []*statement.Statement{q}, concurrent.Sequential())
	require.NoError(t, err)

	plans, err := plan.PlansFor(sch, q, cands, fakeCostModel{})
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	found := false
	for _, p := range plans {
		if len(p.Steps) == 1 && p.Steps[0].Kind == plan.IndexLookup {
			found = true
		}
	}
	require.True(t, found, "expected at least one single-step index-lookup plan")
}

func TestPlansForJoinWithOrderAndLimit(t *testing.T) {
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

	plans, err := plan.PlansFor(sch, q, cands, fakeCostModel{})
	require.NoError(t, err)

	found := false
	for _, p := range plans {
		hasLookup, hasSort, hasLimit := false, false, false
		lookups := 0
		for _, st := range p.Steps {
			switch st.Kind {
			case plan.IndexLookup:
				hasLookup = true
				lookups++
			case plan.Sort:
				hasSort = true
			case plan.Limit:
				hasLimit = true
			}
		}
		// The denormalized join index already orders by ts then id,
		// so a correct plan answers this query with a single lookup,
		// no separate sort, and a trailing limit.
		if hasLookup && lookups == 1 && !hasSort && hasLimit {
			found = true
		}
	}
	require.True(t, found, "expected a single-lookup plan with a limit step and no explicit sort")
}

func TestMutationPlanInsertNeedsNoSupport(t *testing.T) {
	b := schema.NewBuilder()
	b.AddEntity("User", 1000).
		IDKey("id").
		String("name", 32)
	sch, err := b.Build()
	require.NoError(t, err)

	userID, _ := sch.EntityByName("User")
	idField, _ := sch.Entity(userID).FieldByName("id")
	nameField, _ := sch.Entity(userID).FieldByName("name")

	ix, err := index.Simple(sch, userID)
	require.NoError(t, err)

	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)
	ins := statement.New("i1", statement.Insert, path, nil, nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})

	p, err := plan.MutationPlan(sch, ins, ix, []*index.Index{ix}, fakeCostModel{})
	require.NoError(t, err)
	require.Nil(t, p.Support)
	require.Len(t, p.Steps, 1)
	require.Equal(t, plan.InsertStep, p.Steps[0].Kind)
}

func TestMutationPlanUpdateNeedsSupport(t *testing.T) {
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

	ix, err := index.Simple(sch, userID)
	require.NoError(t, err)

	path, err := schema.NewKeyPath(sch, idField)
	require.NoError(t, err)
	upd := statement.New("u1", statement.Update, path,
		[]schema.KeyedField{{Field: idField, ReachingKey: idField}},
		nil, nil, nil,
		[]schema.KeyedField{{Field: nameField, ReachingKey: idField}})

	p, err := plan.MutationPlan(sch, upd, ix, []*index.Index{ix}, fakeCostModel{})
	require.NoError(t, err)
	require.NotNil(t, p.Support)
	require.Len(t, p.Steps, 1)
	require.Equal(t, plan.InsertStep, p.Steps[0].Kind)
}
