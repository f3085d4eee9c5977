package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id    string
	owner string
}

func (i item) GetID() string      { return i.id }
func (i item) GetOwnerID() string { return i.owner }

var _ Owned[string] = item{}

func TestCollectionOrderAndReplace(t *testing.T) {
	c := NewCollection([]item{{"a", "x"}, {"b", "y"}, {"a", "z"}})
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a", "b"}, c.IDs())
	got, ok := c.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "z", got.owner, "later item wins")

	c.Put(item{"c", "x"})
	assert.Equal(t, []item{{"a", "z"}, {"b", "y"}, {"c", "x"}}, c.Items())

	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("b"))
	assert.False(t, c.Has("b"))
	assert.Equal(t, []string{"a", "c"}, c.IDs())
}

func TestCollectionRemoveWhereAndFilter(t *testing.T) {
	c := NewCollection([]item{{"a", "x"}, {"b", "y"}, {"c", "x"}})
	byX := func(i item) bool { return i.owner == "x" }

	f := c.Filter(byX)
	assert.Equal(t, []string{"a", "c"}, f.IDs())
	assert.Equal(t, 3, c.Len(), "filter leaves the source alone")

	assert.Equal(t, 2, c.RemoveWhere(byX))
	assert.Equal(t, []string{"b"}, c.IDs())
	assert.Equal(t, 0, NewEmptyCollection[item, string]().Len())
}

func TestCollectUniqueToSlice(t *testing.T) {
	c := NewCollection([]item{{"a", "x"}, {"b", ""}, {"c", "y"}, {"d", "x"}})
	owners := CollectUniqueToSlice(c, func(i item) *string {
		if i.owner == "" {
			return nil
		}
		return &i.owner
	})
	assert.Equal(t, []string{"x", "y"}, owners)
	assert.Len(t, ModelsToIDMap(c.Items()), 4)
}
