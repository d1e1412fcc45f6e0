package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/gen/gentest"
	"github.com/syssam/derive/compiler/load"
)

func TestNewType(t *testing.T) {
	lt := gentest.Type("User", []string{"//derive:compare"},
		gentest.Field("ID", load.ValueInt),
		gentest.Method("Age", 0, 1, load.ValueInt),
		gentest.Embedded("Base"),
		gentest.Field("Admin", "", gentest.Static()),
	)
	typ := gen.NewType(lt)

	require.Len(t, typ.Members, 4)
	assert.IsType(t, &gen.Field{}, typ.Members[0])
	assert.IsType(t, &gen.Accessor{}, typ.Members[1])
	assert.IsType(t, &gen.Element{}, typ.Members[2])
	assert.Equal(t, load.ValueAny, typ.Members[3].Info().Value)
	assert.True(t, typ.Members[3].Info().Static)
	assert.Equal(t, []string{"ID", "Age", "Base", "Admin"}, gen.Names(typ.Members))

	assert.True(t, gen.IsValueHolder(typ.Members[0]))
	assert.False(t, gen.IsValueHolder(typ.Members[1]))
	assert.False(t, gen.IsValueHolder(typ.Members[3]))

	assert.Equal(t, "a.ID", gen.Extract(typ.Members[0], "a"))
	assert.Equal(t, "a.Age()", gen.Extract(typ.Members[1], "a"))
	assert.Empty(t, gen.Extract(typ.Members[2], "a"))
}

func TestType_Names(t *testing.T) {
	tests := []struct {
		name      string
		enclosing []string
		sane      string
		unit      string
		exported  string
		file      string
	}{
		{"User", nil, "User", "shop._User_Comparable", "User", "user_comparable_gen.go"},
		{"point", nil, "point", "shop._point_Comparable", "Point", "point_comparable_gen.go"},
		{"Line", []string{"Order"}, "Order.Line", "shop._Order_Line_Comparable", "OrderLine", "order_line_comparable_gen.go"},
		{"item", []string{"order", "line"}, "order.line.item", "shop._order_line_item_Comparable", "OrderLineItem", "order_line_item_comparable_gen.go"},
	}
	for _, tt := range tests {
		t.Run(tt.sane, func(t *testing.T) {
			lt := gentest.Type(tt.name, nil)
			lt.Enclosing = tt.enclosing
			typ := gen.NewType(lt)
			assert.Equal(t, tt.sane, typ.SaneName())
			assert.Equal(t, tt.unit, typ.UnitName("_Comparable"))
			assert.Equal(t, tt.exported, typ.ExportedName())
			assert.Equal(t, tt.file, typ.FileName("comparable"))
			assert.Equal(t, "shop."+tt.sane, typ.Subject())
		})
	}
}

func rank(ranks map[string]int) func(gen.Member) int {
	return func(m gen.Member) int { return ranks[m.Info().Name] }
}

func TestSortByRank(t *testing.T) {
	typ := gen.NewType(gentest.Type("Row", nil,
		gentest.Field("A", load.ValueInt),
		gentest.Field("B", load.ValueInt),
		gentest.Field("C", load.ValueInt),
		gentest.Field("D", load.ValueInt),
		gentest.Field("E", load.ValueInt),
	))
	ms := typ.Members
	gen.SortByRank(ms, rank(map[string]int{"A": 2, "B": 1, "C": 1, "D": 3, "E": -5}))
	assert.Equal(t, []string{"E", "B", "C", "A", "D"}, gen.Names(ms))
}

func TestDisplayNames_Dedup(t *testing.T) {
	typ := gen.NewType(gentest.Type("User", nil,
		gentest.Field("a", load.ValueInt),
		gentest.Field("b", load.ValueInt),
		gentest.Field("c", load.ValueInt),
		gentest.Field("d", load.ValueInt),
	))
	display := map[string]string{"a": "x", "b": "b", "c": "x", "d": "b"}
	explicit := map[string]bool{"c": true, "d": true}
	names := gen.DisplayNames{
		Name:     func(m gen.Member) string { return display[m.Info().Name] },
		Explicit: func(m gen.Member) bool { return explicit[m.Info().Name] },
	}
	bag := diag.NewBag()
	out := names.Dedup(typ, typ.Members, "Stringer", diag.BagReporter{Bag: bag})
	assert.Equal(t, []string{"c", "d"}, gen.Names(out))
	assert.Zero(t, bag.Len())

	explicit["a"] = true
	out = names.Dedup(typ, typ.Members, "Stringer", diag.BagReporter{Bag: bag})
	assert.Equal(t, []string{"a", "c", "d"}, gen.Names(out))
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, `Duplicate Stringer display name "x", also used by a`, bag.Items()[0].Message)
	assert.Equal(t, "shop.User.c", bag.Items()[0].Subject)
}

func TestSelector(t *testing.T) {
	typ := gen.NewType(gentest.Type("User", nil,
		gentest.Field("ID", load.ValueInt),
		gentest.Field("Name", load.ValueString, gentest.Mark("//derive:compare.include")),
		gentest.Method("Age", 0, 1, load.ValueInt),
		gentest.Method("Bad", 3, 1, load.ValueInt, gentest.Mark("//derive:compare.exclude")),
	))

	t.Run("default policy", func(t *testing.T) {
		s := &gen.Selector{Capability: "compare", Title: "Compare"}
		assert.Equal(t, []string{"ID", "Name"}, gen.Names(s.Select(typ)))
	})

	t.Run("exclude by default", func(t *testing.T) {
		s := &gen.Selector{Capability: "compare", Title: "Compare", ExcludeByDefault: true}
		assert.Equal(t, []string{"Name"}, gen.Names(s.Select(typ)))
	})

	t.Run("needless hook", func(t *testing.T) {
		bag := diag.NewBag()
		s := &gen.Selector{
			Capability: "compare",
			Title:      "Compare",
			Needless:   func(gen.Member) bool { return true },
			Reporter:   diag.BagReporter{Bag: bag},
		}
		s.Select(typ)
		bag.Sort()
		items := bag.Items()
		require.Len(t, items, 2)
		assert.Equal(t, diag.SevWarning, items[0].Severity)
		assert.Equal(t, "Needless Compare Include", items[0].Message)
		assert.Equal(t, diag.SevError, items[1].Severity)
		assert.Equal(t, "Compare doesn't work with a method with arguments.", items[1].Message)
	})

	t.Run("other capability sees no markers", func(t *testing.T) {
		s := &gen.Selector{Capability: "stringer", Title: "Stringer", Reporter: diag.NopReporter{}}
		assert.Equal(t, []string{"ID", "Name"}, gen.Names(s.Select(typ)))
	})
}
