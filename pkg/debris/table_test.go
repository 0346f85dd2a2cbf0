package debris_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/testsupport/basedata"
)

func TestTable_order(t *testing.T) {
	tbl := basedata.SampleTable()
	names := []string{}
	for _, r := range tbl.All() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"far-1", "far-2", "medium-1", "coplanar-1"}, names)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, "medium-1", tbl.Records()[2].Name)
}

func TestTable_immutable(t *testing.T) {
	src := []debris.Record{basedata.FarDebris("a"), basedata.FarDebris("b")}
	tbl := debris.NewTable(src)
	src[0].Name = "changed"
	assert.Equal(t, "a", tbl.Records()[0].Name)

	recs := tbl.Records()
	recs[1].Mass = 1
	assert.Equal(t, debris.DefaultMass, tbl.Records()[1].Mass)
}

func TestTable_nil(t *testing.T) {
	var tbl *debris.Table
	assert.Equal(t, 0, tbl.Len())
	assert.Nil(t, tbl.Records())
	for range tbl.All() {
		t.Fatal("nil table yields records")
	}
}

func TestTable_breakEarly(t *testing.T) {
	count := 0
	for range basedata.SampleTable().All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
