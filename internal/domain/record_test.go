package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUnmarshalPreservesKeyOrder(t *testing.T) {
	data := []byte(`{"zeta":1,"alpha":"a","mid":{"inner":true},"list":[{"x":1},2]}`)

	rec := NewRecord()
	require.NoError(t, json.Unmarshal(data, rec))

	assert.Equal(t, []string{"zeta", "alpha", "mid", "list"}, rec.Keys())

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
	// key order must survive the round trip, not just set equality
	assert.Equal(t, string(data), string(out))
}

func TestRecordUnmarshalRejectsNonObject(t *testing.T) {
	rec := NewRecord()
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), rec))
}

func TestRecordString(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"s":"hi","n":42,"f":1.5,"b":true,"nul":null}`), rec))

	assert.Equal(t, "hi", rec.String("s"))
	assert.Equal(t, "42", rec.String("n"))
	assert.Equal(t, "1.5", rec.String("f"))
	assert.Equal(t, "true", rec.String("b"))
	assert.Equal(t, "", rec.String("nul"))
	assert.Equal(t, "", rec.String("missing"))
}

func TestRecordBool(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"t":true,"f":false,"st":"true","sf":"no","n":1}`), rec))

	assert.True(t, rec.Bool("t"))
	assert.False(t, rec.Bool("f"))
	assert.True(t, rec.Bool("st"))
	assert.False(t, rec.Bool("sf"))
	assert.False(t, rec.Bool("n"))
	assert.False(t, rec.Bool("missing"))
}

func TestRecordNumberCoercion(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"n":20,"s":"15.5","bad":"n/a","nul":null}`), rec))

	assert.Equal(t, 20.0, rec.Number("n"))
	assert.Equal(t, 15.5, rec.Number("s"))
	assert.Equal(t, 0.0, rec.Number("bad"))
	assert.Equal(t, 0.0, rec.Number("nul"))
	assert.Equal(t, 0.0, rec.Number("missing"))
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 20.0, CoerceFloat(json.Number("20")))
	assert.Equal(t, 1.5, CoerceFloat("1.5"))
	assert.Equal(t, 0.0, CoerceFloat("not a number"))
	assert.Equal(t, 0.0, CoerceFloat(nil))
	assert.Equal(t, 1.0, CoerceFloat(true))
	assert.Equal(t, 0.0, CoerceFloat([]any{}))
}

func TestRecordSetAndClone(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", "1")
	rec.Set("b", "2")
	rec.Set("a", "updated") // existing key keeps its position

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, "updated", rec.String("a"))

	clone := rec.Clone()
	clone.Set("c", "3")
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestRecordRecords(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{"id":"1"},{"id":"2"}],"scalar":5}`), rec))

	records := rec.Records("data")
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].String("id"))
	assert.Nil(t, rec.Records("scalar"))
	assert.Nil(t, rec.Records("missing"))
}
