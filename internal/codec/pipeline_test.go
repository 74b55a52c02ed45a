package codec

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(Options{})
}

func TestLoadBoolean_NativeZeroOne(t *testing.T) {
	p := newPipeline(t)

	v, err := p.Load(T(Boolean), int64(0))
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = p.Load(T(Boolean), int64(1))
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestLoadBoolean_OtherIntegersPassThrough(t *testing.T) {
	p := newPipeline(t)

	for _, n := range []int64{-1, 2, 5, 100} {
		v, err := p.Load(T(Boolean), n)
		require.NoError(t, err)
		assert.Equal(t, n, v, "integer %d must load unchanged", n)
	}
}

func TestLoadBoolean_TaggedNative(t *testing.T) {
	p := newPipeline(t)

	v, err := p.Load(T(Boolean), Int(1))
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestBoolean_RoundTrip(t *testing.T) {
	p := newPipeline(t)

	for _, b := range []bool{true, false} {
		dumped, err := p.Dump(T(Boolean), b)
		require.NoError(t, err)
		loaded, err := p.Load(T(Boolean), dumped)
		require.NoError(t, err)
		assert.Equal(t, b, loaded)
	}
}

func TestDumpBoolean_TaggedInteger(t *testing.T) {
	p := newPipeline(t)

	dumped, err := p.Dump(T(Boolean), true)
	require.NoError(t, err)
	assert.Equal(t, Int(1), dumped)

	dumped, err = p.Dump(T(Boolean), false)
	require.NoError(t, err)
	assert.Equal(t, Int(0), dumped)
}

func TestLoadDate_ValidTriple(t *testing.T) {
	p := newPipeline(t)

	d := CalDate{Year: 2021, Month: time.February, Day: 28}
	loaded, err := p.Load(T(Date), d)
	require.NoError(t, err)
	assert.Equal(t, d, loaded)
}

func TestLoadDate_ImpossibleTriple(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Load(T(Date), CalDate{Year: 2021, Month: time.February, Day: 30})
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeInvalidDate), "got %v", err)
}

func TestLoadDate_Text(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(Date), "2019-12-31")
	require.NoError(t, err)
	assert.Equal(t, CalDate{Year: 2019, Month: time.December, Day: 31}, loaded)

	_, err = p.Load(T(Date), "2021-02-30")
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeInvalidDate))
}

func TestDate_RoundTrip(t *testing.T) {
	p := newPipeline(t)

	d := CalDate{Year: 2000, Month: time.February, Day: 29}
	dumped, err := p.Dump(T(Date), d)
	require.NoError(t, err)
	loaded, err := p.Load(T(Date), dumped)
	require.NoError(t, err)
	assert.Equal(t, d, loaded)
}

func TestLoadDateTime_ISO8601(t *testing.T) {
	p := newPipeline(t)

	tests := []struct {
		text string
		want time.Time
	}{
		{"2011-05-06T13:33:37", time.Date(2011, 5, 6, 13, 33, 37, 0, time.UTC)},
		{"2011-05-06 13:33:37", time.Date(2011, 5, 6, 13, 33, 37, 0, time.UTC)},
		{"2011-05-06T13:33:37Z", time.Date(2011, 5, 6, 13, 33, 37, 0, time.UTC)},
		{"2011-05-06T13:33:37.123456", time.Date(2011, 5, 6, 13, 33, 37, 123456000, time.UTC)},
	}
	for _, tc := range tests {
		loaded, err := p.Load(T(NaiveDateTime), tc.text)
		require.NoError(t, err, "text %q", tc.text)
		assert.True(t, tc.want.Equal(loaded.(time.Time)), "text %q: got %v", tc.text, loaded)
	}
}

func TestLoadDateTime_Malformed(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Load(T(NaiveDateTime), "not-a-date")
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeInvalidTimestamp), "got %v", err)
}

func TestLoadDateTime_StructuredParts(t *testing.T) {
	p := newPipeline(t)

	parts := DateTimeParts{
		Date:        CalDate{Year: 2021, Month: time.July, Day: 4},
		Hour:        12,
		Minute:      30,
		Second:      15,
		Microsecond: 250000,
	}
	loaded, err := p.Load(T(UTCDateTime), parts)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 4, 12, 30, 15, 250000000, time.UTC), loaded)
}

func TestLoadDateTime_OutOfRangeParts(t *testing.T) {
	p := newPipeline(t)

	parts := DateTimeParts{
		Date: CalDate{Year: 2021, Month: time.July, Day: 4},
		Hour: 25,
	}
	_, err := p.Load(T(UTCDateTime), parts)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeInvalidTimestamp))
}

func TestUTCDateTime_ZeroOffset(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(UTCDateTime), "2011-05-06T13:33:37+02:00")
	require.NoError(t, err)
	ts := loaded.(time.Time)
	_, offset := ts.Zone()
	assert.Equal(t, 0, offset)
	assert.Equal(t, time.Date(2011, 5, 6, 11, 33, 37, 0, time.UTC), ts)
}

func TestLoadUUID(t *testing.T) {
	p := newPipeline(t)
	id := uuid.MustParse("b3c5a3f2-8f6e-4a8a-9d14-2f6c1f1a9b77")

	loaded, err := p.Load(T(BinaryID), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, loaded)

	loaded, err = p.Load(T(BinaryID), Text(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, loaded)

	raw, _ := id.MarshalBinary()
	loaded, err = p.Load(T(BinaryID), raw)
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestLoadUUID_Invalid(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Load(T(BinaryID), "zz-not-a-uuid")
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeInvalidUUID), "got %v", err)
}

func TestBinaryID_RoundTrip(t *testing.T) {
	p := newPipeline(t)
	id := uuid.MustParse("b3c5a3f2-8f6e-4a8a-9d14-2f6c1f1a9b77")

	dumped, err := p.Dump(T(BinaryID), id)
	require.NoError(t, err)
	assert.Equal(t, Text(id.String()), dumped)

	loaded, err := p.Load(T(BinaryID), dumped)
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestLoadFloat_WidensIntegers(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(Float), int64(3))
	require.NoError(t, err)
	assert.Equal(t, float64(3), loaded)

	loaded, err = p.Load(T(Float), 4.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, loaded)
}

func TestFloat_IntegerValuedLossAccepted(t *testing.T) {
	p := newPipeline(t)

	// 3.0 can come back from the engine as integer 3; widening restores
	// the float but not the original storage class.
	dumped, err := p.Dump(T(Float), 3.0)
	require.NoError(t, err)
	loaded, err := p.Load(T(Float), dumped)
	require.NoError(t, err)
	assert.Equal(t, 3.0, loaded)
}

func TestLoadDocument_Map(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(Map), `{"a":1,"b":"x"}`)
	require.NoError(t, err)

	want := map[string]any{"a": float64(1), "b": "x"}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDocument_Array(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(Array), `[1,2,3]`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, loaded)
}

func TestLoadDocument_Malformed(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Load(T(Map), `{"a":`)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeMalformedDocument), "got %v", err)
}

func TestDumpBinary_BlobTag(t *testing.T) {
	p := newPipeline(t)

	dumped, err := p.Dump(T(Binary), []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, Blob{0x01, 0x02}, dumped)

	dumped, err = p.Dump(T(Binary), "raw")
	require.NoError(t, err)
	assert.Equal(t, Blob("raw"), dumped)
}

func TestTime_Identity(t *testing.T) {
	p := newPipeline(t)

	dumped, err := p.Dump(T(Time), "13:33:37")
	require.NoError(t, err)
	assert.Equal(t, "13:33:37", dumped)

	loaded, err := p.Load(T(Time), "13:33:37")
	require.NoError(t, err)
	assert.Equal(t, "13:33:37", loaded)
}

// profileCodec is a toolkit-style nested schema codec for tests.
type profileCodec struct{}

type profile struct {
	Name string
	Age  int64
}

func (profileCodec) LoadEmbed(doc map[string]any) (any, error) {
	p := profile{}
	if name, ok := doc["name"].(string); ok {
		p.Name = name
	}
	switch age := doc["age"].(type) {
	case float64:
		p.Age = int64(age)
	case int64:
		p.Age = age
	}
	return p, nil
}

func (profileCodec) DumpEmbed(v any) (map[string]any, error) {
	p, ok := v.(profile)
	if !ok {
		return nil, fmt.Errorf("want profile, got %T", v)
	}
	return map[string]any{"name": p.Name, "age": p.Age}, nil
}

func TestEmbed_RoundTrip(t *testing.T) {
	p := newPipeline(t)
	typ := Type{Kind: Embed, Embed: profileCodec{}}

	in := profile{Name: "ada", Age: 36}
	dumped, err := p.Dump(typ, in)
	require.NoError(t, err)

	text, ok := dumped.(Text)
	require.True(t, ok, "embed must dump to TEXT, got %T", dumped)

	loaded, err := p.Load(typ, text)
	require.NoError(t, err)
	if diff := cmp.Diff(in, loaded); diff != "" {
		t.Errorf("embed round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmbed_NotAnObject(t *testing.T) {
	p := newPipeline(t)
	typ := Type{Kind: Embed, Embed: profileCodec{}}

	_, err := p.Load(typ, `[1,2]`)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err, ErrCodeMalformedDocument))
}

func TestPrimitive_Identity(t *testing.T) {
	p := newPipeline(t)

	loaded, err := p.Load(T(Primitive), int64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), loaded)

	dumped, err := p.Dump(T(Primitive), "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", dumped)
}

func TestLoadersDumpers_ChainShape(t *testing.T) {
	p := newPipeline(t)

	// binary_id delegates to the UUID codec after the primitive load.
	assert.Len(t, p.Loaders(T(BinaryID)), 2)
	// embeds decode the document, then run the nested schema loader.
	assert.Len(t, p.Loaders(Type{Kind: Embed, Embed: profileCodec{}}), 2)
	assert.Len(t, p.Loaders(T(Boolean)), 1)
	assert.Len(t, p.Dumpers(T(Primitive)), 1)
}

func TestLoad_NullPassesThroughEveryKind(t *testing.T) {
	p := newPipeline(t)

	kinds := []Type{
		T(Primitive), T(Boolean), T(Binary), T(BinaryID), T(Date),
		T(Time), T(UTCDateTime), T(NaiveDateTime), T(Float), T(Map),
		T(Array), {Kind: Embed, Embed: profileCodec{}},
	}
	for _, typ := range kinds {
		// A nullable column legitimately emits NULL in both raw and
		// tagged form; loaders must yield an absent value, not an error.
		for _, null := range []any{nil, Null{}} {
			loaded, err := p.Load(typ, null)
			require.NoError(t, err, "Load(%s, %#v)", typ.Kind, null)
			assert.Nil(t, loaded, "Load(%s, %#v)", typ.Kind, null)
		}
	}
}

func TestDump_NullEmbed(t *testing.T) {
	p := newPipeline(t)
	typ := Type{Kind: Embed, Embed: profileCodec{}}

	dumped, err := p.Dump(typ, nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, dumped, "nil embeds must dump to native NULL, not document text")
}

func TestDecodeError_Unwrap(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Load(T(Date), CalDate{Year: 2021, Month: 2, Day: 30})
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ErrCodeInvalidDate, de.Code)
}
