package qdrant

import (
	"reflect"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestPayloadToMap_AllKinds(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"null":   {Kind: &qdrant.Value_NullValue{NullValue: qdrant.NullValue_NULL_VALUE}},
		"bool":   {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"int":    {Kind: &qdrant.Value_IntegerValue{IntegerValue: 7}},
		"double": {Kind: &qdrant.Value_DoubleValue{DoubleValue: 1.5}},
		"string": {Kind: &qdrant.Value_StringValue{StringValue: "x"}},
		"list": {Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: []*qdrant.Value{
			{Kind: &qdrant.Value_StringValue{StringValue: "a"}},
			{Kind: &qdrant.Value_IntegerValue{IntegerValue: 1}},
		}}}},
		"struct": {Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: map[string]*qdrant.Value{
			"city": {Kind: &qdrant.Value_StringValue{StringValue: "Berlin"}},
		}}}},
	}

	want := map[string]any{
		"null":   nil,
		"bool":   true,
		"int":    int64(7),
		"double": 1.5,
		"string": "x",
		"list":   []any{"a", int64(1)},
		"struct": map[string]any{"city": "Berlin"},
	}

	got := payloadToMap(payload)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payloadToMap mismatch:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestPayloadToMap_Nil(t *testing.T) {
	got := payloadToMap(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestMapToPayload_RoundTrip(t *testing.T) {
	in := map[string]any{
		"name":   "Acme",
		"year":   float64(2019),
		"public": false,
		"tags":   []any{"ai", "b2b"},
		"hq":     map[string]any{"city": "Berlin"},
		"none":   nil,
	}

	payload, err := mapToPayload(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := payloadToMap(payload); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip mismatch:\ngot:  %#v\nwant: %#v", got, in)
	}
}

func TestMapToPayload_Unsupported(t *testing.T) {
	if _, err := mapToPayload(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
