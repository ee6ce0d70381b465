package jsonvalue

import (
	"errors"
	"testing"
)

func TestParse_KeepsMemberOrder(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"b": 2, "a": 3}, "mid": [true, null, "x"]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	obj, ok := v.AsObject()
	if !ok {
		t.Fatalf("expected object, got %s", v.Kind())
	}

	var keys []string
	for _, m := range obj.Members() {
		keys = append(keys, m.Key)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(keys) != len(want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key[%d]=%q want=%q", i, keys[i], want[i])
		}
	}

	mid, _ := obj.Get("mid")
	items, ok := mid.AsArray()
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 array items, got %v", items)
	}
	if items[0].Kind() != KindBool || items[1].Kind() != KindNull || items[2].Kind() != KindString {
		t.Fatalf("unexpected item kinds: %s %s %s", items[0].Kind(), items[1].Kind(), items[2].Kind())
	}
}

func TestParse_NumberLiteralIsPreserved(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`[1.50, -3, 2e2, 0, -0.5, 1E+3]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	items, _ := v.AsArray()
	for i, want := range []string{"1.50", "-3", "2e2", "0", "-0.5", "1E+3"} {
		got, ok := items[i].AsNumber()
		if !ok || got != want {
			t.Fatalf("item %d: got=%q want=%q", i, got, want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "   "},
		{name: "truncated object", input: `{"a": 1`},
		{name: "truncated string", input: `"abc`},
		{name: "bare word", input: `DNF`},
		{name: "trailing value", input: `{} {}`},
		{name: "leading zero", input: `01`},
		{name: "dangling fraction", input: `1.`},
		{name: "lone minus", input: `-`},
		{name: "nested leading zero", input: `{"RankingFinal": 01}`},
		{name: "nested lone minus", input: `{"x": [{"rank": -, "nation": "AUT"}]}`},
		{name: "dangling exponent", input: `[1e]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestParse_TrailingDataSentinel(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`[1] 2`))
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestMarshalJSON_RoundTripKeepsOrder(t *testing.T) {
	t.Parallel()

	const doc = `{"b":1,"a":[true,null,"x"],"c":{"y":2.50,"x":"z"}}`
	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != doc {
		t.Fatalf("unexpected encoding:\n got=%s\nwant=%s", out, doc)
	}
}

func TestObject_GetPrefersLastDuplicate(t *testing.T) {
	t.Parallel()

	v, err := Parse([]byte(`{"rank": 1, "rank": 2}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	obj, _ := v.AsObject()
	if obj.Len() != 2 {
		t.Fatalf("expected duplicate members to be kept, got %d", obj.Len())
	}
	got, _ := obj.Get("rank")
	if lit, _ := got.AsNumber(); lit != "2" {
		t.Fatalf("expected last duplicate, got %q", lit)
	}
}

func TestWalk_DepthFirstDocumentOrder(t *testing.T) {
	t.Parallel()

	v := ObjectOf(
		M("a", Array(String("a0"), ObjectOf(M("b", String("b0"))))),
		M("c", String("c0")),
	)

	var seen []string
	Walk(v, func(node Value) {
		if s, ok := node.AsString(); ok {
			seen = append(seen, s)
		}
	})

	want := []string{"a0", "b0", "c0"}
	if len(seen) != len(want) {
		t.Fatalf("unexpected walk: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("walk[%d]=%q want=%q", i, seen[i], want[i])
		}
	}
}
