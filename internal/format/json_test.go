package format

import (
	"errors"
	"testing"
)

func TestJSONNonParseableReturnsInputUnchanged(t *testing.T) {
	tests := []string{
		"plain text line",
		"",
		"{truncated",
		`{"valid": true} trailing`,
		`[1, 2, 3]`,
		`"just a string"`,
		"2024-01-02 some access log 200",
	}
	for _, msg := range tests {
		if got := JSON(msg, nil); got != msg {
			t.Errorf("JSON(%q) = %q, want input unchanged", msg, got)
		}
	}
}

func TestJSONPreservesKeyOrder(t *testing.T) {
	in := `{"zebra": 1, "alpha": 2, "mid": {"z": 1, "a": 2}}`
	want := `{"zebra":1,"alpha":2,"mid":{"z":1,"a":2}}`
	if got := JSON(in, nil); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestJSONSortsKeysWhenRequested(t *testing.T) {
	in := `{"zebra": 1, "alpha": {"z": 1, "a": 2}}`
	want := `{"alpha":{"a":2,"z":1},"zebra":1}`
	if got := JSON(in, map[string]string{"sort": "true"}); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestJSONCleansStringLeaves(t *testing.T) {
	in := `{"msg": "  hello\nworld  ", "nested": {"v": "a\nb"}, "list": [" x\ny "]}`
	want := `{"msg":"hello world","nested":{"v":"a b"},"list":["x y"]}`
	if got := JSON(in, nil); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestJSONRemoveKeys(t *testing.T) {
	in := `{"logger": "app", "request_id": "abc", "msg": "hi"}`
	want := `{"msg":"hi"}`
	got := JSON(in, map[string]string{"remove_keys": "logger, request_id"})
	if got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestJSONDropsLiteralKeyValuePairs(t *testing.T) {
	in := `{"level": "info", "msg": "hi"}`
	opts := map[string]string{"key_value_pairs": "level:info,level:debug"}
	want := `{"msg":"hi"}`
	if got := JSON(in, opts); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}

	// A non-matching value is kept.
	in2 := `{"level": "error", "msg": "hi"}`
	want2 := `{"level":"error","msg":"hi"}`
	if got := JSON(in2, opts); got != want2 {
		t.Errorf("JSON() = %q, want %q", got, want2)
	}
}

func TestJSONKeepsNumbersVerbatim(t *testing.T) {
	in := `{"big": 9007199254740993, "f": 0.1}`
	want := `{"big":9007199254740993,"f":0.1}`
	if got := JSON(in, nil); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup("json"); err != nil {
		t.Errorf("Lookup(json) error = %v", err)
	}

	f, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\") error = %v", err)
	}
	if got := f("unchanged", nil); got != "unchanged" {
		t.Error("empty name must resolve to the identity formatter")
	}

	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknown) {
		t.Errorf("Lookup(nope) = %v, want ErrUnknown", err)
	}
}
