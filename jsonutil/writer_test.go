package jsonutil

import (
	"math"
	"strings"
	"testing"
)

func TestWriterCompactObject(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("form")
	w.String("Fugue")
	w.Key("voices")
	w.Int(4)
	w.Key("ok")
	w.Bool(true)
	w.Key("note")
	w.Null()
	w.EndObject()
	got := w.ToString()
	want := `{"form":"Fugue","voices":4,"ok":true,"note":null}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterNestedArrayAndObject(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("issues")
	w.BeginArray()
	w.BeginObject()
	w.Key("bar")
	w.Int(3)
	w.EndObject()
	w.BeginObject()
	w.Key("bar")
	w.Int(7)
	w.EndObject()
	w.EndArray()
	w.EndObject()
	got := w.ToString()
	want := `{"issues":[{"bar":3},{"bar":7}]}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterEmptyContainers(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("items")
	w.BeginArray()
	w.EndArray()
	w.Key("meta")
	w.BeginObject()
	w.EndObject()
	w.EndObject()
	got := w.ToString()
	want := `{"items":[],"meta":{}}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterStringEscaping(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("s")
	w.String("line1\nline2\ttab\"quote\\backslash")
	w.EndObject()
	got := w.ToString()
	want := `{"s":"line1\nline2\ttab\"quote\\backslash"}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterControlCharEscaping(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("s")
	w.String("a\x01b\x1fc")
	w.EndObject()
	got := w.ToString()
	want := "{\"s\":\"a\\u0001b\\u001fc\"}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterNaNAndInfBecomeNull(t *testing.T) {
	w := NewWriter("")
	w.BeginObject()
	w.Key("a")
	w.Float(math.NaN())
	w.Key("b")
	w.Float(math.Inf(1))
	w.Key("c")
	w.Float(math.Inf(-1))
	w.Key("d")
	w.Float(1.5)
	w.EndObject()
	got := w.ToString()
	want := `{"a":null,"b":null,"c":null,"d":1.5}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterValueTypeSwitch(t *testing.T) {
	w := NewWriter("")
	w.BeginArray()
	w.ArrayItem("x")
	w.ArrayItem(3)
	w.ArrayItem(int64(9))
	w.ArrayItem(2.5)
	w.ArrayItem(false)
	w.ArrayItem(nil)
	w.EndArray()
	got := w.ToString()
	want := `["x",3,9,2.5,false,null]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterPrettyPrintIndent(t *testing.T) {
	w := NewWriter("  ")
	w.BeginObject()
	w.Key("a")
	w.Int(1)
	w.Key("b")
	w.BeginArray()
	w.ArrayItem(1)
	w.ArrayItem(2)
	w.EndArray()
	w.EndObject()
	got := w.ToString()
	if !strings.Contains(got, "\n  \"a\": 1") {
		t.Fatalf("expected indented member, got %q", got)
	}
	if !strings.Contains(got, "\n  \"b\": [") {
		t.Fatalf("expected indented array key, got %q", got)
	}
	if !strings.Contains(got, "\n    1") {
		t.Fatalf("expected doubly-indented array element, got %q", got)
	}
}
