package xlsx

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		kind  Kind
		str   string
	}{
		{"nil", nil, KindEmpty, ""},
		{"bool", true, KindBool, "true"},
		{"int", 42, KindInt, "42"},
		{"int8", int8(-3), KindInt, "-3"},
		{"uint32", uint32(7), KindInt, "7"},
		{"huge uint64", uint64(math.MaxUint64), KindFloat, "18446744073709552000"},
		{"float32", float32(0.5), KindFloat, "0.5"},
		{"float64", 3.25, KindFloat, "3.25"},
		{"string", "hello", KindText, "hello"},
		{"json integer", json.Number("12"), KindInt, "12"},
		{"json float", json.Number("1.5"), KindFloat, "1.5"},
		{"value passthrough", Text("x"), KindText, "x"},
		{"slice", []string{"a"}, KindEmpty, ""},
		{"map", map[string]int{"a": 1}, KindEmpty, ""},
		{"struct", struct{}{}, KindEmpty, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.input)
			if v.Kind() != tt.kind {
				t.Errorf("ValueOf(%v).Kind() = %s, want %s", tt.input, v.Kind(), tt.kind)
			}
			if v.String() != tt.str {
				t.Errorf("ValueOf(%v).String() = %q, want %q", tt.input, v.String(), tt.str)
			}
		})
	}
}

func TestNumberLiteral(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
		ok   bool
	}{
		{"true", Bool(true), "1", true},
		{"false", Bool(false), "0", true},
		{"int", Int(-17), "-17", true},
		{"float", Float(0.1), "0.1", true},
		{"large float", Float(1e21), "1000000000000000000000", true},
		{"integral float", Float(42), "42", true},
		{"nan", Float(math.NaN()), "", false},
		{"inf", Float(math.Inf(1)), "", false},
		{"text", Text("1"), "", false},
		{"empty", Empty(), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.numberLiteral()
			if got != tt.want || ok != tt.ok {
				t.Errorf("numberLiteral() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsPlainInteger(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"42", true},
		{"1", true},
		{"2147483647", true},
		{"2147483648", false},
		{"007", false},
		{"0", false},
		{"+5", false},
		{"-5", false},
		{"1.5", false},
		{"12a", false},
		{" 1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isPlainInteger(tt.input); got != tt.want {
			t.Errorf("isPlainInteger(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRow(t *testing.T) {
	row := Row("a", 1, nil, false)
	want := []Kind{KindText, KindInt, KindEmpty, KindBool}
	if len(row) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(row))
	}
	for i, k := range want {
		if row[i].Kind() != k {
			t.Errorf("row[%d].Kind() = %s, want %s", i, row[i].Kind(), k)
		}
	}
}
