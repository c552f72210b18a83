package jsonview

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Run("numbers stay exact", func(t *testing.T) {
		v, err := Parse([]byte(`{"order_id": 9007199254740993, "price": 24.50}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		obj := v.(*Object)
		id, _ := obj.Get("order_id")
		if id != json.Number("9007199254740993") {
			t.Errorf("order_id = %v, want 9007199254740993", id)
		}
		price, _ := obj.Get("price")
		if price != json.Number("24.50") {
			t.Errorf("price = %v, want 24.50", price)
		}
	})

	t.Run("object keeps wire order", func(t *testing.T) {
		v, err := Decode(strings.NewReader(`{"tick": 1, "period": 2, "name": "x"}`))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		obj := v.(*Object)
		want := []string{"tick", "period", "name"}
		for i, k := range want {
			if obj.Key(i) != k {
				t.Errorf("Key(%d) = %q, want %q", i, obj.Key(i), k)
			}
		}
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		v, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if got := Format(v); got != `{"a":3,"b":2}` {
			t.Errorf("Format = %s, want {\"a\":3,\"b\":2}", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		for _, in := range []string{"", "   \n"} {
			if _, err := Parse([]byte(in)); !errors.Is(err, ErrEmpty) {
				t.Errorf("Parse(%q) err = %v, want ErrEmpty", in, err)
			}
		}
	})

	t.Run("trailing whitespace is allowed", func(t *testing.T) {
		if _, err := Parse([]byte("[1]\n\n")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("trailing value is rejected", func(t *testing.T) {
		if _, err := Parse([]byte(`{} {}`)); err == nil {
			t.Error("expected error for multiple documents")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		for _, in := range []string{`{"a":}`, `[1,`, `{"a" 1}`, `nope`} {
			if _, err := Parse([]byte(in)); err == nil {
				t.Errorf("Parse(%q) expected error", in)
			}
		}
	})
}

func TestScalarCoercion(t *testing.T) {
	view := Wrap(mustParse(t, `{"qty": 100, "px": 9.75, "name": "CRZY", "ok": true, "nothing": null}`)).(*Mapping)

	if qty, err := view.Int("qty"); err != nil || qty != 100 {
		t.Errorf("Int(qty) = %d, %v; want 100", qty, err)
	}
	if px, err := view.Float("px"); err != nil || px != 9.75 {
		t.Errorf("Float(px) = %v, %v; want 9.75", px, err)
	}
	if name, err := view.Text("name"); err != nil || name != "CRZY" {
		t.Errorf("Text(name) = %q, %v; want CRZY", name, err)
	}
	if ok, err := view.Bool("ok"); err != nil || !ok {
		t.Errorf("Bool(ok) = %v, %v; want true", ok, err)
	}

	if _, err := view.Int("px"); !errors.Is(err, ErrType) {
		t.Errorf("Int(px) err = %v, want ErrType", err)
	}
	if _, err := view.Float("name"); !errors.Is(err, ErrType) {
		t.Errorf("Float(name) err = %v, want ErrType", err)
	}
	if _, err := view.Text("nothing"); err == nil || err.Error() != "jsonview: want string, got null" {
		t.Errorf("Text(nothing) err = %v", err)
	}
	if _, err := view.Float("missing"); !errors.Is(err, ErrKey) {
		t.Errorf("Float(missing) err = %v, want ErrKey", err)
	}
}

func TestAsIntRange(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"max int64", json.Number("9223372036854775807"), math.MaxInt64, false},
		{"exponent form", json.Number("3e2"), 300, false},
		{"whole float", 42.0, 42, false},
		{"beyond int64", json.Number("1e30"), 0, true},
		{"float at 2^63", float64(1 << 63), 0, true},
		{"negative beyond int64", -1e19, 0, true},
		{"infinity", math.Inf(1), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsInt(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrType) {
					t.Errorf("AsInt(%v) err = %v, want ErrType", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("AsInt(%v) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestDecodeInto(t *testing.T) {
	type order struct {
		OrderID  int     `json:"order_id"`
		Ticker   string  `json:"ticker"`
		Quantity float64 `json:"quantity"`
	}

	m := Wrap(mustParse(t, `{"order_id": 3135, "ticker": "RITC", "quantity": 5}`)).(*Mapping)
	var o order
	if err := m.Decode(&o); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if o.OrderID != 3135 || o.Ticker != "RITC" || o.Quantity != 5 {
		t.Errorf("decoded = %+v", o)
	}

	s := Wrap(mustParse(t, `[{"order_id": 1}, {"order_id": 2}]`)).(*Sequence)
	var orders []order
	if err := s.Decode(&orders); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(orders) != 2 || orders[1].OrderID != 2 {
		t.Errorf("decoded = %+v", orders)
	}
}
