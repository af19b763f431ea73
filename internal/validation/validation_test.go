package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/arthur-debert/simpleshop/internal/validation"
	"github.com/arthur-debert/simpleshop/types"
)

func record(t *testing.T, doc string) *types.Object {
	t.Helper()
	obj := types.NewObject()
	if err := json.Unmarshal([]byte(doc), obj); err != nil {
		t.Fatalf("failed to parse record: %v", err)
	}
	return obj
}

func TestRequireScalars(t *testing.T) {
	rec := record(t, `{"name":"Blocks","priority":3,"ratio":2.5,"whole":7,"hidden":false,"nothing":null,"fraction":1.0}`)

	t.Run("string", func(t *testing.T) {
		got, err := validation.RequireString("name", rec)
		if err != nil || got != "Blocks" {
			t.Errorf("RequireString = %q, %v", got, err)
		}
		if _, err := validation.RequireString("priority", rec); err == nil {
			t.Error("expected error for integer value")
		}
	})

	t.Run("int", func(t *testing.T) {
		got, err := validation.RequireInt("priority", rec)
		if err != nil || got != 3 {
			t.Errorf("RequireInt = %d, %v", got, err)
		}
		if _, err := validation.RequireInt("ratio", rec); err == nil {
			t.Error("expected error for fractional number")
		}
		if _, err := validation.RequireInt("fraction", rec); err == nil {
			t.Error("expected error for 1.0, which is not an integer literal")
		}
	})

	t.Run("float widens integers", func(t *testing.T) {
		got, err := validation.RequireFloat("whole", rec)
		if err != nil || got != 7 {
			t.Errorf("RequireFloat(whole) = %v, %v", got, err)
		}
		got, err = validation.RequireFloat("ratio", rec)
		if err != nil || got != 2.5 {
			t.Errorf("RequireFloat(ratio) = %v, %v", got, err)
		}
		if _, err := validation.RequireFloat("name", rec); err == nil {
			t.Error("expected error for string value")
		}
	})

	t.Run("bool", func(t *testing.T) {
		got, err := validation.RequireBool("hidden", rec)
		if err != nil || got {
			t.Errorf("RequireBool = %v, %v", got, err)
		}
	})

	t.Run("null counts as missing", func(t *testing.T) {
		_, err := validation.RequireString("nothing", rec)
		var verr *validation.Error
		if !errors.As(err, &verr) || verr.Key != "nothing" {
			t.Fatalf("expected validation error naming 'nothing', got %v", err)
		}
	})

	t.Run("native go values", func(t *testing.T) {
		obj := types.NewObject()
		obj.Set("n", 4)
		obj.Set("f", 1.5)
		if n, err := validation.RequireInt("n", obj); err != nil || n != 4 {
			t.Errorf("RequireInt = %d, %v", n, err)
		}
		if f, err := validation.RequireFloat("n", obj); err != nil || f != 4 {
			t.Errorf("RequireFloat = %v, %v", f, err)
		}
		if _, err := validation.RequireInt("f", obj); err == nil {
			t.Error("expected float64 to be rejected as integer")
		}
	})
}

func TestOptionalString(t *testing.T) {
	rec := record(t, `{"image_source":"icons/a.png","bad":12}`)

	tests := []struct {
		name    string
		key     string
		want    string
		wantOK  bool
		wantErr bool
	}{
		{name: "present", key: "image_source", want: "icons/a.png", wantOK: true},
		{name: "absent", key: "missing"},
		{name: "wrong type", key: "bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := validation.OptionalString(tt.key, rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("OptionalString = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequireKeys(t *testing.T) {
	rec := record(t, `{"nbt":"x","buy":1}`)

	if err := validation.RequireKeys(rec, "nbt", "buy"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := validation.RequireKeys(rec, "nbt", "sell", "can_buy")
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if verr.Key != "sell" {
		t.Errorf("expected first missing key 'sell', got %q", verr.Key)
	}
	if got, want := err.Error(), "missing required property 'sell'"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestOptionalObject(t *testing.T) {
	rec := record(t, `{"items":{"a":{}},"flat":"nope"}`)

	if obj, ok := validation.OptionalObject("items", rec); !ok || obj.Len() != 1 {
		t.Errorf("expected nested object with one key, got %v %v", obj, ok)
	}
	if _, ok := validation.OptionalObject("flat", rec); ok {
		t.Error("expected non-object value to be reported as absent")
	}
	if _, ok := validation.OptionalObject("none", rec); ok {
		t.Error("expected missing key to be reported as absent")
	}
}
