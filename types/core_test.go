package types_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/simpleshop/types"
)

func TestObjectOrder(t *testing.T) {
	obj := types.NewObject()
	obj.Set("zeta", 1)
	obj.Set("alpha", 2)
	obj.Set("mid", 3)

	t.Run("keys keep insertion order", func(t *testing.T) {
		if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("set on existing key keeps position", func(t *testing.T) {
		obj.Set("zeta", 10)
		if obj.Keys()[0] != "zeta" {
			t.Errorf("expected zeta first, got %v", obj.Keys())
		}
		if v, _ := obj.Get("zeta"); v != 10 {
			t.Errorf("expected updated value 10, got %v", v)
		}
	})

	t.Run("delete removes key", func(t *testing.T) {
		obj.Delete("alpha")
		obj.Delete("missing")
		if diff := cmp.Diff([]string{"zeta", "mid"}, obj.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
		if obj.Len() != 2 {
			t.Errorf("expected 2 keys, got %d", obj.Len())
		}
	})

	t.Run("keys returns a copy", func(t *testing.T) {
		keys := obj.Keys()
		keys[0] = "changed"
		if obj.Keys()[0] != "zeta" {
			t.Error("modifying Keys() result changed the object")
		}
	})
}

func TestNilObject(t *testing.T) {
	var obj *types.Object
	if _, ok := obj.Get("a"); ok {
		t.Error("nil object should have no keys")
	}
	if obj.Len() != 0 || obj.Keys() != nil {
		t.Error("nil object should be empty")
	}
	data, err := json.Marshal(obj)
	if err != nil || string(data) != "null" {
		t.Errorf("expected null, got %s (%v)", data, err)
	}
}

func TestObjectJSON(t *testing.T) {
	input := `{"b":{"y":1,"x":[true,null,"s"]},"a":2.5,"c":"text"}`

	var obj types.Object
	if err := json.Unmarshal([]byte(input), &obj); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if diff := cmp.Diff([]string{"b", "a", "c"}, obj.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	nested, ok := mustGet(t, &obj, "b").(*types.Object)
	if !ok {
		t.Fatalf("expected nested *Object, got %T", mustGet(t, &obj, "b"))
	}
	if diff := cmp.Diff([]string{"y", "x"}, nested.Keys()); diff != "" {
		t.Errorf("nested keys mismatch (-want +got):\n%s", diff)
	}
	if n, ok := mustGet(t, &obj, "a").(json.Number); !ok || n.String() != "2.5" {
		t.Errorf("expected json.Number 2.5, got %#v", mustGet(t, &obj, "a"))
	}
	arr, ok := mustGet(t, nested, "x").([]interface{})
	if !ok || len(arr) != 3 || arr[0] != true || arr[1] != nil || arr[2] != "s" {
		t.Errorf("unexpected array %#v", mustGet(t, nested, "x"))
	}

	out, err := json.Marshal(&obj)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(out) != input {
		t.Errorf("round trip changed document:\nwant %s\ngot  %s", input, out)
	}
}

func TestObjectJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1,2]`},
		{"string", `"text"`},
		{"trailing data", `{"a":1} {"b":2}`},
		{"truncated", `{"a":`},
		{"bad nested value", `{"a":{"b":}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var obj types.Object
			if err := json.Unmarshal([]byte(tt.input), &obj); err == nil {
				t.Errorf("expected error for %s", tt.input)
			}
		})
	}
}

func TestObjectYAML(t *testing.T) {
	var obj types.Object
	if err := json.Unmarshal([]byte(`{"name":"Tools","priority":3,"price":1.5,"nested":{"z":true,"a":"x"}}`), &obj); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	out, err := yaml.Marshal(&obj)
	if err != nil {
		t.Fatalf("failed to marshal YAML: %v", err)
	}

	want := "name: Tools\npriority: 3\nprice: 1.5\nnested:\n    z: true\n    a: x\n"
	if string(out) != want {
		t.Errorf("YAML mismatch:\nwant:\n%s\ngot:\n%s", want, out)
	}
}

func mustGet(t *testing.T, obj *types.Object, key string) interface{} {
	t.Helper()
	v, ok := obj.Get(key)
	if !ok {
		t.Fatalf("key %q missing", key)
	}
	return v
}
