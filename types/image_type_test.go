package types_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/simpleshop/types"
)

func TestImageType(t *testing.T) {
	t.Run("zero value is path", func(t *testing.T) {
		var it types.ImageType
		if it != types.ImageTypePath || it.String() != "path" || it.Int() != 0 {
			t.Errorf("unexpected zero value %v (%d)", it, it.Int())
		}
		if types.ImageTypeURL.Int() != 1 {
			t.Errorf("expected url code 1, got %d", types.ImageTypeURL.Int())
		}
	})

	t.Run("parse is exact", func(t *testing.T) {
		tests := []struct {
			input string
			want  types.ImageType
			ok    bool
		}{
			{"url", types.ImageTypeURL, true},
			{"path", types.ImageTypePath, true},
			{"URL", types.ImageTypePath, false},
			{"", types.ImageTypePath, false},
			{" url", types.ImageTypePath, false},
		}
		for _, tt := range tests {
			got, ok := types.ParseImageType(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseImageType(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		}
	})

	t.Run("choice list order", func(t *testing.T) {
		if diff := cmp.Diff([]string{"url", "path"}, types.ImageTypeValues()); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}
		if types.ImageTypeFromIndex(0) != types.ImageTypeURL ||
			types.ImageTypeFromIndex(1) != types.ImageTypePath ||
			types.ImageTypeFromIndex(7) != types.ImageTypePath ||
			types.ImageTypeFromIndex(-1) != types.ImageTypePath {
			t.Error("ImageTypeFromIndex mapping incorrect")
		}
	})

	t.Run("text encoding", func(t *testing.T) {
		data, err := json.Marshal(map[string]types.ImageType{"t": types.ImageTypeURL})
		if err != nil || string(data) != `{"t":"url"}` {
			t.Errorf("unexpected encoding %s (%v)", data, err)
		}

		var it types.ImageType
		if err := json.Unmarshal([]byte(`"url"`), &it); err != nil || it != types.ImageTypeURL {
			t.Errorf("failed to decode url: %v %v", it, err)
		}
		if err := json.Unmarshal([]byte(`"ftp"`), &it); err == nil {
			t.Error("expected error for unknown image type")
		}
	})
}
