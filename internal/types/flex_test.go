package types_test

import (
	"encoding/json"
	"testing"

	"github.com/localstore/storeapi/internal/types"
)

func TestFlexUint64Forms(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`0`, 0},
	}
	for _, tc := range cases {
		var f types.FlexUint64
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("%s: unexpected error %v", tc.in, err)
			continue
		}
		if f.Uint64() != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.in, tc.want, f.Uint64())
		}
	}

	var f types.FlexUint64
	if err := json.Unmarshal([]byte(`"not-a-number"`), &f); err == nil {
		t.Error("Expected error for non-numeric string")
	}
}

func TestFlexListForms(t *testing.T) {
	var list types.FlexList[types.FlexUint64]
	if err := json.Unmarshal([]byte(`["1", 2, "3"]`), &list); err != nil {
		t.Fatalf("Array form failed: %v", err)
	}
	if len(list) != 3 || list[0].Uint64() != 1 || list[2].Uint64() != 3 {
		t.Errorf("Unexpected list: %v", list)
	}

	// A bare element comes back as a one-element list
	list = nil
	if err := json.Unmarshal([]byte(`"7"`), &list); err != nil {
		t.Fatalf("Single form failed: %v", err)
	}
	if len(list) != 1 || list[0].Uint64() != 7 {
		t.Errorf("Unexpected list: %v", list)
	}

	// null leaves the list empty
	list = nil
	if err := json.Unmarshal([]byte(`null`), &list); err != nil {
		t.Fatalf("Null form failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %v", list)
	}
}
