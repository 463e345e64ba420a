package model_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/g5becks/ahkdoc/internal/model"
)

func TestDocParameterString(t *testing.T) {
	tests := []struct {
		name  string
		param model.DocParameter
		want  string
	}{
		{"required", model.DocParameter{Name: "x"}, "x"},
		{"optional", model.DocParameter{Name: "y", IsOptional: true, DefaultValue: "5"}, "y := 5"},
		{"optional empty string", model.DocParameter{Name: "s", IsOptional: true, DefaultValue: `""`}, `s := ""`},
		{"default ignored when required", model.DocParameter{Name: "z", DefaultValue: "1"}, "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.param.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	params := []model.DocParameter{
		{Name: "x"},
		{Name: "y", IsOptional: true, DefaultValue: "true"},
	}

	if got, want := model.Signature(params), "x, y := true"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	if got := model.Signature(nil); got != "" {
		t.Errorf("Signature(nil) = %q, want empty", got)
	}
}

func TestSetFirstOccurrenceWins(t *testing.T) {
	b := model.NewSetBuilder()

	first := &model.DocClass{Name: "Foo", Description: "first"}
	second := &model.DocClass{Name: "Foo", Description: "second"}

	if !b.Add(first) {
		t.Fatal("Add(first) = false")
	}

	if b.Add(second) {
		t.Fatal("Add(second) = true, want false for duplicate")
	}

	b.Add(&model.DocClass{Name: "Bar"})
	set := b.Freeze()

	got, ok := set.Lookup("Foo")
	if !ok || got.Description != "first" {
		t.Errorf("Lookup(Foo) = %+v, %v", got, ok)
	}

	if want := []string{"Foo", "Bar"}; !reflect.DeepEqual(set.Names(), want) {
		t.Errorf("Names() = %v, want %v", set.Names(), want)
	}

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestNilSet(t *testing.T) {
	var set *model.Set

	if set.Has("Foo") {
		t.Error("nil set Has() = true")
	}

	if set.Len() != 0 || set.Names() != nil || set.Classes() != nil {
		t.Error("nil set should be empty")
	}
}

func TestSetMarshalJSON(t *testing.T) {
	set := model.NewSet(&model.DocClass{Name: "Foo", Extends: "Bar"})

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]model.DocClass
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["Foo"].Extends != "Bar" {
		t.Errorf("decoded = %+v", decoded)
	}
}
