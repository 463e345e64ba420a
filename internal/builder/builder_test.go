package builder_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/g5becks/ahkdoc/internal/builder"
	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/jsdoc"
	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/model"
)

func newBuilder() *builder.Builder {
	return builder.New(jsdoc.NewParser(), link.NewResolver("."))
}

func buildSample(t *testing.T) *model.Set {
	t.Helper()

	data, err := os.ReadFile("testdata/sample.json")
	if err != nil {
		t.Fatalf("reading sample: %v", err)
	}

	set, err := newBuilder().BuildJSON(data)
	if err != nil {
		t.Fatalf("BuildJSON() error = %v", err)
	}

	return set
}

func mustLookup(t *testing.T, set *model.Set, name string) *model.DocClass {
	t.Helper()

	class, ok := set.Lookup(name)
	if !ok {
		t.Fatalf("class %q not found in %v", name, set.Names())
	}

	return class
}

func TestBuildOrderAndDuplicates(t *testing.T) {
	set := buildSample(t)

	want := []string{"List", "Iterator", "Collection"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	list := mustLookup(t, set, "List")
	if strings.Contains(list.Description, "Duplicate") {
		t.Errorf("duplicate class overwrote the first occurrence: %q", list.Description)
	}
}

func TestBuildClassDescription(t *testing.T) {
	list := mustLookup(t, buildSample(t), "List")

	want := "An ordered list of values.\n" +
		"See [Collection](./collection) for the base API.\n\n" +
		"**See also:**\n\n" +
		"- [List.Push](./list?id=static-push)\n" +
		"- [https://example.com/lists](https://example.com/lists)"

	if list.Description != want {
		t.Errorf("Description =\n%q\nwant\n%q", list.Description, want)
	}

	if list.Extends != "Collection" {
		t.Errorf("Extends = %q", list.Extends)
	}
}

func TestBuildConstructor(t *testing.T) {
	list := mustLookup(t, buildSample(t), "List")

	if list.Constructor == nil {
		t.Fatal("Constructor = nil")
	}

	ctor := list.Constructor
	if ctor.Description != "Creates a list." {
		t.Errorf("Description = %q", ctor.Description)
	}

	want := []model.DocParameter{{
		Name:         "capacity",
		Description:  "initial capacity",
		Type:         "Integer",
		IsOptional:   true,
		DefaultValue: "0",
	}}
	if !reflect.DeepEqual(ctor.Parameters, want) {
		t.Errorf("Parameters = %+v, want %+v", ctor.Parameters, want)
	}

	for _, m := range list.Methods {
		if m.Name == builder.ConstructorName {
			t.Error("constructor must not appear in Methods")
		}
	}
}

func TestBuildMethods(t *testing.T) {
	list := mustLookup(t, buildSample(t), "List")

	var names []string
	for _, m := range list.Methods {
		names = append(names, m.Name)
	}

	if want := []string{"Push", "FromArray"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("method names = %v, want %v", names, want)
	}

	push := list.Methods[0]
	if push.IsStatic {
		t.Error("Push.IsStatic = true")
	}

	wantParams := []model.DocParameter{{Name: "value", Type: "Any", Description: "the value to add"}}
	if !reflect.DeepEqual(push.Parameters, wantParams) {
		t.Errorf("Push.Parameters = %+v, want %+v", push.Parameters, wantParams)
	}

	if push.Returns == nil || *push.Returns != (model.DocValue{Type: "List", Description: "this list"}) {
		t.Errorf("Push.Returns = %+v", push.Returns)
	}

	wantThrows := []model.DocValue{
		{Type: "ValueError", Description: "when the list is frozen"},
		{Type: "MemoryError", Description: "when out of memory"},
	}
	if !reflect.DeepEqual(push.Throws, wantThrows) {
		t.Errorf("Push.Throws = %+v, want %+v", push.Throws, wantThrows)
	}

	fromArray := list.Methods[1]
	if !fromArray.IsStatic {
		t.Error("FromArray.IsStatic = false")
	}

	if got := model.Signature(fromArray.Parameters); got != "arr, copy := true" {
		t.Errorf("FromArray signature = %q", got)
	}
}

func TestBuildProperties(t *testing.T) {
	list := mustLookup(t, buildSample(t), "List")

	var names []string
	for _, p := range list.Properties {
		names = append(names, p.Name)
	}

	// MAX_SIZE is public in the model; the renderer filters constant names.
	if want := []string{"Length", "MAX_SIZE", "Item"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("property names = %v, want %v", names, want)
	}

	if list.Properties[0].Type != "Integer" {
		t.Errorf("Length.Type = %q", list.Properties[0].Type)
	}

	item := list.Properties[2]
	if len(item.Parameters) != 1 || item.Parameters[0].Type != "Integer" || item.Parameters[0].Description != "position" {
		t.Errorf("Item.Parameters = %+v", item.Parameters)
	}
}

func TestBuildNestedClass(t *testing.T) {
	set := buildSample(t)
	iterator := mustLookup(t, set, "Iterator")

	if iterator.Description != "Walks a [list](./list?id=push)." {
		t.Errorf("Description = %q", iterator.Description)
	}

	if len(iterator.Methods) != 1 || iterator.Methods[0].Description != "" {
		t.Errorf("Methods = %+v", iterator.Methods)
	}

	if set.Has("ShadowNested") {
		t.Error("nested classes of a skipped duplicate must be skipped too")
	}
}

func TestConstructorIsNeverPrivate(t *testing.T) {
	docs := []builder.Document{{
		Key: "a.ahk",
		Classes: []builder.ClassNode{{
			Name: "Foo",
			Methods: []builder.MemberNode{
				{Name: "__New", Comment: "Creates it.\n@private"},
				{Name: "__Delete", Comment: "Cleanup."},
				{Name: "_helper"},
			},
		}},
	}}

	set, err := newBuilder().Build(docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	foo := mustLookup(t, set, "Foo")
	if foo.Constructor == nil || foo.Constructor.Description != "Creates it." {
		t.Errorf("Constructor = %+v", foo.Constructor)
	}

	if len(foo.Methods) != 0 {
		t.Errorf("Methods = %+v, want none", foo.Methods)
	}
}

func TestBuildDocumentedMethod(t *testing.T) {
	docs := []builder.Document{{
		Classes: []builder.ClassNode{{
			Name: "Foo",
			Methods: []builder.MemberNode{{
				Name:    "Bar",
				Comment: "Does a thing.\n@param x the input\n@returns {Integer} the result",
				Params:  []builder.ParamNode{{Name: "x"}},
			}},
		}},
	}}

	set, err := newBuilder().Build(docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	bar := mustLookup(t, set, "Foo").Methods[0]
	if bar.Description != "Does a thing." {
		t.Errorf("Description = %q", bar.Description)
	}

	if bar.Parameters[0].Description != "the input" || bar.Parameters[0].Type != "" {
		t.Errorf("Parameters[0] = %+v", bar.Parameters[0])
	}

	if bar.Returns.Type != "Integer" || bar.Returns.Description != "the result" {
		t.Errorf("Returns = %+v", bar.Returns)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"not json", `{"a": `, errcode.InputInvalid},
		{"top level array", `[]`, errcode.InputInvalid},
		{"class without name", `{"a": {"classes": [{"comment": "x"}]}}`, errcode.InputInvalid},
		{"method without name", `{"a": {"classes": [{"name": "A", "methods": [{}]}]}}`, errcode.InputInvalid},
		{"nested class without name", `{"a": {"classes": [{"name": "A", "classes": [{}]}]}}`, errcode.InputInvalid},
		{"malformed comment", `{"a": {"classes": [{"name": "A", "comment": "@param {Integer x"}]}}`, errcode.TagParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBuilder().BuildJSON([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}

			if got := errcode.Of(err); got != tt.wantCode {
				t.Errorf("error code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestDecodeDefaultValues(t *testing.T) {
	input := `{"f": {"classes": [{"name": "A", "methods": [{"name": "M", "params": [
		{"name": "s", "defval": "\"\""},
		{"name": "n", "defval": 5},
		{"name": "b", "defval": false},
		{"name": "none", "defval": null},
		{"name": "empty", "defval": ""},
		{"name": "missing"}
	]}]}]}}`

	set, err := newBuilder().BuildJSON([]byte(input))
	if err != nil {
		t.Fatalf("BuildJSON() error = %v", err)
	}

	params := mustLookup(t, set, "A").Methods[0].Parameters
	got := model.Signature(params)
	want := `s := "", n := 5, b := false, none, empty, missing`

	if got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}

func TestDecodeBareClassesDump(t *testing.T) {
	docs, err := builder.Decode([]byte(`{"classes": [{"name": "A"}, {"name": "B"}]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(docs) != 1 || len(docs[0].Classes) != 2 {
		t.Errorf("docs = %+v", docs)
	}
}
