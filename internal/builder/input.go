package builder

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

// Document is one top-level entry of the input dump, usually one source file.
type Document struct {
	Key     string
	Classes []ClassNode
}

// ClassNode is a class as emitted by the upstream source parser.
type ClassNode struct {
	Name       string       `json:"name"`
	Extends    string       `json:"extends"`
	Comment    string       `json:"comment"`
	Methods    []MemberNode `json:"methods"`
	Properties []MemberNode `json:"properties"`
	Classes    []ClassNode  `json:"classes"`
}

// MemberNode is a method or a property.
type MemberNode struct {
	Name    string      `json:"name"`
	Static  bool        `json:"static"`
	Comment string      `json:"comment"`
	Params  []ParamNode `json:"params"`
}

// ParamNode is a formal parameter. DefVal is nil when no default was given.
type ParamNode struct {
	Name   string   `json:"name"`
	DefVal *Literal `json:"defval"`
}

// Literal keeps the source text of a default value. JSON strings are stored
// unquoted, other scalars verbatim.
type Literal string

func (l *Literal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Literal(s)
		return nil
	}

	*l = Literal(bytes.TrimSpace(data))
	return nil
}

// Present reports whether l holds a default value.
func (l *Literal) Present() bool {
	return l != nil && strings.TrimSpace(string(*l)) != ""
}

// Decode reads the input dump, keeping the order of its top-level keys.
func Decode(data []byte) ([]Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var docs []Document
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}

		key, _ := keyToken.(string)
		doc := Document{Key: key}

		// A bare {"classes": [...]} dump is accepted as a single document.
		if key == "classes" {
			if err := dec.Decode(&doc.Classes); err != nil {
				return nil, oops.
					Code(errcode.InputInvalid).
					With("key", key).
					Wrapf(err, "decoding classes array")
			}

			docs = append(docs, doc)
			continue
		}

		var value struct {
			Classes []ClassNode `json:"classes"`
		}
		if err := dec.Decode(&value); err != nil {
			return nil, oops.
				Code(errcode.InputInvalid).
				With("key", key).
				Hint("Every top-level value must be an object with a classes array").
				Wrapf(err, "decoding input entry %q", key)
		}

		doc.Classes = value.Classes
		docs = append(docs, doc)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return docs, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return invalidJSON(err)
	}

	if delim, ok := token.(json.Delim); !ok || delim != want {
		return oops.
			Code(errcode.InputInvalid).
			Hint("The input must be a JSON object whose values hold a classes array").
			Errorf("expected %q in input, got %v", want.String(), token)
	}

	return nil
}

func invalidJSON(err error) error {
	return oops.
		Code(errcode.InputInvalid).
		Hint("Check that the input file is valid JSON").
		Wrapf(err, "decoding input")
}
