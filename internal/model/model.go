// Package model defines the documentation entities produced by the builder
// and consumed by the renderer.
package model

import "strings"

// DocClass is one documented class.
type DocClass struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Extends     string        `json:"extends,omitempty"`
	Constructor *DocMethod    `json:"constructor,omitempty"`
	Methods     []DocMethod   `json:"methods"`
	Properties  []DocProperty `json:"properties"`
}

// DocMethod is one method or the class constructor.
type DocMethod struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []DocParameter `json:"parameters"`
	Returns     *DocValue      `json:"returns,omitempty"`
	Throws      []DocValue     `json:"throws"`
	IsStatic    bool           `json:"static"`
}

// DocProperty is one property. Parameters are set for indexed properties.
type DocProperty struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []DocParameter `json:"parameters"`
	Type        string         `json:"type,omitempty"`
	IsStatic    bool           `json:"static"`
}

// DocParameter is one formal parameter.
type DocParameter struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type,omitempty"`
	IsOptional   bool   `json:"optional"`
	DefaultValue string `json:"default_value,omitempty"`
}

// DocValue is a typed, described value used for returns and throws.
type DocValue struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description"`
}

// String returns the signature form of the parameter: name, or
// "name := default" when optional.
func (p DocParameter) String() string {
	if !p.IsOptional {
		return p.Name
	}

	return p.Name + " := " + p.DefaultValue
}

// Signature joins the display forms of params with ", ".
func Signature(params []DocParameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}

	return strings.Join(parts, ", ")
}
