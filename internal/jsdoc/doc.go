// Package jsdoc parses documentation comment blocks written in the
// /** ... */ convention into a description and an ordered list of tags.
//
// The Parser interface is the boundary to the tag grammar; NewParser returns
// the built-in implementation. ParseTags is the adapter the builder uses.
package jsdoc
