// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema reads declarative header descriptions (YAML, JSON or TOML)
// and builds the corresponding cgen.Scope.
//
// A description lists items in output order:
//
//	guard: FOO_H            # or "pragma once"
//	separate_includes: true
//	sort_includes: true
//	items:
//	  - include_lib: stdint.h
//	  - struct:
//	      name: foo
//	      typedef: explicit
//	      alias: foo_t
//	      members:
//	        - {type: uint8_t, name: data, array: "16"}
//	  - enum:
//	      name: mode
//	      members:
//	        - {name: MODE_OFF}
//	        - {name: MODE_ON, value: 4}
//	  - func: {name: foo_init, returns: int, args: [{type: "foo_t *", name: f}]}
package schema

import (
	"bytes"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a description file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	// ErrUnknownFormat is returned for file extensions other than .yaml,
	// .yml, .json and .toml.
	ErrUnknownFormat = errors.New("unknown description format")
	// ErrInvalidItem is returned when an item sets zero or several kinds,
	// or carries a value cgen cannot represent.
	ErrInvalidItem = errors.New("invalid item")
)

// File is a header description.
type File struct {
	Guard            string `yaml:"guard"`
	SeparateIncludes bool   `yaml:"separate_includes"`
	SortIncludes     bool   `yaml:"sort_includes"`
	Items            []Item `yaml:"items"`
}

// Item is one snippet. Exactly one field must be set.
type Item struct {
	IncludeLib  string  `yaml:"include_lib,omitempty"`
	IncludeFile string  `yaml:"include_file,omitempty"`
	Raw         *string `yaml:"raw,omitempty"` // "" emits a blank line
	Struct      *Struct `yaml:"struct,omitempty"`
	Enum        *Enum   `yaml:"enum,omitempty"`
	Func        *Func   `yaml:"func,omitempty"`
	FuncImpl    *Func   `yaml:"func_impl,omitempty"`
	Var         *Var    `yaml:"var,omitempty"`
}

// Decl describes a declarator. Array is "" for none, "unsized" for `[]`,
// or a decimal extent.
type Decl struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Const bool   `yaml:"const,omitempty"`
	Array string `yaml:"array,omitempty"`
}

// Struct describes a struct. Typedef is "", "named", "unnamed" or
// "explicit"; Alias is required for "explicit".
type Struct struct {
	Name    string `yaml:"name"`
	Typedef string `yaml:"typedef,omitempty"`
	Alias   string `yaml:"alias,omitempty"`
	Members []Decl `yaml:"members"`
}

// Enum describes an enum with the same typedef fields as Struct.
type Enum struct {
	Name    string       `yaml:"name"`
	Typedef string       `yaml:"typedef,omitempty"`
	Alias   string       `yaml:"alias,omitempty"`
	Members []EnumMember `yaml:"members"`
}

// EnumMember is an enumerator with an optional explicit value.
type EnumMember struct {
	Name  string `yaml:"name"`
	Value *Int   `yaml:"value,omitempty"`
}

// Func describes a function prototype or, with Body, a definition.
type Func struct {
	Name    string   `yaml:"name"`
	Returns string   `yaml:"returns,omitempty"`
	Storage string   `yaml:"storage,omitempty"`
	Inline  bool     `yaml:"inline,omitempty"`
	Args    []Decl   `yaml:"args,omitempty"`
	Body    []string `yaml:"body,omitempty"`
}

// Var describes a global variable.
type Var struct {
	Decl    `yaml:",inline"`
	Storage string  `yaml:"storage,omitempty"`
	Init    *string `yaml:"init,omitempty"`
}

// Int is an arbitrary-precision integer that decodes from YAML integers and
// from strings such as "-0x80".
type Int struct {
	big.Int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Int) UnmarshalYAML(n *yaml.Node) error {
	return i.UnmarshalText([]byte(n.Value))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Int) UnmarshalText(text []byte) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(text)), "_", "")
	if _, ok := i.SetString(s, 0); !ok {
		return errors.Newf("%q is not an integer", s)
	}
	return nil
}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.WithHint(errors.Wrapf(ErrUnknownFormat, "%s", path),
			"use a .yaml, .yml, .json or .toml file")
	}
}

// Load reads and decodes the description at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return f, nil
}

// Decode parses data in the given format. Unknown keys are rejected.
//
// JSON is decoded by the YAML parser. TOML is decoded into generic values and
// re-encoded as YAML, so every format shares one set of field rules.
func Decode(data []byte, format Format) (*File, error) {
	switch format {
	case FormatYAML, FormatJSON:
	case FormatTOML:
		var generic map[string]any
		if err := toml.Unmarshal(data, &generic); err != nil {
			return nil, errors.Wrap(err, "parsing TOML")
		}
		converted, err := yaml.Marshal(generic)
		if err != nil {
			return nil, errors.Wrap(err, "converting TOML")
		}
		data = converted
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%s", format)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, errors.Wrap(err, "parsing description")
	}
	return &f, nil
}
