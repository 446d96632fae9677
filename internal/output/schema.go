// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

const maxSchemaDepth = 1

// Tag is one attribute discovered from a struct's json tags, as offered to
// --attrs.
type Tag struct {
	Name string
	Type string
}

// NewTag builds a Tag from a raw json tag value. holder, when set, prefixes
// the name with a dotted path. Tags without a name, or "-", yield a zero Tag.
func NewTag(holder string, s string) Tag {
	name, _, _ := strings.Cut(s, ",")
	if name == "" || name == "-" {
		return Tag{}
	}
	if holder != "" {
		name = holder + "." + name
	}
	return Tag{Name: name}
}

// Print renders the tag for --schema.
func (t Tag) Print() string {
	if t.Type == "" {
		return t.Name
	}
	return fmt.Sprintf("%-24s %s", t.Name, t.Type)
}

// DumpSchema writes the sorted attribute names of typ to w.
func DumpSchema(w io.Writer, prefix string, typ reflect.Type) {
	tags := DumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")
	for _, tag := range tags {
		fmt.Fprintln(w, tag.Print())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w,
		`Attributes available to --attrs, --filter and --sort. The upstream record
carries more fields than are listed; use --output=raw to see all of them.`)
}

// DumpSchemaWalker collects json tagged fields of typ, descending into
// struct and pointer-to-struct fields up to maxSchemaDepth.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]Tag, 0, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Name == "" {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		tag.Type = ft.Kind().String()
		tags = append(tags, tag)

		if depth < maxSchemaDepth && ft.Kind() == reflect.Struct {
			tags = append(tags, DumpSchemaWalker(tag.Name, ft, depth+1)...)
		}
	}

	return tags
}
