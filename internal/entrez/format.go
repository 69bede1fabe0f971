// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSpec maps an output format name to EFetch parameters and the
// batch file extension.
type FormatSpec struct {
	RetType string
	RetMode string
	Ext     string
}

// formats enumerates the output formats the client supports.
var formats = map[string]FormatSpec{
	// Full PubmedArticleSet XML.
	"xml": {RetType: "", RetMode: "xml", Ext: "xml"},

	// Plain-text citation plus abstract.
	"abstract": {RetType: "abstract", RetMode: "text", Ext: "txt"},

	// MEDLINE tagged records.
	"medline": {RetType: "medline", RetMode: "text", Ext: "txt"},
}

// formatSpec resolves name or rejects it with the supported set listed.
func formatSpec(name string) (FormatSpec, error) {
	spec, ok := formats[name]
	if !ok {
		return FormatSpec{}, fmt.Errorf("unsupported output format %q (supported: %s)", name, supportedFormats())
	}
	return spec, nil
}

func supportedFormats() string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
