// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"strings"
	"testing"
)

func TestFormatSpec(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantType string
		wantMode string
		wantExt  string
	}{
		{"xml", "xml", "", "xml", "xml"},
		{"abstract", "abstract", "abstract", "text", "txt"},
		{"medline", "medline", "medline", "text", "txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := formatSpec(tt.format)
			if err != nil {
				t.Fatalf("formatSpec(%q) error = %v", tt.format, err)
			}
			if spec.RetType != tt.wantType || spec.RetMode != tt.wantMode || spec.Ext != tt.wantExt {
				t.Errorf("formatSpec(%q) = %+v", tt.format, spec)
			}
		})
	}
}

func TestFormatSpec_Unsupported(t *testing.T) {
	_, err := formatSpec("ris")
	if err == nil {
		t.Fatal("formatSpec(\"ris\") succeeded")
	}
	// The error names the supported set for the user.
	if !strings.Contains(err.Error(), "abstract, medline, xml") {
		t.Errorf("error does not list supported formats: %v", err)
	}
}
