package index

import "testing"

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"basename glob matches at any depth", "a/b/c.tmp", []string{"*.tmp"}, true},
		{"basename glob does not match different extension", "a/b/c.txt", []string{"*.tmp"}, false},
		{"directory pattern excludes the directory itself", "node_modules", []string{"node_modules/"}, true},
		{"directory pattern excludes everything beneath it", "node_modules/pkg/index.js", []string{"node_modules/"}, true},
		{"directory pattern does not match a same-prefix sibling", "node_modules_extra/file", []string{"node_modules/"}, false},
		{"double-star matches across path segments", "a/b/c/d.log", []string{"a/**/d.log"}, true},
		{"double-star with no match", "a/b/c/d.log", []string{"a/**/e.log"}, false},
		{"empty pattern is ignored", "anything", []string{""}, false},
		{"exact path match", "config/local.yaml", []string{"config/local.yaml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldExclude(tt.path, tt.patterns); got != tt.want {
				t.Errorf("shouldExclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}
