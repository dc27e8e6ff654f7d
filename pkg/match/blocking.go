package match

import (
	"strings"

	"github.com/sdejongh/filecompare/internal/platform"
	"github.com/sdejongh/filecompare/pkg/models"
)

// extensionGroups partitions extensions into compatibility buckets used
// by the file-type-compatibility blocking rule. Extensions not listed
// in any group are only compatible with an exact extension match.
var extensionGroups = [][]string{
	{".csv", ".tsv"},
	{".xlsx", ".ods"},
	{".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".rs", ".rb", ".php"},
	{".txt", ".md", ".log", ".rst"},
}

func extensionsCompatible(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	for _, group := range extensionGroups {
		inA, inB := false, false
		for _, ext := range group {
			if ext == a {
				inA = true
			}
			if ext == b {
				inB = true
			}
		}
		if inA && inB {
			return true
		}
	}
	return false
}

// passesBlockingRules applies the ordered blocking rules; the first
// failing rule rejects the candidate.
func passesBlockingRules(l, r *models.FileEntry) bool {
	if l.EffectiveCategory() != r.EffectiveCategory() {
		return false
	}
	if l.EffectiveCategory() == "text-like" {
		extL := platform.Ext(l.RelativePath)
		extR := platform.Ext(r.RelativePath)
		if !extensionsCompatible(extL, extR) {
			return false
		}
	}

	if l.Size == 0 || r.Size == 0 {
		if l.Size != r.Size {
			return false
		}
	} else {
		maxSize := l.Size
		minSize := r.Size
		if minSize > maxSize {
			maxSize, minSize = minSize, maxSize
		}
		if float64(maxSize)/float64(minSize) > 10.0 {
			return false
		}
	}

	if l.Type.IsTabular() && r.Type.IsTabular() {
		if l.SchemaSignature != r.SchemaSignature {
			return false
		}
	}

	return true
}
