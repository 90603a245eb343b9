package scene

import (
	"strings"
	"testing"

	"stagecrate/internal/spath"
)

func pathMustParse(t *testing.T, s string) spath.Path {
	t.Helper()
	prim, prop, hasProp := strings.Cut(s, ".")
	p := spath.NewPrimPath(prim)
	if hasProp {
		p = p.AppendProperty(prop)
	}
	if !p.IsValid() {
		t.Fatalf("invalid test path %q", s)
	}
	return p
}
