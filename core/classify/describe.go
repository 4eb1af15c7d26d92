package classify

import (
	"fmt"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// refactorThreshold is the complexity above which a description suggests refactoring.
const refactorThreshold = 10

// TypeLabel turns a type tag such as "react-hook" into "React hook".
func TypeLabel(tag string) string {
	label := strings.ReplaceAll(tag, "-", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// Describe assembles a one-paragraph description from the other snapshot fields.
func Describe(s *schema.FileSnapshotAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s file", TypeLabel(s.Type))
	if s.Language != schema.UnknownType && s.Language != s.Type {
		fmt.Fprintf(&b, " written in %s", s.Language)
	}
	fmt.Fprintf(&b, " used for %s.", strings.ToLower(schema.JoinTags(s.Purposes)))

	if n := len(s.Functions); n > 0 {
		fmt.Fprintf(&b, " Defines %d function%s", n, plural(n))
		if c := len(s.Classes); c > 0 {
			fmt.Fprintf(&b, " and %d class%s", c, pluralES(c))
		}
		b.WriteString(".")
	} else if c := len(s.Classes); c > 0 {
		fmt.Fprintf(&b, " Defines %d class%s.", c, pluralES(c))
	}
	if n := len(s.Dependencies); n > 0 {
		fmt.Fprintf(&b, " Depends on %d external module%s.", n, plural(n))
	}
	if len(s.Characteristics) > 0 {
		fmt.Fprintf(&b, " Involves %s.", strings.Join(s.Characteristics, ", "))
	}
	if s.Complexity > refactorThreshold {
		fmt.Fprintf(&b, " Complexity is %d; consider refactoring into smaller units.", s.Complexity)
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
