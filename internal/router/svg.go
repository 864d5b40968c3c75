package router

import (
	"fmt"
	"strings"
)

// SVG renders the route as an SVG path string: the main cubic followed
// by the fan segments as move/line pairs. Front ends that paint with
// SVG can use it directly; everything else has the numeric geometry.
func (r Route) SVG() string {
	var b strings.Builder
	c := r.Curve
	fmt.Fprintf(&b, "M %s %s C %s %s, %s %s, %s %s",
		ftoa(c.Start.X), ftoa(c.Start.Y),
		ftoa(c.C1.X), ftoa(c.C1.Y),
		ftoa(c.C2.X), ftoa(c.C2.Y),
		ftoa(c.End.X), ftoa(c.End.Y),
	)
	for _, seg := range r.Fan {
		fmt.Fprintf(&b, " M %s %s L %s %s",
			ftoa(seg.From.X), ftoa(seg.From.Y),
			ftoa(seg.To.X), ftoa(seg.To.Y),
		)
	}
	return b.String()
}

func ftoa(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
