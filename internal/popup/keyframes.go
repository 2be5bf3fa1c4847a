package popup

import (
	"fmt"
	"math"
	"strings"
)

// KeyframesCSS returns the stylesheet for the menu open effect: the menu
// scales in with a quartic ease-out while its content counter-scales so
// that the text does not appear squashed.
func KeyframesCSS() string {
	var menu, content strings.Builder
	for step := 0; step <= 100; step++ {
		f := 1 - math.Pow(1-float64(step)/100, 4)
		x := 0.5 + 0.5*f
		y := 0.01 + 0.99*f
		fmt.Fprintf(&menu, "%d%% { transform: scale(%g, %g); }\n", step, x, y)
		fmt.Fprintf(&content, "%d%% { transform: scale(%g, %g); }\n", step, 1/x, 1/y)
	}
	return "@keyframes menuAnimation {\n" + menu.String() + "}\n\n" +
		"@keyframes menuContentsAnimation {\n" + content.String() + "}\n\n"
}
