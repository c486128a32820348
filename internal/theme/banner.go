package theme

import (
	"fmt"
)

// Banner returns the CLI banner.
func Banner() string {
	const green = "\033[32m"
	const magenta = "\033[35m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"  ☣     " + magenta + "TOXICHECK" + reset + "     ☣\n" +
		green + "   ▄██████▄  ▄██▄  ▄██████▄\n" + reset +
		green + "  ▐██▀  ▀██▌ ▐██▌ ▐██▀  ▀██▌\n" + reset +
		green + "   ▀██▄▄██▀  ▐██▌  ▀██▄▄██▀\n" + reset +
		yellow + "  ──────────────────────────\n" + reset +
		"   how toxic is that timeline, really?\n"

	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
