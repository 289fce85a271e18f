package main

import (
	"fmt"
)

// ANSI color helpers
const (
	blue  = "\033[38;5;81m"
	deep  = "\033[38;5;26m"
	gray  = "\033[38;5;242m"
	white = "\033[1;37m"
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
)

func main() {
	info := white + "graphchat " + gray + "v0.1.0" + reset
	server := gray + "http://localhost:8000" + reset

	fmt.Println()
	fmt.Println(bold + "═══ Pick a graph logo ═══" + reset)

	// ── Option A: Triangle graph ──
	fmt.Println()
	fmt.Println(dim + "Option A — Triangle" + reset)
	fmt.Println()
	fmt.Printf("   %s(a)%s%s───%s%s(b)%s        %s\n", blue, reset, gray, reset, blue, reset, info)
	fmt.Printf("     %s╲   ╱%s          %s\n", gray, reset, server)
	fmt.Printf("     %s(c)%s\n", blue, reset)

	// ── Option B: Wide graph ──
	fmt.Println()
	fmt.Println(dim + "Option B — Wide mesh" + reset)
	fmt.Println()
	fmt.Printf("   %s(a)%s%s───%s%s(b)%s\n", blue, reset, gray, reset, blue, reset)
	fmt.Printf("    %s│  ╲  │%s           %s\n", gray, reset, info)
	fmt.Printf("   %s(c)%s%s───%s%s(d)%s%s───%s%s(e)%s   %s\n", blue, reset, gray, reset, blue, reset, gray, reset, blue, reset, server)

	// ── Option C: Chain ──
	fmt.Println()
	fmt.Println(dim + "Option C — Chain" + reset)
	fmt.Println()
	fmt.Printf("   %s(a)%s%s──▶%s%s(b)%s%s──▶%s%s(c)%s   %s\n", blue, reset, gray, reset, blue, reset, gray, reset, blue, reset, info)
	fmt.Printf("                       %s\n", server)

	// ── Light terminal variant of Option B ──
	fmt.Println()
	fmt.Println(dim + "Option B on a light palette" + reset)
	fmt.Println()
	fmt.Printf("   %s(a)%s%s───%s%s(b)%s\n", deep, reset, gray, reset, deep, reset)
	fmt.Printf("    %s│  ╲  │%s           %s\n", gray, reset, info)
	fmt.Printf("   %s(c)%s%s───%s%s(d)%s%s───%s%s(e)%s   %s\n", deep, reset, gray, reset, deep, reset, gray, reset, deep, reset, server)

	fmt.Println()
	fmt.Println(dim + "Which one? (A/B/C)" + reset)
	fmt.Println()
}
