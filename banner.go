package main

import (
	"fmt"

	"github.com/muesli/termenv"
)

// printBanner writes the startup banner with the legend colours
func printBanner() {
	p := termenv.ColorProfile()

	title := termenv.String("  Motion Planner").Bold().Foreground(p.Color(colorPath))
	fmt.Println()
	fmt.Println(title)
	for _, entry := range legend {
		marker := termenv.String("  ●").Foreground(p.Color(entry.Color))
		fmt.Printf("%s %s\n", marker, entry.Label)
	}
	fmt.Println()
}
