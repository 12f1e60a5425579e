// Command layermix inspects the layered music setup without an audio device.
//
// Usage:
//
//	layermix simulate [--cue 2s=fight ...] [--duration 8s]
//	layermix check
package main

import (
	"fmt"
	"os"

	"github.com/milk9111/layeredaudio/cmd/layermix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
