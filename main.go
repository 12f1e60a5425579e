package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/layeredaudio/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "log every layer gain change")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory with audio, music and sfx yaml (embedded copies are used for missing files)")
	watch := flag.Bool("watch", false, "reload prefabs and cue scripts when they change on disk")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	prefabs.Dir = *prefabDir

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("layeredaudio")

	game, err := NewGame(logger, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
