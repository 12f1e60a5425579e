// Package script runs tengo cue scripts. A cue script defines
//
//	on_cue := func(engine, cue) { ... }
//
// and reacts to named game moments by calling engine functions such as
// engine.play_music("calm") or engine.layer_up().
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/prefabs"
)

// Commands is what a cue script can do to the audio.
type Commands interface {
	PlayMusic(track string) bool
	StopMusic()
	SetLayer(level int)
	StepLayer(delta int)
	SetVolume(volume float64)
	PlaySFX(effect string, pos cp.Vector) bool
	Track() string
	Level() int
}

const cueDispatchScript = `
if __cue != "" {
	on_cue(__engine, __cue)
}
`

type Runtime struct {
	path     string
	compiled *tengo.Compiled
	log      *slog.Logger
}

// Load compiles a script from the prefab scripts directory.
func Load(path string, log *slog.Logger) (*Runtime, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return Compile(path, src, log)
}

// Compile builds a runtime from source. The script must define on_cue.
func Compile(path string, src []byte, log *slog.Logger) (*Runtime, error) {
	if log == nil {
		log = slog.Default()
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + cueDispatchScript))
	_ = script.Add("__cue", "")
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}

	rt := &Runtime{path: path, compiled: compiled, log: log}
	// Run once with no cue so top-level statements execute and a script
	// that fails at load time is rejected here.
	if err := rt.run("", &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		return nil, fmt.Errorf("script: init %s: %w", path, err)
	}
	return rt, nil
}

func (rt *Runtime) Path() string {
	return rt.path
}

// Fire runs the script's cue handler. Commands issued by the script are
// forwarded to cmds as they happen.
func (rt *Runtime) Fire(cue string, cmds Commands) error {
	cue = strings.TrimSpace(cue)
	if rt == nil || cue == "" || cmds == nil {
		return nil
	}
	if err := rt.run(cue, rt.engine(cmds)); err != nil {
		return fmt.Errorf("script: %s cue %q: %w", rt.path, cue, err)
	}
	return nil
}

func (rt *Runtime) run(cue string, engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__cue", cue); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (rt *Runtime) engine(cmds Commands) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["play_music"] = &tengo.UserFunction{Name: "play_music", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(cmds.PlayMusic(strings.TrimSpace(objectAsString(args[0])))), nil
	}}

	values["stop_music"] = &tengo.UserFunction{Name: "stop_music", Value: func(args ...tengo.Object) (tengo.Object, error) {
		cmds.StopMusic()
		return tengo.TrueValue, nil
	}}

	values["set_layer"] = &tengo.UserFunction{Name: "set_layer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		level, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		cmds.SetLayer(level)
		return tengo.TrueValue, nil
	}}

	values["layer_up"] = &tengo.UserFunction{Name: "layer_up", Value: func(args ...tengo.Object) (tengo.Object, error) {
		cmds.StepLayer(1)
		return tengo.TrueValue, nil
	}}

	values["layer_down"] = &tengo.UserFunction{Name: "layer_down", Value: func(args ...tengo.Object) (tengo.Object, error) {
		cmds.StepLayer(-1)
		return tengo.TrueValue, nil
	}}

	values["set_volume"] = &tengo.UserFunction{Name: "set_volume", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		volume, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		cmds.SetVolume(volume)
		return tengo.TrueValue, nil
	}}

	values["play_sfx"] = &tengo.UserFunction{Name: "play_sfx", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		var pos cp.Vector
		if len(args) >= 3 {
			pos.X, _ = tengo.ToFloat64(args[1])
			pos.Y, _ = tengo.ToFloat64(args[2])
		}
		return boolObject(cmds.PlaySFX(strings.TrimSpace(objectAsString(args[0])), pos)), nil
	}}

	values["track"] = &tengo.UserFunction{Name: "track", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: cmds.Track()}, nil
	}}

	values["level"] = &tengo.UserFunction{Name: "level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(cmds.Level())}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectAsString(arg))
		}
		rt.log.Info("script: "+strings.Join(parts, " "), "path", rt.path)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
