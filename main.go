/*
Command levelbatch loads a level manifest, batches its instances into
combined GPU buffers and reports the result. With assets.watch enabled it
keeps running and rebuilds the level whenever one of its assets changes.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/spaghettifunk/levelbatch/engine"
	"github.com/spaghettifunk/levelbatch/engine/core"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to the TOML configuration file")
	level := flag.String("level", "", "Level to load, overrides loader.level")
	watch := flag.Bool("watch", false, "Rebuild the level when its assets change, overrides assets.watch")
	progress := flag.Bool("progress", false, "Show a progress bar while meshes load")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("failed to load config '%s': %s", *configPath, err.Error())
	}
	if *level != "" {
		cfg.Loader.Level = *level
	}
	if *watch {
		cfg.Assets.Watch = true
	}
	if err := cfg.Apply(); err != nil {
		core.LogFatal(err.Error())
	}

	var opts []engine.Option
	if *progress {
		opts = append(opts, engine.WithLoadProgress(progressReporter()))
	}

	e, err := engine.New(cfg, opts...)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}
	report(e)

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = e.Shutdown()
	}()

	if err := e.Run(); err != nil {
		core.LogFatal(err.Error())
	}
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
}

func report(e *engine.Engine) {
	lvl := e.Level()
	if failed := lvl.Failed(); len(failed) > 0 {
		core.LogWarn("%d mesh(es) left out of the draw set: %v", len(failed), failed)
	}
	for _, d := range lvl.Drawables() {
		core.LogDebug("draw %-24s indices %6d @ %-8d base vertex %-8d instances %4d @ %-6d material %d",
			d.Key, d.IndexCount, d.FirstIndex, d.VertexOffset, d.InstanceCount, d.TransformOffset, d.MaterialIndex)
	}
	frame := e.Frame()
	core.LogInfo("level '%s': %d draws, %d bytes of buffers", e.LevelName(), len(frame.Commands),
		frame.Vertices.TotalSize()+frame.Indices.TotalSize()+frame.Transforms.TotalSize()+frame.Materials.TotalSize())
}

// progressReporter starts a new bar for every level load.
func progressReporter() func(fetched, total int) {
	var mu sync.Mutex
	var bar *progressbar.ProgressBar
	return func(fetched, total int) {
		mu.Lock()
		defer mu.Unlock()
		if fetched == 1 {
			bar = progressbar.Default(int64(total), "loading meshes")
		}
		if bar == nil {
			return
		}
		_ = bar.Set(fetched)
		if fetched == total {
			_ = bar.Close()
			bar = nil
		}
	}
}
