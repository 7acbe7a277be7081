package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lmcneill42/space-game/assets"
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/config"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/metrics"
	"github.com/lmcneill42/space-game/render"
	"github.com/lmcneill42/space-game/render/ebitenrender"
	"github.com/lmcneill42/space-game/render/tcellrender"
	"github.com/lmcneill42/space-game/spawners"
	"github.com/lmcneill42/space-game/systems"
)

const (
	defaultPlayer = "player.txt"
	defaultWaves  = "waves.txt"
)

type options struct {
	configs  string
	anims    string
	config   string
	renderer string
	resolve  string
	build    string
	player   string
	waves    string
	seed     int64
	frames   int
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("space-game", flag.ContinueOnError)
	fs.StringVar(&o.configs, "configs", "res/configs", "config root directory")
	fs.StringVar(&o.anims, "anims", assets.DefaultRoot, "animation root directory")
	fs.StringVar(&o.config, "config", "", "runtime config name in the config root (default ./"+config.LocalConfig+" if present, else "+config.BaseConfig+")")
	fs.StringVar(&o.renderer, "renderer", "", "renderer identifier, overrides the runtime config ("+ebitenrender.ID+", "+tcellrender.ID+", "+render.HeadlessID+")")
	fs.StringVar(&o.resolve, "resolve", "", "print the resolved config and exit")
	fs.StringVar(&o.build, "build", "", "build the config, print the entity tree and exit")
	fs.StringVar(&o.player, "player", defaultPlayer, "config the player is built from")
	fs.StringVar(&o.waves, "waves", defaultWaves, "wave config, empty for no waves")
	fs.Int64Var(&o.seed, "seed", 0, "wave spawner seed (0 picks one)")
	fs.IntVar(&o.frames, "frames", 0, "stop after this many frames (0 runs until game over)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func main() {
	logger.Init()

	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := run(o, os.Stdout); err != nil {
		logger.Log.WithError(err).Fatal("space-game failed")
	}
}

func run(o *options, out io.Writer) error {
	store := data.NewDirStore(o.configs)
	resolver := data.NewResolver(store)

	if o.resolve != "" {
		return dumpResolved(resolver, o.resolve, out)
	}

	runtime, err := loadRuntime(resolver, o.config)
	if err != nil {
		return err
	}
	if runtime.Debug {
		logger.EnableDebug()
	}
	if o.renderer != "" {
		runtime.Renderer = o.renderer
	}
	logger.Get().WithField("config", runtime.Source).Info("Runtime config loaded")

	if runtime.MetricsAddr != "" {
		serveMetrics(runtime.MetricsAddr)
	}

	world := ecs.NewWorld()
	catalog := assets.NewCatalog(os.DirFS(o.anims), assets.WithMinimiseLoading(runtime.MinimiseImageLoading))
	assembler := spawners.NewAssembler(world, store, resolver, components.DefaultRegistry(),
		spawners.WithAnimations(catalog))

	if o.build != "" {
		if _, err := assembler.Build(o.build); err != nil {
			return err
		}
		for _, line := range render.Scene(world) {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	messages := systems.NewMessageLog()
	camera := systems.NewCameraSystem()
	renderer, err := render.New(runtime.Renderer, render.Options{
		Title:    "Space Game",
		Messages: messages,
		Camera:   camera,
		Debug:    runtime.Debug,
		Log:      logger.Get(),
	})
	if err != nil {
		return err
	}
	width, height := runtime.GetWindowSize()
	if err := renderer.Init(width, height); err != nil {
		return err
	}
	defer renderer.Shutdown()

	game := NewGame(world, assembler, renderer, messages, camera)
	if _, err := game.Spawn(o.player, "player"); err != nil {
		return err
	}
	if o.waves != "" {
		cfg, err := loadWaves(resolver, o.waves)
		if err != nil {
			return err
		}
		waves := game.StartWaves(cfg)
		if o.seed != 0 {
			waves.SetSeed(o.seed)
		}
	}
	messages.Add("Welcome, pilot.")
	return game.Run(o.frames)
}

func loadRuntime(resolver *data.Resolver, name string) (*config.Runtime, error) {
	if name != "" {
		return config.Load(resolver, name)
	}
	return config.Locate(resolver, "./"+config.LocalConfig)
}

// loadWaves reads the wave config, using the defaults when the shipped one
// is missing
func loadWaves(resolver *data.Resolver, name string) (systems.WaveConfig, error) {
	res, err := resolver.ResolveName(name)
	var notFound *data.NotFoundError
	if errors.As(err, &notFound) && name == defaultWaves {
		logger.Get().WithField("config", name).Warn("No wave config, using defaults")
		return systems.DefaultWaveConfig(), nil
	}
	if err != nil {
		return systems.WaveConfig{}, err
	}
	return systems.WaveConfigFrom(res)
}

func dumpResolved(resolver *data.Resolver, name string, out io.Writer) error {
	res, err := resolver.ResolveName(name)
	if err != nil {
		return err
	}
	src, err := res.Encode()
	if err != nil {
		return err
	}
	_, err = out.Write(src)
	return err
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	go func() {
		logger.Get().WithField("addr", addr).Info("Serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Get().WithError(err).Error("Metrics server stopped")
		}
	}()
}
