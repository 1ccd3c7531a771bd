package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/latentecho/backdrop/engine"
	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/engine/renderer"
	"github.com/latentecho/backdrop/engine/window"
	"github.com/latentecho/backdrop/internal/animation"
	"github.com/latentecho/backdrop/internal/config"
	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/style"
	"github.com/latentecho/backdrop/internal/telemetry"
	"github.com/latentecho/backdrop/internal/theme"
)

// containerID names the host container the animation mounts into.
const containerID = "backdrop"

const stylesheetDebounce = 200 * time.Millisecond

var (
	runVariant  string
	runProfile  bool
	runHeadless uint64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the background animation",
	Long: `Open a window and run the configured animation until the window is closed.
Press T to toggle between the light and dark theme.

With --headless N no window is opened: N frames are rendered without a GPU and the
command exits, which is useful for checking a configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if runVariant != "" {
			if _, err := animation.ParseVariant(runVariant); err != nil {
				return err
			}
			cfg.Animation.Type = runVariant
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runAnimation(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().StringVar(&runVariant, "variant", "", "animation variant (landing, header)")
	runCmd.Flags().BoolVar(&runProfile, "profile", false, "log frame rate and memory statistics")
	runCmd.Flags().Uint64Var(&runHeadless, "headless", 0, "render N frames without a window and exit")
	rootCmd.AddCommand(runCmd)
}

func runAnimation(ctx context.Context, cfg *config.Config) error {
	tp, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(tp)

	store, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	var (
		doc     *host.MemoryDocument
		eng     engine.Engine
		factory animation.RendererFactory
	)
	if runHeadless > 0 {
		doc = host.NewMemoryDocument()
		doc.AddContainer(containerID, cfg.Window.Width, cfg.Window.Height, 1)
		eng = engine.NewEngine(
			engine.WithProfiling(runProfile),
			engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
			engine.WithMaxFrames(runHeadless),
		)
		factory = func() renderer.Renderer {
			return renderer.NewRenderer(renderer.BackendTypeHeadless, nil)
		}
	} else {
		win := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithWidth(cfg.Window.Width),
			window.WithHeight(cfg.Window.Height),
		)
		defer win.Close()

		var unmount func()
		doc, unmount = host.NewWindowDocument(win, containerID)
		defer unmount()

		eng = engine.NewEngine(
			engine.WithWindow(win),
			engine.WithProfiling(runProfile),
			engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		)
		backend := renderer.ParseBackendType(cfg.Render.Backend)
		factory = func() renderer.Renderer {
			return renderer.NewRenderer(backend, win,
				renderer.WithPresentMode(cfg.PresentMode()),
				renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
				renderer.WithLabel(containerID),
			)
		}
	}

	themes := theme.NewManager(doc, store, theme.WithPreference(preference(cfg)))
	if err := themes.Init(ctx); err != nil {
		return err
	}
	defer themes.Teardown()

	sheet, err := style.LoadStylesheet(cfg.Theme.Stylesheet)
	if err != nil {
		return err
	}
	resolver := style.NewResolver(sheet, themes)

	ctrl := animation.New(doc, containerID, cfg.AnimationSettings(),
		animation.WithTokens(resolver),
		animation.WithScheduler(eng),
		animation.WithRendererFactory(factory),
	)
	defer func() {
		if err := ctrl.Dispose(); err != nil {
			log.Printf("backdrop: disposing animation: %v", err)
		}
	}()
	if ctrl.State() == animation.StateInert {
		return fmt.Errorf("container %q is not mounted", containerID)
	}

	// The controller reads tokens from resolver on every step.
	if cfg.Theme.Watch && cfg.Theme.Stylesheet != "" {
		watcher, err := style.NewWatcher(cfg.Theme.Stylesheet, resolver, stylesheetDebounce)
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	if win := eng.Window(); win != nil {
		win.SetKeyDownCallback(func(keyCode uint32) {
			if keyCode != uint32(glfw.KeyT) {
				return
			}
			if _, err := themes.Toggle(ctx); err != nil {
				log.Printf("backdrop: toggling theme: %v", err)
			}
		})
	}

	log.Printf("backdrop: running %s animation (theme %s)", ctrl.Variant(), themes.Theme())
	err = eng.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil {
		err = ctrl.Err()
	}

	if runProfile {
		stats, _ := eng.Profiler().Last()
		fmt.Printf("%d frames, %.1f fps, heap %.1f MB\n", eng.FrameCount(), stats.FPS, stats.HeapMB)
	}
	return err
}

// fallbackScheme consults the environment first and falls back to the configured default theme.
type fallbackScheme struct {
	primary host.ColorSchemePreference
	dark    bool
}

func (f fallbackScheme) PrefersDark() (bool, bool) {
	if dark, known := f.primary.PrefersDark(); known {
		return dark, true
	}
	return f.dark, true
}

func preference(cfg *config.Config) host.ColorSchemePreference {
	return fallbackScheme{primary: host.EnvColorScheme{}, dark: cfg.Theme.Default == style.ThemeDark}
}

func shutdownTelemetry(tp *telemetry.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Printf("backdrop: telemetry shutdown: %v", err)
	}
}
