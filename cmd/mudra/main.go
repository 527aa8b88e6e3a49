package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./mudra.yaml or ~/.mudra/mudra.yaml)")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	fmt.Println("Mudra - Hand Finger Counter")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.File != "" {
		log.Printf("Using config file: %s", cfg.File)
	}

	// Initialize the store
	dbPath, err := cfg.StorePath()
	if err != nil {
		log.Fatalf("Failed to resolve store path: %v", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	p, err := pipeline.New(cfg.Pipeline)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	a := app.New(app.Config{
		Camera:     newCamera(cfg),
		Pipeline:   p,
		Dispatcher: app.NewBindingDispatcher(st),
		Workers:    cfg.Workers,
	})
	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start camera: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:    webDir,
		Store:        st,
		App:          a,
		Settings:     cfg,
		PreviewWidth: cfg.Server.PreviewWidth,
	})

	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *headless {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		return
	}

	runTray(a, previewURL(cfg.Server.Addr))
}

// newCamera returns the configured frame source.
func newCamera(cfg *config.Config) capture.Camera {
	device := cfg.Camera.Config
	if cfg.Camera.Synthetic {
		log.Printf("Using synthetic camera %dx%d", device.Width, device.Height)
		cam := capture.NewSyntheticCamera(device.Width, device.Height, capture.DefaultSequence, device.FPS*2)
		cam.SetFPS(device.FPS)
		return cam
	}
	return capture.NewCamera(device)
}

// runTray blocks until the tray's quit item is clicked.
func runTray(a *app.App, url string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnPreview(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open preview: %v", err)
		}
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})

	snapshots, cancel := a.Subscribe()
	defer cancel()
	go func() {
		for s := range snapshots {
			if s.Result == nil || !s.Result.Found {
				t.SetCount(-1)
				continue
			}
			t.SetCount(s.Result.FingerCount)
		}
	}()

	t.Run()
}

func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, config.DataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
