package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fouzanpasha/physioapp/internal/app"
	"github.com/fouzanpasha/physioapp/internal/server"
	"github.com/fouzanpasha/physioapp/internal/speech"
	"github.com/fouzanpasha/physioapp/internal/store"
	"github.com/fouzanpasha/physioapp/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "path to the SQLite database (default ~/.physioapp/physioapp.db)")
	cameraID := flag.Int("camera", 0, "camera device ID")
	ttsCmd := flag.String("tts", defaultTTSCommand(), "text-to-speech command (empty disables voice feedback)")
	useTray := flag.Bool("tray", runtime.GOOS == "darwin", "run with a system tray icon")
	flag.Parse()

	fmt.Println("PhysioApp - Exercise Coaching")

	// Initialize the store
	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".physioapp")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "physioapp.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Voice feedback
	var announcer speech.Announcer = speech.NopAnnouncer{}
	if *ttsCmd != "" {
		parts := strings.Fields(*ttsCmd)
		announcer = speech.NewExecAnnouncer(parts[0], parts[1:]...)
	}
	defer announcer.Close()

	// Coaching engine
	coach := app.New(app.Config{
		Store:     st,
		CameraID:  *cameraID,
		Announcer: announcer,
	})
	if err := coach.Start(); err != nil {
		log.Printf("Camera unavailable, coaching disabled: %v", err)
	}
	defer coach.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure the server
	cfg := server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       coach,
	}

	srv := server.New(cfg)

	if *useTray {
		runWithTray(srv, coach, *addr)
		return
	}

	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runWithTray starts the HTTP server in the background and blocks on the
// system tray event loop.
func runWithTray(srv *server.Server, coach *app.App, addr string) {
	t := tray.New()
	t.OnToggle(coach.SetEnabled)
	t.OnSettings(func() {
		openBrowser(dashboardURL(addr))
	})
	t.OnQuit(func() {
		coach.Stop()
	})

	coach.AddTickHook(func(tick app.Tick) {
		t.SetLastResult(tick.RepCount, tick.Score)
	})

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t.Run()
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// defaultTTSCommand picks a speech synthesizer available on the platform.
func defaultTTSCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "say"
	case "windows":
		return ""
	default:
		return "espeak"
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.physioapp/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
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

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".physioapp", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
