package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transport"
	"github.com/ayusman/mudra/internal/tray"
)

func init() {
	// The preview window and the tray both need the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to the JSON config file")
	port := flag.String("port", "", "serial port to use (prompted when empty)")
	baud := flag.Int("baud", 0, "serial baud rate")
	camera := flag.Int("camera", -1, "camera device index")
	listen := flag.String("listen", "", "HTTP API address, empty string disables it")
	headless := flag.Bool("headless", false, "run without a preview window, controlled from the tray")
	dbPath := flag.String("db", "", "database path")
	listPorts := flag.Bool("list-ports", false, "list serial ports and exit")
	saveConfig := flag.Bool("save-config", false, "write the effective config file and exit")
	flag.Parse()

	fmt.Println("Mudra - Finger Counter")

	if *listPorts {
		ports, err := transport.ListPorts()
		if err != nil {
			return fmt.Errorf("failed to list serial ports: %w", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Only flags given on the command line override the file.
	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			o.Port = port
		case "baud":
			o.BaudRate = baud
		case "camera":
			o.CameraID = camera
		case "listen":
			o.Listen = listen
		case "headless":
			o.Headless = headless
		case "db":
			o.DBPath = dbPath
		}
	})
	cfg.Override(o)

	if *saveConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", *configPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	settings := st.Settings()
	lastPort, _ := settings.Get(store.SettingLastPort)
	opts := cfg.Serial
	if cfg.Port == "" {
		opts.BaudRate = settings.GetInt(store.SettingLastBaud, opts.BaudRate)
	}

	connector := transport.Connector{
		In:   os.Stdin,
		Out:  os.Stdout,
		List: transport.ListPorts,
		Open: transport.Open,
	}

	var serialSink transport.Sink = transport.Discard{}
	serialPath := ""
	sink, opts, err := connector.Connect(cfg.Port, opts, lastPort)
	if err != nil {
		log.Printf("Serial output disabled: %v", err)
	} else {
		defer sink.Close()
		serialSink = sink
		serialPath = sink.Path()
		if err := settings.Set(store.SettingLastPort, serialPath); err != nil {
			log.Printf("Failed to remember port: %v", err)
		}
		if err := settings.SetInt(store.SettingLastBaud, opts.BaudRate); err != nil {
			log.Printf("Failed to remember baud rate: %v", err)
		}
	}

	session, err := st.Sessions().Start(serialPath, opts.BaudRate)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer func() {
		if err := st.Sessions().End(session.ID); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
	}()
	log.Printf("Session %s started", session.ID)

	live := server.NewLiveHandler()
	defer live.Close()

	var t *tray.Tray
	if cfg.Headless {
		t = tray.New()
	}

	a := app.New(app.Config{
		CameraID: cfg.CameraID,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Counter:  cfg.Counter(),
		Detector: detector.Config{
			MaxHands:        detector.DefaultConfig().MaxHands,
			MinConfidence:   cfg.MinConfidence,
			MinTrackingConf: detector.DefaultConfig().MinTrackingConf,
		},
		Sink: transport.Fanout{serialSink, st.NewJournal(session.ID), live},
		OnChange: func(n int) {
			if t != nil {
				t.SetCount(n)
			}
		},
	})

	if cfg.Listen != "" {
		srv := server.New(server.Config{
			Store:      st,
			SessionID:  session.ID,
			SerialPort: serialPath,
			State:      a,
			Live:       live,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", cfg.Listen)
			if err := srv.ListenAndServe(cfg.Listen); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Headless {
		return runHeadless(ctx, a, t, cfg.Listen)
	}
	return runWindow(ctx, a)
}

func runWindow(ctx context.Context, a *app.App) error {
	if err := a.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer a.Stop()

	win := display.NewWindow(display.DefaultTitle, display.DefaultWidth, display.DefaultHeight)
	defer win.Close()

	if err := a.RunWindow(ctx, win); err != nil {
		fmt.Println("Failed to capture video")
		return err
	}
	return nil
}

func runHeadless(ctx context.Context, a *app.App, t *tray.Tray, listen string) error {
	errCh := make(chan error, 1)
	if err := a.Start(func(err error) {
		fmt.Println("Failed to capture video")
		errCh <- err
		t.Quit()
	}); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer a.Stop()

	t.OnPause(a.SetPaused)
	t.OnDashboard(func() {
		if listen == "" {
			fmt.Println("HTTP API is disabled")
			return
		}
		fmt.Printf("Dashboard: http://%s/api/state\n", listen)
	})

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	// Blocks until Quit is clicked, a signal arrives or capture fails.
	t.Run()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
