package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/config"
	"github.com/ytget/convertudo/internal/convert"
	"github.com/ytget/convertudo/internal/platform"
	"github.com/ytget/convertudo/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.convertudo"
	AppName = "Convertudo"
)

func main() {
	// Log version information
	fmt.Printf("%s v%s starting...\n", AppName, version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	// Initialize settings, seeded from convertudo.yaml when present
	settings := config.NewSettings(myApp)
	fileConfig, err := config.LoadFileConfig(config.DefaultFileConfigPath())
	if err != nil {
		fmt.Printf("failed to load bootstrap config: %v\n", err)
	} else {
		settings.Seed(fileConfig)
	}

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		fmt.Printf("failed to ensure downloads dir: %v\n", err)
	}

	// Initialize services
	client := api.NewClient(settings.GetServerURL(), nil)
	convertSvc, err := convert.NewService(client, client, "")
	if err != nil {
		log.Fatalf("failed to start conversion service: %v", err)
	}
	log.Printf("Using conversion server %s", client.BaseURL())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// Create and setup UI
	root := ui.NewRootUI(myWindow, myApp, client, convertSvc)
	root.Start()

	// Show and run
	myWindow.ShowAndRun()
}
