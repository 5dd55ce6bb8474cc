// Package ui implements the Fyne shell for the culling application: window
// layout, folder pickers, the settings dialog, and the gesture surface.
package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Akaiko1/rapid-culler/internal/action"
	"github.com/Akaiko1/rapid-culler/internal/config"
	"github.com/Akaiko1/rapid-culler/internal/imaging"
	"github.com/Akaiko1/rapid-culler/internal/scanner"
	"github.com/Akaiko1/rapid-culler/internal/session"
)

const (
	// UI Constants
	appTitle     = "Rapid Image Culler for Datasets"
	windowWidth  = 800
	windowHeight = 700

	// Delay between advancing the index and refreshing the display, purely
	// to let the UI repaint between moves.
	displayDelay = 10 * time.Millisecond

	// Messages
	msgNoFolder   = "No folder selected"
	msgNoImages   = "No image files found in source folder."
	msgDone       = "All images have been sorted!"
	msgFinished   = "--- NO MORE IMAGES ---"
	msgInProgress = "Culling in progress..."
)

// CullerApp represents the main GUI application for image culling.
type CullerApp struct {
	// Core components
	app    fyne.App
	window fyne.Window
	store  *config.Store

	// Services
	router     *action.Router
	controller *session.Controller

	// UI components
	surface           *gestureSurface
	statusLabel       *widget.Label
	instructionsLabel *widget.Label
	srcLabel          *widget.Label
	keepLabel         *widget.Label
	startBtn          *widget.Button

	// State - UI thread only, no synchronization needed
	srcDir  string
	keepDir string
}

// NewCullerApp creates a CullerApp wired to the given settings store.
func NewCullerApp(store *config.Store) *CullerApp {
	fyneApp := app.New()
	fyneApp.SetIcon(theme.FolderOpenIcon())

	window := fyneApp.NewWindow(appTitle)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))

	a := &CullerApp{
		app:               fyneApp,
		window:            window,
		store:             store,
		statusLabel:       widget.NewLabel("Waiting to start..."),
		instructionsLabel: widget.NewLabel(""),
		srcLabel:          widget.NewLabel(msgNoFolder),
		keepLabel:         widget.NewLabel(msgNoFolder),
	}

	a.controller = session.NewController(nil, session.Callbacks{
		OnShow:      a.showRecord,
		OnFinished:  a.finishCulling,
		OnMoveError: a.handleMoveError,
	})
	a.router = action.NewRouter(action.Triggers{
		Keep:     a.controller.Keep,
		Reject:   a.controller.Reject,
		Next:     a.controller.Next,
		Previous: a.controller.Previous,
		Skip:     a.controller.Skip,
	})

	return a
}

// Run starts the application.
func (a *CullerApp) Run() {
	a.window.SetContent(a.createMainContent())
	a.applyConfig()
	a.window.ShowAndRun()
}

// createMainContent creates the main UI content.
func (a *CullerApp) createMainContent() fyne.CanvasObject {
	srcBtn := widget.NewButton("1. Select SOURCE Folder", a.handleSelectSource)
	keepBtn := widget.NewButton("2. Select KEEP Destination", a.handleSelectKeep)

	a.startBtn = widget.NewButton("3. START CULLING", a.handleStart)
	a.startBtn.Importance = widget.HighImportance
	a.startBtn.Disable()

	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), a.handleOpenSettings)

	controls := container.NewVBox(
		container.NewBorder(nil, nil, srcBtn, nil, a.srcLabel),
		container.NewBorder(nil, nil, keepBtn, nil, a.keepLabel),
		container.NewBorder(nil, nil, nil, settingsBtn, a.startBtn),
	)

	instructions := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("INSTRUCTIONS:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.statusLabel,
		a.instructionsLabel,
	)

	a.surface = newGestureSurface(a.router.Trigger)

	header := container.NewVBox(controls, instructions)
	return container.NewBorder(header, nil, nil, nil, a.surface)
}

// applyConfig is the single entry point for applying the store's document
// to the running app: folder labels, gesture bindings, and the
// instructions line are all refreshed together.
func (a *CullerApp) applyConfig() {
	src := a.store.GetString("src", "")
	keep := a.store.GetString("keep", "")

	if src != "" && isDir(src) {
		a.srcDir = src
		a.srcLabel.SetText(src)
	}
	if keep != "" && isDir(keep) {
		a.keepDir = keep
		a.keepLabel.SetText(keep)
	}

	a.router.Rebind(map[action.Gesture]string{
		action.PrimaryClick:   a.store.GetString("button_mappings.left_click", "keep"),
		action.SecondaryClick: a.store.GetString("button_mappings.right_click", "reject"),
		action.WheelUp:        a.store.GetString("wheel_mappings.wheel_up", "previous"),
		action.WheelDown:      a.store.GetString("wheel_mappings.wheel_down", "next"),
	})
	a.instructionsLabel.SetText(a.router.Summary())

	a.checkReady()
}

// checkReady enables the start control once both folders are configured.
// Starting without them is impossible by construction.
func (a *CullerApp) checkReady() {
	if a.srcDir != "" && a.keepDir != "" && a.controller.State() != session.Browsing {
		a.startBtn.Enable()
	}
}

// handleSelectSource handles source folder selection.
func (a *CullerApp) handleSelectSource() {
	folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
		if err != nil {
			a.showError("Folder Selection Error", err)
			return
		}
		if folder == nil {
			return // User cancelled
		}
		a.srcDir = folder.Path()
		a.srcLabel.SetText(a.srcDir)
		a.saveFolders()
		a.checkReady()
	}, a.window)

	folderDialog.Show()
}

// handleSelectKeep handles keep destination selection.
func (a *CullerApp) handleSelectKeep() {
	folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
		if err != nil {
			a.showError("Folder Selection Error", err)
			return
		}
		if folder == nil {
			return // User cancelled
		}
		a.keepDir = folder.Path()
		a.keepLabel.SetText(a.keepDir)
		a.saveFolders()
		a.checkReady()
	}, a.window)

	folderDialog.Show()
}

// saveFolders persists the chosen folders immediately.
func (a *CullerApp) saveFolders() {
	a.store.Set("src", a.srcDir)
	a.store.Set("keep", a.keepDir)
	if err := a.store.Save(a.store.Document()); err != nil {
		log.Printf("Warning: failed to save settings: %v", err)
	}
}

// handleStart begins a culling session.
func (a *CullerApp) handleStart() {
	recursive := a.store.GetBool("options.recursive_loading", false)

	err := a.controller.Start(a.srcDir, a.keepDir, recursive)
	if errors.Is(err, session.ErrNoImages) {
		dialog.ShowInformation("No Images", msgNoImages, a.window)
		return
	}
	if err != nil {
		a.showError("Scan Error", err)
		return
	}

	// Lock the controls so paths don't change mid-stream.
	a.startBtn.Disable()
	a.startBtn.SetText(msgInProgress)
}

// showRecord updates the status line and schedules the display refresh.
func (a *CullerApp) showRecord(rec scanner.ImageRecord, index, total int) {
	a.statusLabel.SetText(fmt.Sprintf("Image %d of %d: %s", index+1, total, rec.DisplayPath()))

	go func() {
		time.Sleep(displayDelay)
		fyne.Do(func() {
			a.displayRecord(rec)
		})
	}()
}

// displayRecord decodes and shows the record, auto-rejecting files that
// cannot be decoded so a corrupt image never blocks the session.
func (a *CullerApp) displayRecord(rec scanner.ImageRecord) {
	if current, ok := a.controller.Current(); !ok || current.FullPath != rec.FullPath {
		return // Stale refresh, a newer record is already current
	}

	maxW, maxH := a.surfaceBounds()
	img, err := imaging.Load(rec.FullPath, maxW, maxH)
	if err != nil {
		var decodeErr *imaging.DecodeError
		if errors.As(err, &decodeErr) {
			log.Printf("Error loading image %s: %v", rec.DisplayPath(), err)
			a.controller.Reject() // Auto-reject corrupted images
			return
		}
		a.showError("Image Error", err)
		return
	}

	a.surface.SetImage(img)
}

// surfaceBounds returns the display surface size, or zeros when the window
// has not been laid out yet (the decoder then skips downscaling).
func (a *CullerApp) surfaceBounds() (int, int) {
	size := a.surface.Size()
	if size.Width > 10 && size.Height > 10 {
		return int(size.Width), int(size.Height)
	}
	return 0, 0
}

// handleMoveError reports a failed move; the current image stays active so
// the user can retry.
func (a *CullerApp) handleMoveError(rec scanner.ImageRecord, err error) {
	a.showError("File Error", fmt.Errorf("could not move %s: %w", rec.DisplayPath(), err))
}

// finishCulling signals completion and quits once acknowledged.
func (a *CullerApp) finishCulling() {
	a.surface.SetMessage(msgFinished)
	a.statusLabel.SetText("Finished.")

	done := dialog.NewInformation("Done", msgDone, a.window)
	done.SetOnClosed(func() {
		a.app.Quit()
	})
	done.Show()
}

// showError shows an error dialog.
func (a *CullerApp) showError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
