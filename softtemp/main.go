package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/device"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
	"github.com/jonspeicher/SoftTemperature/pkg/indicator"
	"github.com/jonspeicher/SoftTemperature/pkg/sample"
	"github.com/jonspeicher/SoftTemperature/pkg/scope"
)

func main() {
	var (
		portFlag       = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag     = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag       = flag.Bool("mock", false, "Use mocked device instead of serial port")
		filterSizeFlag = flag.Int("filter-size", -1, "Moving average window size (overrides config)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override filter size if provided via command line
	if *filterSizeFlag > 0 {
		cfg.Filter.Size = *filterSizeFlag
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	table, err := cfg.GradientTable()
	if err != nil {
		log.Fatalf("Invalid gradient: %v", err)
	}

	// Create Fyne application
	application := app.NewWithID("com.jonspeicher.softtemperature")

	// Create main window
	window := application.NewWindow("Soft Temperature")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	// Create application state
	appState := &appState{
		cfg:     cfg,
		device:  nil,
		window:  window,
		useMock: *mockFlag,
	}

	// Create toolbar
	toolbar := createToolbar(appState)

	// Create scope widget for graph display
	scopeWidget := scope.New(cfg, table)
	appState.scopeWidget = scopeWidget

	// Create border layout with toolbar at top and scope widget as content
	container := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		scopeWidget,
	)

	window.SetContent(container)
	window.ShowAndRun()
}

// measurementChain tracks the components of the measurement chain for graceful shutdown.
type measurementChain struct {
	device             device.Device
	rawSamples         <-chan device.RawSample
	samplesStream      <-chan sample.Sample
	indicatorGoroutine chan struct{} // Closed when indicator goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	device      device.Device
	indicator   *indicator.Indicator
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	connectBtn  *widget.Button
	displayBtn  *widget.Button
	useMock     bool
	displayHeld bool              // Mock display switch state
	chain       *measurementChain // Current measurement chain (nil if not connected)

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings, and Display buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	// Display button mirrors the physical display switch on the mock device.
	// For real hardware the switch lives on the board, so the button only
	// works with -mock.
	displayBtn := widget.NewButtonWithIcon("Display °F", theme.VisibilityIcon(), func() {
		handleDisplayToggle(state)
	})
	displayBtn.Disable()
	state.displayBtn = displayBtn

	// Create toolbar with buttons on left and the display button aligned to the right
	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		container.NewHBox(displayBtn),              // right
		nil, // center (spacer)
	)
}

// closeMeasurementChain gracefully closes the measurement chain.
// Waits for all goroutines to finish and channels to drain.
func closeMeasurementChain(chain *measurementChain) {
	if chain == nil {
		return
	}

	// Close device - this will close the rawSamples channel
	if chain.device != nil {
		chain.device.Close()
	}

	// Wait for indicator goroutine to finish
	// The indicator goroutine will exit when samplesStream closes
	// The samplesStream will close when the converter finishes draining
	if chain.indicatorGoroutine != nil {
		<-chain.indicatorGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close measurement chain
		closeMeasurementChain(state.chain)
		state.chain = nil
		state.device = nil
		state.indicator = nil
		state.displayBtn.Disable()
		state.displayHeld = false
		updateDisplayButtonState(state)
		if state.useMock {
			fmt.Println("Disconnected from mocked device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var dev device.Device
	if state.useMock {
		dev = device.NewMock(state.cfg)
		fmt.Println("Using mocked device")
	} else {
		dev = device.New(state.cfg.Serial.Port, device.DefaultBaudRate, device.DefaultBufferSize)
	}

	if err := dev.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = dev
	if state.useMock {
		fmt.Printf("Connected to mocked device\n")
		state.displayBtn.Enable()
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	// The indicator drives the device LED, so it is created per connection.
	ind, err := indicator.New(state.cfg, dev)
	if err != nil {
		dev.Close()
		state.device = nil
		dialog.ShowError(err, state.window)
		return
	}
	state.indicator = ind

	// Register callback with indicator to update scope widget
	// This must be done before starting the measurement chain
	// Throttle updates to ~60 FPS (16.67ms between updates) to ensure smooth UI
	const updateInterval = 16 * time.Millisecond // ~60 FPS
	ind.OnUpdate(func(samples []sample.Sample, color gradient.Color) {
		// Throttle updates to prevent UI from being overwhelmed
		state.updateMu.Lock()
		now := time.Now()
		timeSinceLastUpdate := now.Sub(state.lastUpdateTime)
		state.updateMu.Unlock()

		// Skip update if too soon since last update
		if timeSinceLastUpdate < updateInterval {
			return
		}

		// Update timestamp
		state.updateMu.Lock()
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		// Update scope widget on main thread
		// Scope widget handles downsampling internally, so pass full data
		fyne.Do(func() {
			state.scopeWidget.UpdateData(samples, color)
		})
	})

	// Converter pipeline: raw counts -> smoothed, calibrated samples
	// Increase buffer size to prevent channel full errors
	rawSamples := dev.Samples()
	samplesStream := sample.NewConverter(state.cfg, 500)(rawSamples)

	// Track goroutine for graceful shutdown
	indicatorDone := make(chan struct{})

	// Process samples through the indicator (drives the LED automatically)
	go func() {
		defer close(indicatorDone)
		ind.ProcessSamples(samplesStream)
	}()

	// Store chain for graceful shutdown
	state.chain = &measurementChain{
		device:             dev,
		rawSamples:         rawSamples,
		samplesStream:      samplesStream,
		indicatorGoroutine: indicatorDone,
	}
}
