package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/intothevoid/docscan/pkg/camera"
	"github.com/intothevoid/docscan/pkg/scanner"
	"github.com/intothevoid/docscan/pkg/ui"
	"github.com/intothevoid/docscan/pkg/vision"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	DEVICE_ID_IPHONE int = 0
	DEVICE_ID_WEBCAM int = 1
)

// fixedHeightLayout gives its children a fixed height and the full available width.
type fixedHeightLayout struct {
	height float32
}

func (l *fixedHeightLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, l.height)
}

func (l *fixedHeightLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(fyne.NewSize(size.Width, l.height))
	}
}

func main() {
	// 1. Setup the Fyne UI App
	myApp := app.New()
	window := myApp.NewWindow("docscan - OpenCV Document Scanner")

	// 2. Initialize the Camera
	stream, err := camera.NewVideoStream(DEVICE_ID_WEBCAM)
	if err != nil {
		panic(fmt.Sprintf("Could not open camera: %v", err))
	}
	defer stream.Close()

	// 3. Load tuning config, falling back to defaults if none is present
	cfg, cfgErr := scanner.LoadConfigFile("scanner.toml")
	if cfgErr != nil {
		cfg = scanner.DefaultConfig()
	}

	session := scanner.NewSession(cfg)
	analyzer := scanner.NewAnalyzer(session)

	// 4. Create display widgets
	mainDisplay := ui.NewVideoDisplay()   // Camera feed (event previews, no polygon overlay drawn)
	greyDisplay := ui.NewVideoDisplay()   // Greyscale debug view
	edgesDisplay := ui.NewVideoDisplay()  // Edge map debug view
	warpedDisplay := ui.NewVideoDisplay() // Rectified document debug view

	// Debug view visibility toggles (thread-safe)
	var toggleMu sync.Mutex
	showGrey := true
	showEdges := true
	showWarped := true

	greyCheck := widget.NewCheck("Greyscale", func(checked bool) {
		toggleMu.Lock()
		showGrey = checked
		toggleMu.Unlock()
		fyne.Do(func() {
			if checked {
				greyDisplay.Show()
			} else {
				greyDisplay.Hide()
			}
		})
	})
	greyCheck.Checked = true

	edgesCheck := widget.NewCheck("Edges", func(checked bool) {
		toggleMu.Lock()
		showEdges = checked
		toggleMu.Unlock()
		fyne.Do(func() {
			if checked {
				edgesDisplay.Show()
			} else {
				edgesDisplay.Hide()
			}
		})
	})
	edgesCheck.Checked = true

	warpedCheck := widget.NewCheck("Rectified", func(checked bool) {
		toggleMu.Lock()
		showWarped = checked
		toggleMu.Unlock()
		fyne.Do(func() {
			if checked {
				warpedDisplay.Show()
			} else {
				warpedDisplay.Hide()
			}
		})
	})
	warpedCheck.Checked = true

	autoCheck := widget.NewCheck("Auto-capture", func(checked bool) {
		live := cfg
		live.AutoCapture = checked
		session.UpdateConfig(live)
	})
	autoCheck.Checked = cfg.AutoCapture

	// ── Status bar widgets ──
	statusLabel := widget.NewLabel("Starting up...")
	statusLabel.TextStyle = fyne.TextStyle{Monospace: true}
	statusLabel.Wrapping = fyne.TextWrapWord

	debugLabel := widget.NewLabel("")
	debugLabel.TextStyle = fyne.TextStyle{Monospace: true}

	setStatus := func(msg string) {
		fyne.Do(func() {
			statusLabel.SetText(msg)
		})
	}

	statusTitle := widget.NewRichTextFromMarkdown("**Status**")
	debugTitle := widget.NewRichTextFromMarkdown("**Debug**")

	statusPanel := container.NewBorder(statusTitle, nil, nil, nil, statusLabel)
	debugScroll := container.NewVScroll(debugLabel)
	debugPanel := container.NewBorder(debugTitle, nil, nil, nil, debugScroll)

	statusBar := container.NewHSplit(statusPanel, debugPanel)
	statusBar.Offset = 0.5

	statusWrapper := container.New(layout.NewCustomPaddedLayout(4, 4, 4, 4), statusBar)
	fixedStatusBar := container.New(&fixedHeightLayout{height: 120}, statusWrapper)

	var debugMu sync.Mutex
	debugLines := make([]string, 0, 20)
	addDebug := func(msg string) {
		debugMu.Lock()
		debugLines = append(debugLines, msg)
		if len(debugLines) > 15 {
			debugLines = debugLines[len(debugLines)-15:]
		}
		combined := ""
		for _, l := range debugLines {
			combined += l + "\n"
		}
		debugMu.Unlock()
		fyne.Do(func() {
			debugLabel.SetText(combined)
			debugScroll.ScrollToBottom()
		})
	}

	captureLabel := widget.NewLabel("Last capture: --")
	captureLabel.TextStyle = fyne.TextStyle{Bold: true}

	captureBtn := widget.NewButton("Capture now", func() {
		session.TriggerManualCapture()
		addDebug("Manual capture requested")
	})
	captureBtn.Importance = widget.SuccessImportance

	toggleBar := container.NewHBox(greyCheck, edgesCheck, warpedCheck, autoCheck)

	// ── Left panel: live feed + debug views ──
	debugRow := container.NewGridWithColumns(3, greyDisplay, edgesDisplay, warpedDisplay)
	leftContent := container.NewVSplit(mainDisplay, debugRow)
	leftContent.Offset = 0.67
	leftPanel := container.NewBorder(toggleBar, nil, nil, nil, leftContent)

	// ── Right panel: capture controls ──
	rightPanel := container.NewVBox(captureBtn, captureLabel)

	topSplit := container.NewHSplit(leftPanel, rightPanel)
	topSplit.Offset = 0.8

	mainLayout := container.NewBorder(nil, fixedStatusBar, nil, nil, topSplit)

	// ── Tap handler: tapping the live feed forces a capture, per spec.md §4.4 ──
	mainDisplay.OnTapped = func() {
		session.TriggerManualCapture()
		addDebug("Capture requested via tap")
	}

	// ── Event consumer goroutine ──
	go func() {
		for ev := range session.Events() {
			switch ev.Kind {
			case scanner.EventDocumentDetected:
				if ev.Document != nil {
					setStatus("Document detected")
				} else {
					setStatus("Searching for a document...")
				}
				if ev.Preview != nil {
					mainDisplay.UpdateFrame(ev.Preview)
				}
			case scanner.EventDocumentCaptured:
				addDebug(fmt.Sprintf("Captured %s", ev.CaptureID))
				fyne.Do(func() {
					captureLabel.SetText("Last capture: " + ev.CaptureID)
				})
				if ev.Image != nil {
					warpedDisplay.UpdateFrame(ev.Image)
				}
			}
		}
	}()

	setStatus("Waiting for camera...")
	addDebug("Application started")

	// ── The background frame loop ──
	go func() {
		frameCount := 0

		for {
			frame, err := stream.ReadFrame()
			if err != nil {
				continue
			}

			frameCount++
			if frameCount == 1 {
				addDebug("First frame received from camera")
			}

			nowMs := uint64(time.Now().UnixMilli())

			stages := vision.PreprocessStages(frame.Mat)

			toggleMu.Lock()
			wantGrey := showGrey
			wantEdges := showEdges
			wantWarped := showWarped
			toggleMu.Unlock()

			if wantGrey {
				if greyImg, ierr := stages.Grey.ToImage(); ierr == nil {
					greyDisplay.UpdateFrame(greyImg)
				}
			}
			if wantEdges {
				if edgesImg, ierr := stages.Edges.ToImage(); ierr == nil {
					edgesDisplay.UpdateFrame(edgesImg)
				}
			}
			stages.Close()

			doc, _ := analyzer.Submit(frame, nowMs)
			if doc != nil && wantWarped {
				if rectified, rectErr := vision.Rectify(frame.Mat, doc.Quad); rectErr == nil {
					if warpedImg, ierr := rectified.ToImage(); ierr == nil {
						warpedDisplay.UpdateFrame(warpedImg)
					}
					rectified.Close()
				}
			}

			// mainDisplay is driven solely by the event consumer's
			// EventDocumentDetected/Preview field above, not updated here.

			time.Sleep(time.Millisecond * 33)
		}
	}()

	// 5. Layout and Run
	window.SetContent(mainLayout)
	window.Resize(fyne.NewSize(1280, 900))
	window.ShowAndRun()
}
