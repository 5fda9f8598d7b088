package gui

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"echo-deidentifier/internal/config"
	"echo-deidentifier/internal/deident"
	"echo-deidentifier/internal/export"
	"echo-deidentifier/internal/progress"
	"echo-deidentifier/internal/table"
	"echo-deidentifier/internal/xlsx"
)

// StepBuilder handles creating UI content for each wizard step
type StepBuilder struct {
	window fyne.Window
	wizard *Wizard

	// Step 1: Input fields
	inputFileEntry *widget.Entry
	rowCountLabel  *widget.Label
	loadedTable    *table.Table

	// Step 2: Settings fields
	thresholdEntry  *widget.Entry
	minVisitsEntry  *widget.Entry
	indicatorCheck  *widget.Check
	dropIndikCheck  *widget.Check
	avaCheck        *widget.Check

	// Step 3: Process
	processProgress *widget.ProgressBar
	processStatus   *widget.Label
	processLog      *widget.Label
	processSummary  *widget.Label
	processing      bool

	// Guards processing and loadedTable; both cross the UI/background
	// goroutine boundary.
	processingMu sync.Mutex
}

// NewStepBuilder creates a new step builder
func NewStepBuilder(window fyne.Window, wizard *Wizard) *StepBuilder {
	return &StepBuilder{
		window: window,
		wizard: wizard,
	}
}

// BuildStep1 creates the Input step content
func (s *StepBuilder) BuildStep1() fyne.CanvasObject {
	titleLabel := canvas.NewText("Select Export File", ColorTextPrimary)
	titleLabel.TextSize = 18
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	s.inputFileEntry = widget.NewEntry()
	s.inputFileEntry.SetPlaceHolder("/path/to/echo-export.xlsx")
	s.inputFileEntry.OnChanged = func(string) {
		s.updateRowCount()
	}

	browseBtn := widget.NewButton("Browse", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			s.inputFileEntry.SetText(reader.URI().Path())
		}, s.window)
	})

	inputRow := container.NewBorder(nil, nil, nil, browseBtn, s.inputFileEntry)

	s.rowCountLabel = widget.NewLabel("")
	s.rowCountLabel.Wrapping = fyne.TextWrapWord

	explanation := widget.NewLabel("The first sheet of the workbook is de-identified and " +
		"exported as a CSV. The original file is never modified.")
	explanation.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(
		titleLabel,
		widget.NewSeparator(),
		container.NewVBox(
			widget.NewLabelWithStyle("Workbook", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			inputRow,
			s.rowCountLabel,
		),
		widget.NewSeparator(),
		explanation,
	)

	return container.NewPadded(content)
}

// BuildStep2 creates the Settings step content
func (s *StepBuilder) BuildStep2() fyne.CanvasObject {
	titleLabel := canvas.NewText("Cohort Settings", ColorTextPrimary)
	titleLabel.TextSize = 18
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	s.thresholdEntry = widget.NewEntry()
	s.thresholdEntry.SetText(strconv.FormatFloat(config.DefaultThreshold, 'f', 1, 64))
	thresholdRow := container.NewHBox(
		widget.NewLabel("Peak velocity at or above"),
		s.thresholdEntry,
		widget.NewLabel("m/s"),
	)

	s.minVisitsEntry = widget.NewEntry()
	s.minVisitsEntry.SetText(strconv.Itoa(config.DefaultMinVisits))
	visitsRow := container.NewHBox(
		widget.NewLabel("At least"),
		s.minVisitsEntry,
		widget.NewLabel("visits per patient"),
	)

	s.indicatorCheck = widget.NewCheck("Require indicator code 8 (legacy cohorts)", nil)
	s.dropIndikCheck = widget.NewCheck("Remove the indicator column from the export", nil)
	s.avaCheck = widget.NewCheck("Compute valve area (continuity equation)", nil)
	s.avaCheck.SetChecked(true)

	content := container.NewVBox(
		titleLabel,
		widget.NewSeparator(),
		container.NewVBox(
			widget.NewLabelWithStyle("Cohort", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			thresholdRow,
			visitsRow,
			s.indicatorCheck,
		),
		widget.NewSeparator(),
		container.NewVBox(
			widget.NewLabelWithStyle("Output", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			s.dropIndikCheck,
			s.avaCheck,
		),
	)

	return container.NewPadded(content)
}

// BuildStep3 creates the Process step content
func (s *StepBuilder) BuildStep3() fyne.CanvasObject {
	titleLabel := canvas.NewText("Process", ColorTextPrimary)
	titleLabel.TextSize = 18
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	s.processProgress = widget.NewProgressBar()
	s.processStatus = widget.NewLabel("")
	s.processLog = widget.NewLabel("")
	s.processLog.Wrapping = fyne.TextWrapWord
	s.processSummary = widget.NewLabel("")
	s.processSummary.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(
		titleLabel,
		widget.NewSeparator(),
		s.processProgress,
		s.processStatus,
		widget.NewSeparator(),
		container.NewVScroll(s.processLog),
		s.processSummary,
	)

	return container.NewPadded(content)
}

// updateRowCount loads the workbook in the background and shows its size.
func (s *StepBuilder) updateRowCount() {
	path := strings.TrimSpace(s.inputFileEntry.Text)
	s.setLoadedTable(nil)
	if path == "" {
		s.rowCountLabel.SetText("")
		return
	}

	go func() {
		t, err := xlsx.Read(path)
		// Fyne v2.4 handles thread safety for widget updates
		if err != nil {
			s.rowCountLabel.SetText("Could not read workbook")
			return
		}
		s.setLoadedTable(t)
		s.rowCountLabel.SetText(fmt.Sprintf("Found %d row(s), %d column(s)", len(t.Rows), len(t.Columns)))
	}()
}

func (s *StepBuilder) setLoadedTable(t *table.Table) {
	s.processingMu.Lock()
	s.loadedTable = t
	s.processingMu.Unlock()
}

func (s *StepBuilder) hasLoadedTable() bool {
	s.processingMu.Lock()
	defer s.processingMu.Unlock()
	return s.loadedTable != nil
}

// ValidateStep1 validates the input step
func (s *StepBuilder) ValidateStep1() bool {
	if strings.TrimSpace(s.inputFileEntry.Text) == "" {
		dialog.ShowError(fmt.Errorf("please select an export file"), s.window)
		return false
	}
	if !s.hasLoadedTable() {
		dialog.ShowError(fmt.Errorf("the selected file could not be read as a workbook"), s.window)
		return false
	}
	return true
}

// ValidateStep2 validates the settings step
func (s *StepBuilder) ValidateStep2() bool {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s.thresholdEntry.Text), 64); err != nil {
		dialog.ShowError(fmt.Errorf("velocity threshold must be a number"), s.window)
		return false
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s.minVisitsEntry.Text)); err != nil || v < 1 {
		dialog.ShowError(fmt.Errorf("minimum visits must be a positive integer"), s.window)
		return false
	}
	return true
}

// IsProcessing reports whether a run is underway.
func (s *StepBuilder) IsProcessing() bool {
	s.processingMu.Lock()
	defer s.processingMu.Unlock()
	return s.processing
}

func (s *StepBuilder) setProcessing(v bool) {
	s.processingMu.Lock()
	s.processing = v
	s.processingMu.Unlock()
}

// Stage count for the progress bar; the pipeline reports one event per stage.
const stageTotal = 9

// RunProcess executes the pipeline and prompts for the save location.
func (s *StepBuilder) RunProcess() {
	if s.IsProcessing() {
		return
	}
	s.setProcessing(true)

	s.processProgress.SetValue(0)
	s.processStatus.SetText("Starting...")
	s.processLog.SetText("")
	s.processSummary.SetText("")
	s.wizard.SetBackEnabled(false)
	s.wizard.SetNextEnabled(false)

	inputPath := strings.TrimSpace(s.inputFileEntry.Text)
	threshold, _ := strconv.ParseFloat(strings.TrimSpace(s.thresholdEntry.Text), 64)
	minVisits, _ := strconv.Atoi(strings.TrimSpace(s.minVisitsEntry.Text))

	reporter := progress.NewReporter()
	stage := 0
	reporter.Subscribe(func(ev progress.Stage) {
		stage++
		s.processProgress.SetValue(float64(stage) / stageTotal)
		s.processStatus.SetText(fmt.Sprintf("%s (%d rows)", ev.Name, ev.Rows))
	})

	var logLines []string
	cfg := deident.Config{
		Threshold:       threshold,
		MinVisits:       minVisits,
		IndicatorFilter: s.indicatorCheck.Checked,
		DropIndicator:   s.dropIndikCheck.Checked,
		ComputeAVA:      s.avaCheck.Checked,
		Features:        deident.DefaultFeatures,
		Rand:            rand.New(rand.NewSource(guiSeed())),
		Logger:          zap.NewNop(),
		Reporter:        reporter,
		OutputWriter: func(line string) {
			logLines = append(logLines, strings.TrimRight(line, "\n"))
			s.processLog.SetText(strings.Join(logLines, "\n"))
		},
	}

	go func() {
		t, err := xlsx.Read(inputPath)
		if err != nil {
			s.fail(err)
			return
		}

		out, stats, err := deident.Run(cfg, t)
		if err != nil {
			s.fail(err)
			return
		}

		s.processProgress.SetValue(1)
		s.processStatus.SetText("Choose where to save the CSV")

		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				s.fail(fmt.Errorf("no save location chosen; nothing was written"))
				return
			}
			defer writer.Close()

			if err := export.WriteCSV(writer, out); err != nil {
				s.fail(err)
				return
			}

			s.processStatus.SetText("Done")
			s.processSummary.SetText(fmt.Sprintf(
				"%d row(s) exported, %d patient(s) pseudonymized, %d cell(s) perturbed.\nSaved to %s",
				stats.RowsAfterFrequency, stats.Patients, stats.JitteredCells, writer.URI().Path()))
			s.setProcessing(false)
			s.wizard.SetNextEnabled(true)
		}, s.window)
		d.SetFileName(export.OutputName(inputPath))
		d.Show()
	}()
}

// fail surfaces the error verbatim and re-enables the flow. No partial file
// is ever written.
func (s *StepBuilder) fail(err error) {
	s.processStatus.SetText("Failed")
	s.processSummary.SetText(err.Error())
	dialog.ShowError(err, s.window)
	s.setProcessing(false)
	s.wizard.SetBackEnabled(true)
}

// guiSeed draws a fresh seed so pseudonyms differ between runs.
func guiSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
