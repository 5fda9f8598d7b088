package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	AppTitle  = "Echo Export De-identifier"
	AppWidth  = 650
	AppHeight = 560
)

// App represents the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	wizard     *Wizard
	steps      *StepBuilder
}

// NewApp creates a new GUI application
func NewApp() *App {
	a := app.New()
	a.Settings().SetTheme(&DarkTheme{})

	return &App{
		fyneApp: a,
	}
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow = a.fyneApp.NewWindow(AppTitle)
	a.mainWindow.Resize(fyne.NewSize(AppWidth, AppHeight))
	a.mainWindow.CenterOnScreen()

	a.wizard = NewWizard(a.mainWindow)
	a.steps = NewStepBuilder(a.mainWindow, a.wizard)

	a.wizard.SetStepContent(StepInput, a.steps.BuildStep1())
	a.wizard.SetStepContent(StepSettings, a.steps.BuildStep2())
	a.wizard.SetStepContent(StepProcess, a.steps.BuildStep3())

	a.wizard.SetCanProceed(func(step WizardStep) bool {
		switch step {
		case StepInput:
			return a.steps.ValidateStep1()
		case StepSettings:
			return a.steps.ValidateStep2()
		case StepProcess:
			// On the process step, "Done" closes the app
			if !a.steps.IsProcessing() {
				a.mainWindow.Close()
			}
			return false
		}
		return true
	})

	a.wizard.SetOnStepChange(func(step WizardStep) {
		if step == StepProcess {
			a.steps.RunProcess()
		}
	})

	a.mainWindow.SetContent(a.wizard.Build())

	// Confirm before closing mid-run
	a.mainWindow.SetCloseIntercept(func() {
		if a.steps.IsProcessing() {
			dialog.ShowConfirm("Confirm Exit",
				"Processing is in progress. Are you sure you want to exit?",
				func(confirm bool) {
					if confirm {
						a.mainWindow.Close()
					}
				}, a.mainWindow)
		} else {
			a.mainWindow.Close()
		}
	})

	a.mainWindow.ShowAndRun()
}
