package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Akaiko1/rapid-culler/internal/action"
	"github.com/Akaiko1/rapid-culler/internal/config"
	"github.com/Akaiko1/rapid-culler/internal/session"
)

// handleOpenSettings shows the settings dialog, warning first when a
// session is in progress since changes only apply to the next one.
func (a *CullerApp) handleOpenSettings() {
	if a.controller.State() == session.Browsing {
		dialog.ShowConfirm("Culling In Progress",
			"Culling is currently in progress.\nSettings changes will apply to the next session.\n\nOpen settings anyway?",
			func(proceed bool) {
				if proceed {
					a.showSettingsDialog()
				}
			}, a.window)
		return
	}
	a.showSettingsDialog()
}

// mappingSelects holds the dialog widgets keyed by settings path.
type mappingSelects map[string]*widget.Select

func (a *CullerApp) showSettingsDialog() {
	options := make([]string, 0, len(action.Names()))
	for _, name := range action.Names() {
		options = append(options, capitalize(name))
	}

	selects := mappingSelects{}
	newMappingSelect := func(path, def string) *widget.Select {
		sel := widget.NewSelect(options, nil)
		sel.SetSelected(capitalize(a.store.GetString(path, def)))
		selects[path] = sel
		return sel
	}

	leftSelect := newMappingSelect("button_mappings.left_click", "keep")
	rightSelect := newMappingSelect("button_mappings.right_click", "reject")
	wheelUpSelect := newMappingSelect("wheel_mappings.wheel_up", "previous")
	wheelDownSelect := newMappingSelect("wheel_mappings.wheel_down", "next")

	recursiveCheck := widget.NewCheck("Load images from subdirectories recursively", nil)
	recursiveCheck.SetChecked(a.store.GetBool("options.recursive_loading", false))

	resetBtn := widget.NewButton("Reset Defaults", func() {
		defaults := config.Defaults()
		for path, sel := range selects {
			keys := strings.SplitN(path, ".", 2)
			section := defaults[keys[0]].(map[string]any)
			sel.SetSelected(capitalize(section[keys[1]].(string)))
		}
		recursiveCheck.SetChecked(false)
	})

	form := widget.NewForm(
		widget.NewFormItem("Left Click", leftSelect),
		widget.NewFormItem("Right Click", rightSelect),
		widget.NewFormItem("Wheel Up", wheelUpSelect),
		widget.NewFormItem("Wheel Down", wheelDownSelect),
	)

	content := container.NewVBox(
		widget.NewLabelWithStyle("Button Mappings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Loading Options", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		recursiveCheck,
		widget.NewSeparator(),
		resetBtn,
	)

	settingsDialog := dialog.NewCustomConfirm("Settings", "Save", "Cancel", content, func(save bool) {
		if !save {
			return
		}

		doc := config.Clone(a.store.Document())
		for path, sel := range selects {
			config.SetPath(doc, path, strings.ToLower(sel.Selected))
		}
		config.SetPath(doc, "options.recursive_loading", recursiveCheck.Checked)

		if ok, reason := config.Validate(doc); !ok {
			dialog.ShowError(errInvalidSettings(reason), a.window)
			return
		}

		if warning := config.Warning(doc); warning != "" {
			dialog.ShowConfirm("Configuration Warning", warning+"\n\nProceed anyway?", func(proceed bool) {
				if proceed {
					a.saveAndApply(doc)
				}
			}, a.window)
			return
		}

		a.saveAndApply(doc)
	}, a.window)

	settingsDialog.Resize(fyne.NewSize(420, 0))
	settingsDialog.Show()
}

// saveAndApply persists the document and applies it in one step.
func (a *CullerApp) saveAndApply(doc map[string]any) {
	if err := a.store.Save(doc); err != nil {
		a.showError("Save Failed", err)
		return
	}
	a.applyConfig()
}

type errInvalidSettings string

func (e errInvalidSettings) Error() string {
	return string(e)
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
