package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/zalando/go-keyring"
)

// settingsForm holds the inputs of the settings window.
type settingsForm struct {
	app *GrowthApp

	// Growth backend
	apiURL  *widget.Entry
	account *widget.Entry
	token   *widget.Entry

	// Children directory
	mode     *widget.Select
	davURL   *widget.Entry
	davUser  *widget.Entry
	davPass  *widget.Entry
	filePath *widget.Entry

	// General
	language *widget.Select
	interval *NumericalEntry
	port     *NumericalEntry

	// Check-up reminders
	remEnabled *widget.Check
	remValue   *NumericalEntry
	remUnit    *widget.Select
	remDir     *widget.Select
}

// ShowSettingsWindow opens the preferences window, or focuses it when open.
func (app *GrowthApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	var content *fyne.Container
	relayout := func() {
		if content == nil {
			return
		}
		content.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	}

	f := app.newSettingsForm()

	save := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := f.port.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		f.save()
		w.Close()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), w.Close)

	footer := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	content = container.NewPadded(container.NewVBox(
		f.backendCard(),
		f.sourceCard(w, relayout),
		f.generalCard(),
		f.reminderCard(relayout),
		container.NewGridWithColumns(config.LayoutColumnsDouble, cancel, save),
		footer,
	))

	w.SetContent(content)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })
	relayout()
	w.Show()
}

// newSettingsForm creates every input and loads it from preferences and the
// keyring.
func (app *GrowthApp) newSettingsForm() *settingsForm {
	p := app.Preferences
	f := &settingsForm{app: app}

	f.apiURL = widget.NewEntry()
	f.apiURL.SetText(p.String(config.PrefAPIURL))
	f.apiURL.PlaceHolder = config.PlaceholderURL
	f.account = widget.NewEntry()
	f.account.SetText(p.String(config.PrefAccountID))
	f.token = widget.NewPasswordEntry()
	if token, err := keyring.Get(config.KeyringService, config.KeyringTokenUser); err == nil {
		f.token.SetText(token)
	}

	f.mode = widget.NewSelect([]string{app.GetMsg(config.TKeyModeCardDAV), app.GetMsg(config.TKeyModeLocal)}, nil)
	f.davURL = widget.NewEntry()
	f.davURL.SetText(p.String(config.PrefCardDAVURL))
	f.davURL.PlaceHolder = config.PlaceholderURL
	f.davUser = widget.NewEntry()
	f.davUser.SetText(p.String(config.PrefUsername))
	f.davPass = widget.NewPasswordEntry()
	if user := f.davUser.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			f.davPass.SetText(pwd)
		}
	}
	f.filePath = widget.NewEntry()
	f.filePath.SetText(p.String(config.PrefLocalPath))

	f.language = widget.NewSelect(app.SupportedLanguages, nil)
	f.language.SetSelected(p.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))
	f.interval = NewNumericalEntry()
	f.interval.SetText(strconv.Itoa(p.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))
	f.port = NewNumericalEntry()
	f.port.SetText(p.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	f.port.Validator = app.validatePort

	f.remEnabled = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil)
	f.remEnabled.Checked = p.Bool(config.PrefReminderEnabled)
	f.remValue = NewNumericalEntry()
	f.remValue.SetText(strconv.Itoa(p.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))
	f.remUnit = widget.NewSelect(app.reminderUnitLabels(), nil)
	f.remUnit.SetSelected(app.reminderUnitLabel(p.StringWithFallback(config.PrefReminderUnit, config.UnitDays)))
	f.remDir = widget.NewSelect([]string{app.GetMsg(config.TKeyDirBefore), app.GetMsg(config.TKeyDirAfter)}, nil)
	if p.StringWithFallback(config.PrefReminderDir, config.DirBefore) == config.DirAfter {
		f.remDir.SetSelected(app.GetMsg(config.TKeyDirAfter))
	} else {
		f.remDir.SetSelected(app.GetMsg(config.TKeyDirBefore))
	}

	return f
}

// validatePort accepts a TCP port in [MinPort, MaxPort].
func (app *GrowthApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

func (app *GrowthApp) reminderUnitLabels() []string {
	return []string{
		app.GetMsg(config.TKeyUnitDays),
		app.GetMsg(config.TKeyUnitHours),
		app.GetMsg(config.TKeyUnitMinutes),
	}
}

// reminderUnitLabel maps a stored unit code to its label.
func (app *GrowthApp) reminderUnitLabel(code string) string {
	switch code {
	case config.UnitHours:
		return app.GetMsg(config.TKeyUnitHours)
	case config.UnitMinutes:
		return app.GetMsg(config.TKeyUnitMinutes)
	}
	return app.GetMsg(config.TKeyUnitDays)
}

// reminderUnitCode maps a label back to its unit code. Unknown labels mean days.
func (app *GrowthApp) reminderUnitCode(label string) string {
	switch label {
	case app.GetMsg(config.TKeyUnitHours):
		return config.UnitHours
	case app.GetMsg(config.TKeyUnitMinutes):
		return config.UnitMinutes
	}
	return config.UnitDays
}

func (f *settingsForm) backendCard() *widget.Card {
	app := f.app
	url := widget.NewFormItem(app.GetMsg(config.TKeyLblAPIURL), f.apiURL)
	url.HintText = app.GetMsg(config.TKeyHelpAPIURL)

	form := widget.NewForm(
		url,
		widget.NewFormItem(app.GetMsg(config.TKeyLblAccount), f.account),
		widget.NewFormItem(app.GetMsg(config.TKeyLblToken), f.token),
	)
	return widget.NewCard(app.GetMsg(config.TKeyLblBackend), "", form)
}

func (f *settingsForm) sourceCard(w fyne.Window, relayout func()) *widget.Card {
	app := f.app

	browse := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				f.filePath.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	url := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), f.davURL)
	url.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(
		url,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), f.davUser),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), f.davPass),
	)
	localForm := container.NewBorder(nil, nil, nil, browse, f.filePath)

	showMode := func(label string) {
		if label == app.GetMsg(config.TKeyModeLocal) {
			webForm.Hide()
			localForm.Show()
		} else {
			webForm.Show()
			localForm.Hide()
		}
	}

	if app.Preferences.String(config.PrefSourceMode) == config.SourceModeLocal {
		f.mode.SetSelected(app.GetMsg(config.TKeyModeLocal))
	} else {
		f.mode.SetSelected(app.GetMsg(config.TKeyModeCardDAV))
	}
	showMode(f.mode.Selected)
	f.mode.OnChanged = func(label string) {
		showMode(label)
		relayout()
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(f.mode, webForm, localForm))
}

func (f *settingsForm) generalCard() *widget.Card {
	app := f.app

	lang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), f.language)
	lang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	minutes := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), f.interval)
	interval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), minutes)
	interval.HintText = app.GetMsg(config.TKeyHelpInterval)

	port := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), f.port)
	port.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(lang, interval, port))
}

func (f *settingsForm) reminderCard(relayout func()) *widget.Card {
	app := f.app

	controls := container.NewHBox(f.remUnit, f.remDir, widget.NewLabel(app.GetMsg(config.TKeyLblStartDay)))
	row := container.NewBorder(nil, nil, nil, controls, f.remValue)
	if !f.remEnabled.Checked {
		row.Hide()
	}

	f.remEnabled.OnChanged = func(on bool) {
		if on {
			row.Show()
		} else {
			row.Hide()
		}
		relayout()
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(f.remEnabled, row))
}

// save persists the form, then rebuilds the engine and resyncs.
func (f *settingsForm) save() {
	app := f.app
	p := app.Preferences

	p.SetString(config.PrefAPIURL, strings.TrimRight(strings.TrimSpace(f.apiURL.Text), "/"))
	p.SetString(config.PrefAccountID, strings.TrimSpace(f.account.Text))
	if f.token.Text != "" {
		saveSecret(config.KeyringTokenUser, f.token.Text)
	}

	mode := config.SourceModeWeb
	if f.mode.Selected == app.GetMsg(config.TKeyModeLocal) {
		mode = config.SourceModeLocal
	}
	p.SetString(config.PrefSourceMode, mode)
	p.SetString(config.PrefCardDAVURL, f.davURL.Text)
	p.SetString(config.PrefUsername, f.davUser.Text)
	p.SetString(config.PrefLocalPath, f.filePath.Text)
	if f.davUser.Text != "" && f.davPass.Text != "" {
		saveSecret(f.davUser.Text, f.davPass.Text)
	}

	p.SetString(config.PrefLanguage, f.language.Selected)

	// Empty or zero turns auto-refresh off.
	if i, err := strconv.Atoi(f.interval.Text); err != nil || i == 0 {
		p.SetInt(config.PrefInterval, config.DisabledInterval)
		slog.Info(config.MsgIntervalOff, config.LogKeyComponent, config.CompUISet)
	} else {
		p.SetInt(config.PrefInterval, i)
	}
	if f.port.Text != "" {
		p.SetString(config.PrefServerPort, f.port.Text)
	}

	// An empty value overrides the checkbox.
	if v, err := strconv.Atoi(f.remValue.Text); err != nil {
		p.SetBool(config.PrefReminderEnabled, false)
		slog.Info(config.MsgReminderOff, config.LogKeyComponent, config.CompUISet)
	} else {
		p.SetBool(config.PrefReminderEnabled, f.remEnabled.Checked)
		p.SetInt(config.PrefReminderValue, v)
	}
	p.SetString(config.PrefReminderUnit, app.reminderUnitCode(f.remUnit.Selected))
	dir := config.DirBefore
	if f.remDir.Selected == app.GetMsg(config.TKeyDirAfter) {
		dir = config.DirAfter
	}
	p.SetString(config.PrefReminderDir, dir)

	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompUISet)

	app.resetEngine()
	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	go app.performSync(true)
}

func saveSecret(user, secret string) {
	if err := keyring.Set(config.KeyringService, user, secret); err != nil {
		slog.Error(config.ErrKeyringSave,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyUser, user,
			config.LogKeyError, err)
	}
}
