package ui

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
)

// sortChildren orders children in place by column col. Ties keep name order.
func sortChildren(children []engine.ChildProfile, col int, asc bool) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		var less, equal bool
		switch col {
		case config.ColIDName:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
			equal = strings.EqualFold(a.Name, b.Name)
		case config.ColIDGender:
			less = a.Gender < b.Gender
			equal = a.Gender == b.Gender
		case config.ColIDAge:
			// Youngest first.
			less = a.BirthDate.After(b.BirthDate)
			equal = a.BirthDate.Equal(b.BirthDate)
		default: // config.ColIDBirth
			less = a.BirthDate.Before(b.BirthDate)
			equal = a.BirthDate.Equal(b.BirthDate)
		}

		if equal {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if !asc {
			return !less
		}
		return less
	})
}

// formatChildAge renders the current age in days for infants and in years
// past the long horizon threshold.
func (app *GrowthApp) formatChildAge(c engine.ChildProfile, now time.Time) string {
	days := c.AgeInDays(now)
	unit := engine.AxisUnitFor(days)
	if unit == engine.UnitYears {
		return engine.FormatAge(days, unit) + " " + app.GetMsg(config.TKeyUnitYears)
	}
	return engine.FormatAge(days, unit) + " " + app.GetMsg(config.TKeyUnitDays)
}

// ShowChildrenWindow lists the children of the directory. Selecting a row
// opens its growth charts.
func (app *GrowthApp) ShowChildrenWindow() {
	if app.childrenWindow != nil {
		app.childrenWindow.RequestFocus()
		return
	}

	app.childrenWindow = app.App.NewWindow(app.GetMsg(config.TKeyWinChildren))
	app.childrenWindow.Resize(fyne.NewSize(config.ChildrenWinWidth, config.ChildrenWinHeight))

	displayChildren := app.snapshotChildren()
	now := app.Clock.Now()

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(displayChildren))

	currentSortCol := config.ColIDName
	sortAsc := true

	var refreshTable func()

	performSort := func() {
		sortChildren(displayChildren, currentSortCol, sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
	}
	performSort()

	dateFormat := app.GetMsg(config.TKeyFormatDate)
	if dateFormat == config.TKeyFormatDate {
		dateFormat = config.DateFormatDisplay
	}

	table := widget.NewTable(
		func() (int, int) {
			return len(displayChildren), config.ColCount
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(displayChildren) {
				return
			}
			c := displayChildren[id.Row]

			switch id.Col {
			case config.ColIDName:
				label.SetText(c.Name)
			case config.ColIDBirth:
				label.SetText(c.BirthDate.Format(dateFormat))
			case config.ColIDAge:
				label.SetText(app.formatChildAge(c, now))
			case config.ColIDGender:
				label.SetText(app.GenderText(c.Gender))
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		titles := map[int]string{
			config.ColIDName:   config.TKeyColName,
			config.ColIDBirth:  config.TKeyColBirth,
			config.ColIDAge:    config.TKeyColAge,
			config.ColIDGender: config.TKeyColGender,
		}
		text := app.GetMsg(titles[id.Col])

		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			refreshTable()
		}
	}

	table.OnSelected = func(id widget.TableCellID) {
		if id.Row < 0 || id.Row >= len(displayChildren) {
			return
		}
		child := displayChildren[id.Row]
		table.UnselectAll()
		app.ShowChartFor(child)
	}

	table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	table.SetColumnWidth(config.ColIDBirth, config.ColWidthBirth)
	table.SetColumnWidth(config.ColIDAge, config.ColWidthAge)
	table.SetColumnWidth(config.ColIDGender, config.ColWidthGender)

	refreshTable = func() {
		performSort()
		table.Refresh()
	}

	app.childrenWindow.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	app.childrenWindow.SetOnClosed(func() {
		app.childrenWindow = nil
	})

	app.childrenWindow.Show()
}
