// Package tui implements the interactive catalog picker used to multi-select
// products into a draft shipment.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/packsmith/packsmith/internal/engine"
	"github.com/packsmith/packsmith/internal/model"
)

const defaultPageSize = 15

// Picker is the bubbletea model for the catalog multi-select.
type Picker struct {
	filter     textinput.Model
	quantities map[int]int
	variants   []model.Variant
	filtered   []int
	keymap     KeyMap
	cursor     int
	offset     int
	height     int
	width      int
	filtering  bool
	confirmed  bool
	canceled   bool
}

// NewPicker creates a picker over a catalog snapshot.
func NewPicker(variants []model.Variant) Picker {
	filter := textinput.New()
	filter.Placeholder = "filter by sku, barcode or title"
	filter.CharLimit = 64

	p := Picker{
		filter:     filter,
		quantities: make(map[int]int),
		variants:   variants,
		keymap:     DefaultKeyMap(),
		height:     defaultPageSize,
	}
	p.applyFilter()
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		// Leave room for the header, filter line and footer.
		p.height = max(msg.Height-6, 3)
		p.clampCursor()
		return p, nil

	case tea.KeyMsg:
		if p.filtering {
			return p.updateFiltering(msg)
		}
		return p.updateBrowsing(msg)
	}

	return p, nil
}

func (p Picker) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		p.filtering = false
		p.filter.Blur()
		return p, nil
	default:
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.applyFilter()
		return p, cmd
	}
}

func (p Picker) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := p.keymap

	switch {
	case key.Matches(msg, km.Cancel):
		p.canceled = true
		return p, tea.Quit

	case key.Matches(msg, km.Confirm):
		p.confirmed = true
		return p, tea.Quit

	case key.Matches(msg, km.Filter):
		p.filtering = true
		p.filter.Focus()
		return p, textinput.Blink

	case key.Matches(msg, km.Up):
		p.moveCursor(-1)

	case key.Matches(msg, km.Down):
		p.moveCursor(1)

	case key.Matches(msg, km.PageUp):
		p.moveCursor(-p.height)

	case key.Matches(msg, km.PageDown):
		p.moveCursor(p.height)

	case key.Matches(msg, km.Toggle):
		p.toggleCurrent()

	case key.Matches(msg, km.Increase):
		p.adjustCurrent(1)

	case key.Matches(msg, km.Decrease):
		p.adjustCurrent(-1)

	default:
		// A digit sets the quantity of the current row directly.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx, ok := p.current(); ok {
				p.quantities[idx] = int(s[0] - '0')
			}
		}
	}

	return p, nil
}

// toggleCurrent flips selection of the row under the cursor.
func (p *Picker) toggleCurrent() {
	idx, ok := p.current()
	if !ok {
		return
	}
	if _, selected := p.quantities[idx]; selected {
		delete(p.quantities, idx)
	} else {
		p.quantities[idx] = 1
	}
}

// adjustCurrent changes the quantity of the row under the cursor. Dropping
// below one deselects the row.
func (p *Picker) adjustCurrent(delta int) {
	idx, ok := p.current()
	if !ok {
		return
	}
	qty := p.quantities[idx] + delta
	if qty <= 0 {
		delete(p.quantities, idx)
		return
	}
	p.quantities[idx] = qty
}

func (p *Picker) current() (int, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return 0, false
	}
	return p.filtered[p.cursor], true
}

func (p *Picker) moveCursor(delta int) {
	p.cursor += delta
	p.clampCursor()
}

func (p *Picker) clampCursor() {
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}
}

// applyFilter recomputes the visible rows from the filter text. Selections
// on rows that fall out of view are kept.
func (p *Picker) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(p.filter.Value()))

	p.filtered = p.filtered[:0]
	for i, v := range p.variants {
		if needle == "" || variantMatches(v, needle) {
			p.filtered = append(p.filtered, i)
		}
	}
	p.offset = 0
	p.clampCursor()
}

func variantMatches(v model.Variant, needle string) bool {
	for _, field := range []string{v.SKU, v.Barcode, v.AlternateCode, v.Title} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Canceled reports whether the user abandoned the picker.
func (p Picker) Canceled() bool {
	return p.canceled
}

// Selections returns the chosen variants with their quantities, in catalog
// order. A canceled picker returns nil.
func (p Picker) Selections() []engine.Selection {
	if p.canceled {
		return nil
	}

	selections := make([]engine.Selection, 0, len(p.quantities))
	for i, v := range p.variants {
		if qty, ok := p.quantities[i]; ok {
			selections = append(selections, engine.Selection{Variant: v, Quantity: qty})
		}
	}
	return selections
}

