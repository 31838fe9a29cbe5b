package tui

import (
	"fmt"
	"strings"

	"github.com/packsmith/packsmith/internal/cli"
)

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Catalog"))
	b.WriteString("\n")

	if p.filtering || p.filter.Value() != "" {
		b.WriteString(p.filter.View())
		b.WriteString("\n")
	}

	if len(p.filtered) == 0 {
		b.WriteString(cli.SubtleStyle.Render("no matching products"))
		b.WriteString("\n")
	}

	end := min(p.offset+p.height, len(p.filtered))
	for row := p.offset; row < end; row++ {
		b.WriteString(p.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.footer())
	return b.String()
}

func (p Picker) renderRow(row int) string {
	idx := p.filtered[row]
	v := p.variants[idx]

	cursor := "  "
	if row == p.cursor {
		cursor = cli.PromptStyle.Render("> ")
	}

	marker := "[ ]"
	qty := ""
	if n, ok := p.quantities[idx]; ok {
		marker = cli.SuccessStyle.Render("[" + cli.SuccessIcon + "]")
		qty = cli.BoldStyle.Render(fmt.Sprintf(" ×%d", n))
	}

	stock := cli.SubtleStyle.Render(fmt.Sprintf("(%d in stock)", v.Available))
	if v.Available == 0 {
		stock = cli.ErrorStyle.Render("(out of stock)")
	}

	label := v.SKU
	if label == "" {
		label = v.Barcode
	}

	line := fmt.Sprintf("%s%s %-20s %s %s%s", cursor, marker, label, v.Title, stock, qty)
	if row == p.cursor {
		return cli.BoldStyle.Render(line)
	}
	return line
}

func (p Picker) footer() string {
	selected := 0
	units := 0
	for _, n := range p.quantities {
		selected++
		units += n
	}

	status := fmt.Sprintf("%d selected, %d units", selected, units)
	help := "space select · +/- or 1-9 quantity · / filter · enter add · esc cancel"
	return cli.SubtleStyle.Render(status + "\n" + help)
}
