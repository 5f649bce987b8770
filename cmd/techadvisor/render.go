package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/techadvisor/techadvisor/pkg/core/types"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginTop(1)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	specLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	prosStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	consStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)
)

const (
	specPlaceholder  = "—"
	priceUnknownText = "Consulte a loja"
	maxChartBarWidth = 30
	maxShownLinks    = 3
)

// renderMessage formats a model reply and its recommendation data for
// the terminal.
func renderMessage(msg types.ChatMessage) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(msg.Text)
	b.WriteString("\n")

	md := msg.Metadata
	if md.IsEmpty() {
		return b.String()
	}

	for _, nb := range md.Notebooks {
		b.WriteString(renderNotebook(nb))
		b.WriteString("\n")
	}
	if len(md.ChartData) > 0 {
		b.WriteString(renderChart(md.ChartData))
	}
	if len(md.MapLocations) > 0 {
		b.WriteString(renderStores(md.MapLocations))
	}
	if links := md.TopGroundingLinks(maxShownLinks); len(links) > 0 {
		b.WriteString(renderLinks(links))
	}
	return b.String()
}

func renderNotebook(nb types.Notebook) string {
	var b strings.Builder

	b.WriteString(cardTitleStyle.Render(nb.Name))
	b.WriteString("\n")
	b.WriteString(priceStyle.Render(formatPrice(nb.Price)))
	if nb.Store != "" {
		b.WriteString(hintStyle.Render("  " + nb.Store))
	}
	b.WriteString("\n")

	specs := [][2]string{
		{"CPU", nb.Specs.CPU},
		{"RAM", nb.Specs.RAM},
		{"GPU", nb.Specs.GPU},
		{"Armazenamento", nb.Specs.Storage},
		{"Tela", nb.Specs.Screen},
	}
	for _, s := range specs {
		b.WriteString(fmt.Sprintf("%s %s\n", specLabelStyle.Render(s[0]+":"), orPlaceholder(s[1])))
	}

	for _, p := range nb.Pros {
		b.WriteString(prosStyle.Render("+ "+p) + "\n")
	}
	for _, c := range nb.Cons {
		b.WriteString(consStyle.Render("- "+c) + "\n")
	}
	if nb.EstimatedShipping != "" {
		b.WriteString(hintStyle.Render("Entrega: "+nb.EstimatedShipping) + "\n")
	}
	if nb.URL != "" {
		b.WriteString(linkStyle.Render(nb.URL) + "\n")
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderChart draws a horizontal bar per price point, scaled against the
// most expensive entry. Entries keep their incoming order.
func renderChart(points []types.PricePoint) string {
	max := 0.0
	for _, p := range points {
		if p.Price > max {
			max = p.Price
		}
	}

	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("Comparativo de preços") + "\n")
	for _, p := range points {
		width := 1
		if max > 0 && p.Price > 0 {
			width = int(p.Price / max * maxChartBarWidth)
			if width < 1 {
				width = 1
			}
		}
		b.WriteString(fmt.Sprintf("%-28s %s %s\n",
			truncate(p.Name, 28),
			barStyle.Render(strings.Repeat("█", width)),
			formatPrice(p.Price)))
	}
	return b.String()
}

func renderStores(stores []types.StoreLocation) string {
	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("Lojas próximas") + "\n")
	for _, s := range stores {
		b.WriteString(cardTitleStyle.Render(s.Name) + "\n")
		b.WriteString("  " + s.Address)
		if s.Distance != "" {
			b.WriteString(hintStyle.Render("  (" + s.Distance + ")"))
		}
		b.WriteString("\n")
		if s.URL != "" {
			b.WriteString("  " + linkStyle.Render(s.URL) + "\n")
		}
	}
	return b.String()
}

func renderLinks(links []types.GroundingLink) string {
	var b strings.Builder
	b.WriteString("\n" + hintStyle.Render("Fontes:") + "\n")
	for _, l := range links {
		title := l.Title
		if title == "" {
			title = l.URL
		}
		b.WriteString("  " + title + " " + linkStyle.Render(l.URL) + "\n")
	}
	return b.String()
}

func formatPrice(v float64) string {
	if v <= 0 {
		return priceUnknownText
	}
	return fmt.Sprintf("R$ %.2f", v)
}

func orPlaceholder(s string) string {
	if s == "" {
		return specPlaceholder
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
