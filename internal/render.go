package internal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultRenderWidth = 80

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	botBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("243")).
			Padding(0, 1)

	diagnosticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// RenderHistory projects the whole history into a printable view, oldest
// first. It depends only on its arguments.
func RenderHistory(history History, width int) string {
	if width <= 0 {
		width = defaultRenderWidth
	}
	if len(history) == 0 {
		return placeholderStyle.Render("No messages yet. Say hello!")
	}

	blocks := make([]string, 0, len(history))
	for _, msg := range history {
		blocks = append(blocks, RenderMessage(msg, width))
	}
	return strings.Join(blocks, "\n")
}

// RenderMessage draws one entry as a bubble; user entries hug the right edge
func RenderMessage(msg Message, width int) string {
	if width <= 0 {
		width = defaultRenderWidth
	}
	// Bubbles take at most 80% of the line, like the web widget.
	inner := width*8/10 - 4
	if inner < 10 {
		inner = 10
	}

	text := wrapText(msg.Text, inner)
	if text == "" {
		text = placeholderStyle.Render("(empty message)")
	}

	switch msg.Sender {
	case SenderUser:
		block := lipgloss.JoinVertical(lipgloss.Right,
			userLabelStyle.Render("You"),
			userBubbleStyle.Render(text),
		)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	default:
		if strings.HasPrefix(msg.Text, ErrorPrefix) {
			text = diagnosticStyle.Render(text)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			botLabelStyle.Render("Assistant"),
			botBubbleStyle.Render(text),
		)
	}
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if lipgloss.Width(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if lipgloss.Width(currentLine)+lipgloss.Width(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}
