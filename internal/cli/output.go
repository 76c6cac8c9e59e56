package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for chat output.
type Theme struct {
	Robot  lipgloss.Color
	Device lipgloss.Color
	Error  lipgloss.Color
	Hint   lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Robot:  lipgloss.Color("#5FAFD7"), // light blue
	Device: lipgloss.Color("#00D787"), // green
	Error:  lipgloss.Color("#FF005F"), // red
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) robotStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Robot).Bold(true)
}

func (t Theme) deviceStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Device)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// terminalPublisher prints device messages instead of publishing them, so a
// chat session shows what the robot would have received.
type terminalPublisher struct{}

func (p *terminalPublisher) Publish(_ context.Context, topic string, message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	fmt.Println(defaultTheme.deviceStyle().Render(fmt.Sprintf("[%s] %s", topic, payload)))
	return nil
}
