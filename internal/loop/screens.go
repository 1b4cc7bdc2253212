package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
)

// styles holds the lipgloss styles of one client. Styles are bound to the
// client's renderer so colour support follows its terminal.
type styles struct {
	title   lipgloss.Style
	text    lipgloss.Style
	dim     lipgloss.Style
	prompt  lipgloss.Style
	good    lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	locked  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FC3F7")),
		text:    r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#888888")),
		prompt:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEB3B")),
		good:    r.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FF9800")),
		danger:  r.NewStyle().Foreground(lipgloss.Color("#F44336")),
		locked:  r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#888888")),
	}
}

// healthStyle picks the health colour: green above 50, orange above 25, red otherwise.
func (st styles) healthStyle(health int) lipgloss.Style {
	switch {
	case health > config.HealthGood:
		return st.good
	case health > config.HealthWarning:
		return st.warning
	default:
		return st.danger
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On overlay transitions, do a full terminal clear
	// so UI elements from the previous view don't persist on screen.
	view := viewKey{phase: c.session.Phase(), inactive: c.isInactive, shutdown: c.shutdown}
	if view != c.prevView {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.prevView = view
	}

	c.canvas.Clear()

	snap := c.session.Snapshot()
	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
	}

	object.DrawStarfield(ctx, snap.Store.Screen, snap.Elapsed)
	if snap.Phase != PhaseMenu {
		if err := snap.Store.Draw(ctx); err != nil {
			return err
		}
		if err := snap.Effects.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawUI draws the overlay for the current phase.
func (c *Client) drawUI(snap Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch snap.Phase {
	case PhaseMenu:
		c.drawMenuScreen(centerX, centerY)
	case PhasePlaying:
		c.drawPlayingHUD(termWidth, snap)
	case PhasePaused:
		c.drawPlayingHUD(termWidth, snap)
		c.drawPausedScreen(centerX, centerY)
	case PhaseLevelComplete:
		c.drawLevelCompleteScreen(centerX, centerY, snap)
	case PhaseGameOver:
		c.drawGameOverScreen(centerX, centerY, snap)
	}
}

// writeText writes styled text at a 1-based canvas position and marks the
// cells dirty so the canvas repaints them once the text is gone.
func (c *Client) writeText(col, row int, style lipgloss.Style, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	width := lipgloss.Width(s)
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteAt(col, row, style.Render(s))
	c.canvas.MarkTextDirty(col, row, width)
}

// writeCentered writes styled text centered on centerX.
func (c *Client) writeCentered(centerX, row int, style lipgloss.Style, s string) {
	c.writeText(centerX-lipgloss.Width(s)/2, row, style, s)
}

// drawMenuScreen draws the title screen.
func (c *Client) drawMenuScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ _  ____   _____ _   _    _    `,
		` / __| |/ /\ \ / / __/_\ | |  | |   `,
		` \__ \ ' <  \ V /| _/ _ \| |__| |__ `,
		` |___/_|\_\  |_| |_/_/ \_\____|____|`,
	}

	titleStartY := centerY - 8
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, c.styles.title, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, c.styles.dim, "~ Shoot them down before they land ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, c.styles.text, "Controls")
	controlLines := []string{
		"A D / < >  . . . . Move",
		"SPACE  . . . . . . Shoot",
		"P  . . . . . . . . Pause",
		"R  . . . .  Restart level",
		"M / ESC  . . . . . . Menu",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, c.styles.dim, line)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, controlsY+len(controlLines)+2, c.styles.prompt, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (the terminal is not cleared every frame).
func (c *Client) drawPlayingHUD(termWidth int, snap Snapshot) {
	st := c.styles
	c.writeText(2, 1, st.text, fmt.Sprintf("Level: %-4d", snap.Level))
	c.writeText(2, 2, st.text, fmt.Sprintf("Score: %-8d", snap.Score))
	c.writeText(2, 3, st.text, fmt.Sprintf("Enemies: %-9s", fmt.Sprintf("%d/%d", snap.Destroyed, snap.Required)))

	bar := healthBar(snap.Health, 20)
	healthText := fmt.Sprintf("HP: %-4d", snap.Health)
	col := termWidth - lipgloss.Width(bar) - lipgloss.Width(healthText) - 2
	c.writeText(col, 1, st.text, healthText)
	c.writeText(col+lipgloss.Width(healthText)+1, 1, st.healthStyle(snap.Health), bar)
}

// healthBar renders health in [0, 100] as a bar of width cells.
func healthBar(health, width int) string {
	filled := (max(min(health, 100), 0)*width + 99) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// drawPausedScreen draws the pause overlay.
func (c *Client) drawPausedScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-1, c.styles.title, "P A U S E D")
	c.writeCentered(centerX, centerY+1, c.styles.prompt, "P to resume")
	c.writeCentered(centerX, centerY+2, c.styles.dim, "R to restart level  -  M for menu")
}

// drawLevelCompleteScreen draws the upgrade choice between levels.
func (c *Client) drawLevelCompleteScreen(centerX, centerY int, snap Snapshot) {
	st := c.styles
	top := centerY - 6
	c.writeCentered(centerX, top, st.title, fmt.Sprintf("LEVEL %d COMPLETE", snap.Level))
	c.writeCentered(centerX, top+2, st.text, fmt.Sprintf("Score: %d", snap.Score))
	c.writeCentered(centerX, top+4, st.text, "Choose an upgrade")

	for i, line := range upgradeLines(snap.Upgrades) {
		style := st.text
		if !upgradeSelectable(snap.Upgrades, object.UpgradeKinds[i]) {
			style = st.locked
		}
		c.writeCentered(centerX, top+6+i, style, line)
	}
}

// upgradeLines returns one menu line per upgrade in key order.
func upgradeLines(u object.Upgrades) []string {
	names := map[object.UpgradeKind]string{
		object.UpgradeDamage:      "Damage",
		object.UpgradeFireRate:    "Fire rate",
		object.UpgradeBulletSpeed: "Bullet speed",
		object.UpgradeMultiShot:   "Multi-shot",
	}
	lines := make([]string, len(object.UpgradeKinds))
	for i, k := range object.UpgradeKinds {
		lines[i] = fmt.Sprintf("[%d] %-13s %-10s", i+1, names[k], u.Describe(k))
	}
	return lines
}

// drawGameOverScreen draws the game over screen.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, c.styles.danger, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, c.styles.text, fmt.Sprintf("Final Score: %d", snap.Score))
	c.writeCentered(centerX, titleStartY+len(titleArt)+2, c.styles.text, fmt.Sprintf("Reached Level: %d", snap.Level))

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, titleStartY+len(titleArt)+4, c.styles.prompt, ">>  Press ENTER to Restart  <<")
	}
	c.writeCentered(centerX, titleStartY+len(titleArt)+5, c.styles.dim, "M for menu  -  Q to quit")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, c.styles.warning, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, c.styles.text, msg)
	c.writeCentered(centerX, centerY+2, c.styles.dim, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, c.styles.danger, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, c.styles.text, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, c.styles.text, "Please reconnect in a moment.")

	remaining := int(c.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, c.styles.text, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, c.styles.dim, "Press Q to disconnect now")
}
