package viz

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

const (
	canvasWidth  = 60
	canvasHeight = 22
	trailLength  = 80
	energyWindow = 240
	maxSpeed     = 16
	frameRate    = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// ErrEmptyTrajectory is returned by RunReplay when there is nothing to play.
var ErrEmptyTrajectory = errors.New("viz: trajectory has no samples")

type TickMsg time.Time

type point struct{ x, y int }

// Replay animates a finished trajectory. Frames are sampled so that one
// second of simulated time plays in one second at speed 1.
type Replay struct {
	title     string
	frames    *dynamo.Trajectory
	energy    []float64
	peakTimes []float64
	period    float64

	frame    int
	speed    int
	running  bool
	showHelp bool
	theme    Theme

	canvas *Canvas
	trail  []point

	recording bool
	gifFrames []*image.Paletted
	GIFPath   string
	status    string
}

// NewReplay prepares traj for playback. Peaks are located on the full
// trajectory before it is thinned to display frames.
func NewReplay(title string, traj *dynamo.Trajectory, p *physics.Pendulum) Replay {
	maxFrames := int(traj.Duration()*frameRate) + 1
	frames := traj.Decimate(max(maxFrames, 2))

	return Replay{
		title:     title,
		frames:    frames,
		energy:    p.EnergySeries(frames.Angles, frames.Omegas),
		peakTimes: analysis.PeakTimes(traj.Times, traj.Angles),
		period:    analysis.EstimatePeriod(traj.Times, traj.Angles),
		speed:     1,
		running:   true,
		theme:     Themes[0],
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		trail:     make([]point, 0, trailLength),
		GIFPath:   "pendulum.gif",
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.finished() {
				m.restart()
			}
			m.running = !m.running
		case "r":
			m.restart()
		case "[":
			m.seek(-frameRate)
		case "]":
			m.seek(frameRate)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = nextTheme(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.draw()
		if m.recording {
			m.gifFrames = append(m.gifFrames, m.canvas.Image(8, 16))
		}
		return m, tick()
	}
	return m, nil
}

func (m *Replay) finished() bool { return m.frame >= m.frames.Len()-1 }

func (m *Replay) advance() {
	m.frame += m.speed
	if m.frame >= m.frames.Len()-1 {
		m.frame = max(m.frames.Len()-1, 0)
		m.running = false
	}
}

func (m *Replay) seek(delta int) {
	m.frame = max(min(m.frame+delta*m.speed, m.frames.Len()-1), 0)
	m.trail = m.trail[:0]
}

func (m *Replay) restart() {
	m.frame = 0
	m.trail = m.trail[:0]
}

func (m *Replay) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.gifFrames = m.gifFrames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	if err := saveGIF(m.GIFPath, m.gifFrames); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.gifFrames), m.GIFPath)
	}
	m.gifFrames = nil
}

// peaksBefore counts located peaks at or before t.
func (m *Replay) peaksBefore(t float64) int {
	return sort.Search(len(m.peakTimes), func(i int) bool { return m.peakTimes[i] > t })
}

func (m *Replay) draw() {
	m.canvas.Clear()
	if m.frames.Len() == 0 {
		return
	}
	x := m.frames.At(m.frame)

	cw, ch := m.canvas.Dots()
	cx, cy := cw/2, ch/2
	length := float64(min(cw/2, ch/2)) * 0.9

	bx := cx + int(math.Round(length*math.Sin(x.Theta)))
	by := cy + int(math.Round(length*math.Cos(x.Theta)))

	m.trail = append(m.trail, point{bx, by})
	if len(m.trail) > trailLength {
		m.trail = m.trail[1:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
	m.canvas.Disc(cx, cy, 1)
	m.canvas.DrawLine(cx, cy, bx, by)
	m.canvas.Disc(bx, by, 3)
}

func (m Replay) View() string {
	if m.frames.Len() == 0 {
		return headerStyle.Render(strings.ToUpper(m.title)) + "\nno samples to replay\n"
	}
	x := m.frames.At(m.frame)

	canvasView := canvasStyle.Foreground(m.theme.Primary).Render(m.canvas.String())

	status := StatusRunning.Render("PLAYING")
	switch {
	case m.finished():
		status = StatusPaused.Render("FINISHED")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("REC")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(m.theme.Accent).Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.speed))

	stat := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Foreground(m.theme.Text).Render(value) + "\n")
	}
	stat("time", fmt.Sprintf("%.3f s", x.T))
	stat("theta", fmt.Sprintf("%+.2f deg", x.Theta*180/math.Pi))
	stat("omega", fmt.Sprintf("%+.3f rad/s", x.Omega))
	stat("energy", fmt.Sprintf("%.5f J", m.energy[m.frame]))
	stat("peaks", fmt.Sprintf("%d / %d", m.peaksBefore(x.T), len(m.peakTimes)))
	stat("period", FormatPeriod(m.period))

	lo := max(0, m.frame-energyWindow)
	if m.frame-lo > 1 {
		s.WriteString("\n" + PlotSeries(m.energy[lo:m.frame+1], "energy", 30, 4) + "\n")
	}

	done := float64(m.frame) / float64(max(m.frames.Len()-1, 1))
	s.WriteString("\n" + ProgressBar(done, 30) + "\n")
	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}

	help := "SP:Pause R:Restart Q:Quit\n[ ]:Seek +/-:Speed T:Theme"
	if m.showHelp {
		help += "\nG:Record GIF ?:Hide help"
	}
	s.WriteString(helpStyle.Render(help))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunReplay runs the replay full-screen until the user quits.
func RunReplay(m Replay) error {
	if m.frames.Len() == 0 {
		return ErrEmptyTrajectory
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
