// Package term draws the pet in a terminal with tcell and maps keys to
// session actions.
package term

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sethgrid/tamagotchi/internal/art"
	"github.com/sethgrid/tamagotchi/internal/conditions"
	"github.com/sethgrid/tamagotchi/internal/render"
	"github.com/sethgrid/tamagotchi/internal/session"
)

var (
	petStyle     = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	heartStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	messageStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	helpText     = "f feed  b buy  t treat  q quit"
)

type sprite struct {
	id    int
	asset string
	x, y  float64
	z     float64
	yaw   float64
}

// Renderer is a render.Loader whose handles are drawn as ASCII sprites.
type Renderer struct {
	// ScaleX and ScaleY are terminal cells per world unit.
	ScaleX, ScaleY float64

	mu      sync.Mutex
	sprites map[int]*sprite
	nextID  int
}

func NewRenderer(scaleX, scaleY float64) *Renderer {
	return &Renderer{ScaleX: scaleX, ScaleY: scaleY, sprites: make(map[int]*sprite)}
}

func (r *Renderer) Load(ctx context.Context, name string) (render.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !art.Known(name) {
		return nil, fmt.Errorf("no sprite for asset %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.sprites[r.nextID] = &sprite{id: r.nextID, asset: name}
	return &handle{r: r, id: r.nextID}, nil
}

type handle struct {
	r  *Renderer
	id int
}

func (h *handle) SetPosition(x, y, z float64) {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if s, ok := h.r.sprites[h.id]; ok {
		s.x, s.y, s.z = x, y, z
	}
}

// RotateBy is tracked but not drawn; cells cannot rotate.
func (h *handle) RotateBy(angle float64) {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if s, ok := h.r.sprites[h.id]; ok {
		s.yaw += angle
	}
}

func (h *handle) Remove() {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	delete(h.r.sprites, h.id)
}

// Cell maps world coordinates to the top-left cell of a w×h sprite on a
// screen of the given size. World y grows upward.
func (r *Renderer) Cell(x, y float64, w, h, screenW, screenH int) (col, row int) {
	cx, cy := screenW/2, (screenH-2)/2
	col = cx + int(x*r.ScaleX) - w/2
	row = cy - int(y*r.ScaleY) - h/2
	return col, row
}

// Draw paints every sprite back to front and the status lines.
func (r *Renderer) Draw(screen tcell.Screen, st session.Status, conds []conditions.Condition) {
	screen.Clear()
	sw, sh := screen.Size()

	r.mu.Lock()
	list := make([]sprite, 0, len(r.sprites))
	for _, s := range r.sprites {
		list = append(list, *s)
	}
	r.mu.Unlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].z != list[j].z {
			return list[i].z < list[j].z
		}
		return list[i].id < list[j].id
	})

	for _, s := range list {
		img, ok := art.Lookup(s.asset, conds)
		if !ok {
			continue
		}
		style := petStyle
		if s.asset == render.AssetReward {
			style = heartStyle
		}
		w, h := img.Size()
		col, row := r.Cell(s.x, s.y, w, h, sw, sh)
		for i, line := range img {
			drawText(screen, col, row+i, sw, sh-2, line, style, false)
		}
	}

	if st.Message != "" {
		drawText(screen, 0, sh-2, sw, sh, st.Message, messageStyle, true)
	}
	drawText(screen, 0, sh-1, sw, sh, pad(statusLine(st), sw), statusStyle, true)
	screen.Show()
}

func statusLine(st session.Status) string {
	if !st.Synced {
		return fmt.Sprintf(" %s | syncing ledger... | %s", st.Phase, helpText)
	}
	return fmt.Sprintf(" %s | saturation %d%% | food %d | %s | %s", st.Phase, st.Saturation, st.Balance, st.Mood, helpText)
}

// drawText writes s from (col, row), clipped to maxW×maxH. Unless opaque,
// spaces are skipped so overlapping sprites do not blank each other.
func drawText(screen tcell.Screen, col, row, maxW, maxH int, s string, style tcell.Style, opaque bool) {
	if row < 0 || row >= maxH {
		return
	}
	for i, ch := range []rune(s) {
		x := col + i
		if x < 0 || x >= maxW {
			continue
		}
		if ch == ' ' && !opaque {
			continue
		}
		screen.SetContent(x, row, ch, nil, style)
	}
}

func pad(s string, w int) string {
	n := len([]rune(s))
	if n >= w {
		return s
	}
	buf := make([]rune, 0, w)
	buf = append(buf, []rune(s)...)
	for i := n; i < w; i++ {
		buf = append(buf, ' ')
	}
	return string(buf)
}

// Host is the part of a session the terminal drives.
type Host interface {
	Tick()
	Feed()
	Buy()
	Treat() bool
	Status() session.Status
	Conditions() []conditions.Condition
}

// Run ticks host at interval and redraws until ctx is done or the user
// quits. The screen must already be initialized; Run does not Fini it.
func Run(ctx context.Context, screen tcell.Screen, r *Renderer, host Host, interval time.Duration) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := handleKey(ev, host); quit {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			host.Tick()
			r.Draw(screen, host.Status(), host.Conditions())
		}
	}
}

func handleKey(ev *tcell.EventKey, host Host) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'f', 'F':
			host.Feed()
		case 'b', 'B':
			host.Buy()
		case 't', 'T':
			host.Treat()
		}
	}
	return false
}
