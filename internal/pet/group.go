package pet

// Group owns a pet's reward icons. At most one batch is live at a time.
type Group struct {
	icons []*RewardIcon
	// draining holds discarded icons whose loads have not landed yet, so
	// their handles can be removed on arrival.
	draining []*RewardIcon
}

// Replace discards the current batch and adopts a new one.
func (g *Group) Replace(batch []*RewardIcon) {
	for _, ic := range g.icons {
		ic.retire()
		if ic.pending() {
			g.draining = append(g.draining, ic)
		}
	}
	g.icons = batch
}

// Tick advances every live icon in insertion order and drops the ones that
// finished.
func (g *Group) Tick() {
	live := g.icons[:0]
	for _, ic := range g.icons {
		ic.Tick()
		if !ic.Retired() {
			live = append(live, ic)
		}
	}
	for i := len(live); i < len(g.icons); i++ {
		g.icons[i] = nil
	}
	g.icons = live

	if len(g.draining) == 0 {
		return
	}
	waiting := g.draining[:0]
	for _, ic := range g.draining {
		ic.ready()
		if ic.pending() {
			waiting = append(waiting, ic)
		}
	}
	g.draining = waiting
}

// Close retires every icon, including ones still loading. Nothing needs to
// tick the group afterwards.
func (g *Group) Close() {
	g.Replace(nil)
	for _, ic := range g.draining {
		ic.abandon()
	}
	g.draining = nil
}

func (g *Group) Len() int {
	return len(g.icons)
}

// Icons returns a copy of the live icons.
func (g *Group) Icons() []*RewardIcon {
	out := make([]*RewardIcon, len(g.icons))
	copy(out, g.icons)
	return out
}
