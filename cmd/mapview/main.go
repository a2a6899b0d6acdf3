// Command mapview draws the village plan from above: structures by
// category, the world boundary, the forest, the wandering villagers and
// the rays cast from a movable viewpoint.
package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"reflect"
	"syscall"

	"hamlet/internal/config"
	"hamlet/internal/geometry"
	"hamlet/internal/raycast"
	"hamlet/internal/world"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	padding      = 16
	rayCount     = 60
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config string `cli:"" env:"HAMLET_CONFIG" help:"The YAML configuration file."`
	Help   bool   `cli:"" env:"-"             help:"Show help."`
}

const (
	tabInfo = iota
	tabLegend
)

type viewer struct {
	ctx        context.Context
	village    *world.Village
	caster     *raycast.Caster
	extent     geometry.BoundingBox
	sidebarTab int
	paused     bool

	eyeX, eyeY float64
	heading    float64
	fov        float64
	hits       []raycast.Hit

	// hover is the structure under the cursor, or -1.
	hover int
}

func main() {
	opts := options{Config: "config.yaml"}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Shows the village plan from above.").
		Options(&opts)
	cli.Load()

	cfg := config.MustLoadConfig(opts.Config)
	logs.SetLevel(logs.ParseLevel(cfg.Debug.LogLevel))

	village, err := world.LoadVillage(cfg.World.MapFile, cfg.World.Seed, cfg.World.VillagerCount)
	if err != nil {
		logs.Fatal(errors.New("loading village failed").Wrap(err))
	}

	v := &viewer{
		ctx:     ctx,
		village: village,
		caster:  raycast.NewCaster(village.Model),
		extent:  planExtent(village),
		eyeX:    cfg.Camera.StartX,
		eyeY:    cfg.Camera.StartY,
		heading: cfg.GetStartHeading(),
		fov:     cfg.GetFOV(),
		hover:   -1,
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(cfg.Display.WindowTitle + " Map")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		logs.Fatal(errors.New("running map viewer failed").Wrap(err))
	}
}

// planExtent is the box holding the world, its structures and the forest.
func planExtent(v *world.Village) geometry.BoundingBox {
	size := v.Map.Size
	box := geometry.BoundingBox{MaxX: size, MaxY: size}
	grow := func(x, y float64) {
		box.MinX = math.Min(box.MinX, x)
		box.MaxX = math.Max(box.MaxX, x)
		box.MinY = math.Min(box.MinY, y)
		box.MaxY = math.Max(box.MaxY, y)
	}
	for _, s := range v.Model.Structures() {
		grow(s.Box.MinX, s.Box.MinY)
		grow(s.Box.MaxX, s.Box.MaxY)
	}
	for _, t := range v.Forest.Trees() {
		grow(t.X, t.Y)
	}
	return box
}

func (v *viewer) Update() error {
	select {
	case <-v.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if v.sidebarTab == tabInfo {
			v.sidebarTab = tabLegend
		} else {
			v.sidebarTab = tabInfo
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.paused = !v.paused
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		v.heading -= 0.04
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		v.heading += 0.04
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if wx, wy, ok := v.toWorld(x, y); ok {
			v.eyeX, v.eyeY = wx, wy
		}
	}

	v.hover = -1
	if wx, wy, ok := v.toWorld(ebiten.CursorPosition()); ok {
		v.hover = v.village.Model.StructureAt(wx, wy)
	}

	if !v.paused {
		v.village.Update()
	}
	return nil
}

// hoverLabel describes structure i of the model for the sidebar.
func hoverLabel(m *geometry.Model, i int) string {
	if i < 0 || i >= m.Len() {
		return "Cursor: open ground"
	}
	s := m.Structure(i)
	return fmt.Sprintf("Cursor: %s #%d (%.0f x %.0f, %.0f tall)",
		s.Category, i, s.Width, s.Depth, s.Profile.TotalHeight())
}

// outline returns the screen polyline around a footprint, closed back to
// its first corner.
func outline(box geometry.BoundingBox, at func(x, y float64) (float32, float32)) [5][2]float32 {
	var pts [5][2]float32
	corners := box.Corners()
	for i := range pts {
		c := corners[i%4]
		pts[i][0], pts[i][1] = at(c[0], c[1])
	}
	return pts
}

// panel is the screen rectangle the plan is fitted into.
type panel struct {
	x, y, w, h float64
	scale      float64
	ox, oy     float64
}

func (v *viewer) panel() panel {
	p := panel{
		x: padding,
		y: padding,
		w: windowWidth - sidebarWidth - padding*3,
		h: windowHeight - padding*2,
	}
	ew := v.extent.MaxX - v.extent.MinX
	eh := v.extent.MaxY - v.extent.MinY
	p.scale = math.Min(p.w/ew, p.h/eh)
	p.ox = p.x + (p.w-ew*p.scale)/2
	p.oy = p.y + (p.h-eh*p.scale)/2
	return p
}

func (p panel) toScreen(x, y float64) (float32, float32) {
	return float32(p.ox + x*p.scale), float32(p.oy + y*p.scale)
}

func (v *viewer) toWorld(sx, sy int) (float64, float64, bool) {
	p := v.panel()
	x := (float64(sx)-p.ox)/p.scale + v.extent.MinX
	y := (float64(sy)-p.oy)/p.scale + v.extent.MinY
	return x, y, x >= 0 && y >= 0 && x <= v.village.Map.Size && y <= v.village.Map.Size
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	p := v.panel()
	drawFilledRect(screen, p.x, p.y, p.w, p.h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, p.x, p.y, p.w, p.h, 2, color.RGBA{70, 70, 90, 255})

	// Plan coordinates are shifted so the extent starts at the panel origin.
	at := func(x, y float64) (float32, float32) {
		return p.toScreen(x-v.extent.MinX, y-v.extent.MinY)
	}

	wx, wy := at(0, 0)
	size := float32(v.village.Map.Size * p.scale)
	vector.DrawFilledRect(screen, wx, wy, size, size, color.RGBA{34, 70, 34, 255}, false)

	for _, t := range v.village.Forest.Trees() {
		cx, cy := at(t.X, t.Y)
		r := float32(world.TreeWidth * t.Scale / 2 * p.scale)
		vector.DrawFilledCircle(screen, cx, cy, max(r, 1), color.RGBA{20, 110, 40, 255}, true)
	}

	for _, s := range v.village.Model.Structures() {
		x0, y0 := at(s.Box.MinX, s.Box.MinY)
		x1, y1 := at(s.Box.MaxX, s.Box.MaxY)
		vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, s.Profile.WallColor, false)
	}

	for _, b := range v.village.Model.Boundaries() {
		x0, y0 := at(b.X1, b.Y1)
		x1, y1 := at(b.X2, b.Y2)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, geometry.Boundary.Profile().WallColor, true)
	}

	if v.hover >= 0 {
		pts := outline(v.village.Model.Structure(v.hover).Box, at)
		for i := 0; i < 4; i++ {
			vector.StrokeLine(screen, pts[i][0], pts[i][1], pts[i+1][0], pts[i+1][1], 2, color.White, true)
		}
	}

	v.drawRays(screen, at)

	for _, vl := range v.village.Crowd.Villagers() {
		cx, cy := at(vl.X, vl.Y)
		vector.DrawFilledCircle(screen, cx, cy, 3, color.RGBA{255, 220, 0, 255}, true)
	}

	ex, ey := at(v.eyeX, v.eyeY)
	vector.DrawFilledCircle(screen, ex, ey, 5, color.RGBA{50, 200, 255, 255}, true)
	vector.StrokeCircle(screen, ex, ey, 5, 1, color.White, true)

	ebitenutil.DebugPrintAt(screen, "Village plan", int(p.x)+12, int(p.y)+8)
	ebitenutil.DebugPrintAt(screen, "Click to move the eye, Left/Right to turn, P to pause, Esc to quit", int(p.x)+12, int(p.y)+24)

	v.drawSidebar(screen, windowWidth-sidebarWidth-padding, padding, sidebarWidth, windowHeight-padding*2)
}

// drawRays fans rays across the field of view and marks every wall each
// one crosses. The nearest hit ends the line.
func (v *viewer) drawRays(screen *ebiten.Image, at func(x, y float64) (float32, float32)) {
	ex, ey := at(v.eyeX, v.eyeY)
	for i := 0; i < rayCount; i++ {
		angle := v.heading - v.fov/2 + v.fov*float64(i)/float64(rayCount-1)
		v.hits = v.caster.Cast(v.eyeX, v.eyeY, angle, v.hits)
		if len(v.hits) == 0 {
			continue
		}
		first := v.hits[0]
		hx, hy := at(first.X, first.Y)
		vector.StrokeLine(screen, ex, ey, hx, hy, 1, color.RGBA{50, 200, 255, 90}, true)
		for _, h := range v.hits {
			mx, my := at(h.X, h.Y)
			vector.DrawFilledRect(screen, mx-1, my-1, 2, 2, color.RGBA{255, 80, 80, 255}, false)
		}
	}
}

func (v *viewer) drawSidebar(screen *ebiten.Image, x, y, w, h float64) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24.0
	drawSidebarTabs(screen, x, y, w, tabHeight, v.sidebarTab)
	row := int(y+tabHeight) + 12

	var lines []string
	if v.sidebarTab == tabLegend {
		lines = append(lines, "Categories", "----------")
		for _, c := range geometry.Categories() {
			p := c.Profile()
			lines = append(lines, fmt.Sprintf("%-8s wall %3.0f roof %3.0f", c, p.WallHeight, p.RoofHeight))
		}
		lines = append(lines, "", "Markers", "-------",
			"Cyan: eye  Yellow: villagers",
			"Red: ray hits  Green: trees")
	} else {
		counts := make(map[geometry.Category]int)
		for _, s := range v.village.Model.Structures() {
			counts[s.Category]++
		}
		lines = append(lines,
			fmt.Sprintf("World: %.0f x %.0f", v.village.Map.Size, v.village.Map.Size),
			fmt.Sprintf("Structures: %d", v.village.Model.Len()),
			fmt.Sprintf("Boundaries: %d", len(v.village.Model.Boundaries())),
			fmt.Sprintf("Trees: %d", len(v.village.Forest.Trees())),
			fmt.Sprintf("Villagers: %d", len(v.village.Crowd.Villagers())),
			"",
		)
		for _, c := range geometry.Categories() {
			if counts[c] > 0 {
				lines = append(lines, fmt.Sprintf("  %s: %d", c, counts[c]))
			}
		}
		lines = append(lines, "",
			fmt.Sprintf("Eye: (%.0f, %.0f)", v.eyeX, v.eyeY),
			fmt.Sprintf("Heading: %.0f deg", v.heading*180/math.Pi),
			hoverLabel(v.village.Model, v.hover),
		)
	}

	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(x)+12, row)
		row += 16
	}
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h float64, active int) {
	tabW := w / 2
	infoColor := color.RGBA{40, 40, 55, 255}
	legendColor := color.RGBA{40, 40, 55, 255}
	if active == tabInfo {
		infoColor = color.RGBA{70, 70, 95, 255}
	} else {
		legendColor = color.RGBA{70, 70, 95, 255}
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (Tab)", int(x)+10, int(y)+6)
	ebitenutil.DebugPrintAt(screen, "Legend (Tab)", int(x+tabW)+10, int(y)+6)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness float64, clr color.Color) {
	t := float32(thickness)
	fx, fy := float32(x), float32(y)
	fw, fh := float32(w), float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}
