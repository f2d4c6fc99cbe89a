package main

import (
	"flag"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/farmstack/internal/application/game"
	"github.com/younwookim/farmstack/internal/application/replay"
	"github.com/younwookim/farmstack/internal/application/scene"
	"github.com/younwookim/farmstack/internal/application/session"
	"github.com/younwookim/farmstack/internal/application/state"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
	"github.com/younwookim/farmstack/internal/server"
	"github.com/younwookim/farmstack/pkg/logger"
)

const (
	screenW = 640
	screenH = 480

	// Pixels per world unit and the floor baseline on screen.
	worldScale = 28.0
	floorBase  = screenH - 40
)

// Colors for rendering
var (
	colorBG      = color.RGBA{30, 42, 34, 255}
	colorFloor   = color.RGBA{70, 55, 40, 255}
	colorPlayer  = color.RGBA{240, 220, 130, 255}
	colorBoss    = color.RGBA{190, 60, 60, 255}
	colorPhasing = color.RGBA{190, 60, 60, 90}
	colorProbe   = color.RGBA{130, 190, 255, 255}
	colorDanger  = color.RGBA{200, 40, 40, 60}
	colorDefault = color.RGBA{180, 180, 180, 255}
)

var animalColors = map[string]color.RGBA{
	"chicken":  {235, 235, 220, 255},
	"duck":     {230, 210, 90, 255},
	"duckling": {245, 230, 140, 255},
	"goat":     {160, 160, 170, 255},
	"fox":      {220, 120, 60, 255},
	"sheep":    {240, 240, 245, 255},
	"hawk":     {120, 90, 60, 255},
	"pig":      {240, 170, 180, 255},
}

// abilityKeys maps the keyboard row to loadout abilities.
var abilityKeys = []struct {
	key ebiten.Key
	id  string
}{
	{ebiten.Key1, "magnet"},
	{ebiten.Key2, "slow"},
	{ebiten.Key3, "freeze"},
	{ebiten.Key4, "stabilize"},
	{ebiten.Key5, "boop"},
}

// playScene runs one session: input, simulation tick, rendering and the
// optional recorder/replayer and debug server.
type playScene struct {
	cfg  *config.GameConfig
	sess *session.Session
	st   state.GameState
	seed int64

	recorder       *replay.Recorder
	recordFilename string
	replayer       *replay.Replayer

	srv *server.Server

	frame int
}

func newPlayScene(cfg *config.GameConfig, seed int64, recordFilename string, replayer *replay.Replayer, srv *server.Server) *playScene {
	p := &playScene{
		cfg:            cfg,
		sess:           session.New(cfg, seed),
		st:             state.StatePlaying,
		seed:           seed,
		recordFilename: recordFilename,
		replayer:       replayer,
		srv:            srv,
	}
	if replayer != nil {
		p.st = state.StateReplay
	}
	if recordFilename != "" {
		p.recorder = replay.NewRecorder(seed)
	}
	return p
}

func (p *playScene) OnEnter() {
	logrus.WithFields(logrus.Fields{
		"seed":   p.seed,
		"replay": p.replayer != nil,
	}).Info("session started")
}

func (p *playScene) OnExit() {
	p.saveRecording()
}

// Update advances the session by one frame.
func (p *playScene) Update(dt float64) (scene.Scene, error) {
	if p.srv != nil {
		p.srv.Drain(p.sess)
	}

	switch p.st {
	case state.StatePlaying, state.StateReplay:
		p.updatePlaying(dt)
	case state.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			p.sess.Resume()
			p.st = state.StatePlaying
		}
	case state.StateGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
			p.restart()
		}
	}

	if p.srv != nil {
		p.srv.Publish(p.sess)
	}
	return nil, nil
}

func (p *playScene) updatePlaying(dt float64) {
	if p.st == state.StatePlaying && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.sess.Pause()
		p.st = state.StatePaused
		return
	}

	// F5: save recording without waiting for game over
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) && p.recorder != nil {
		p.saveRecording()
	}

	var fi replay.FrameInput
	if p.replayer != nil {
		var ok bool
		fi, ok = p.replayer.GetInput()
		if !ok {
			logrus.WithField("frames", p.replayer.TotalFrames()).Info("replay finished")
			p.replayer = nil
			p.st = state.StatePlaying
			return
		}
	} else {
		fi = p.readInput(dt)
	}

	if p.recorder != nil {
		p.recorder.RecordFrame(fi)
	}
	p.applyFrame(fi)
	p.frame++

	if p.sess.GameOver() {
		p.st = state.StateGameOver
		p.saveRecording()
	}
}

// readInput samples the hardware into a replayable frame.
func (p *playScene) readInput(dt float64) replay.FrameInput {
	mx, my := ebiten.CursorPosition()
	wx, wy := p.screenToWorld(mx, my)

	fi := replay.FrameInput{Dt: dt, TX: wx}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		fi.Bank = true
	}
	for _, ak := range abilityKeys {
		if inpututil.IsKeyJustPressed(ak.key) {
			fi.Ability = ak.id
			break
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		fi.Poke = true
		fi.PokeX = wx
		fi.PokeY = wy
	}
	return fi
}

// applyFrame feeds one frame into the session. Replayed and live frames
// go through the same path so recordings stay faithful.
func (p *playScene) applyFrame(fi replay.FrameInput) {
	p.sess.SetTarget(fi.TX)
	if fi.Ability != "" {
		p.sess.TriggerAbility(fi.Ability)
	}
	if fi.Bank {
		p.sess.BankStack()
	}
	if fi.Poke {
		p.sess.Poke(fi.PokeX, fi.PokeY)
	}
	if fi.Restart {
		p.sess.Restart()
	}
	p.sess.Update(fi.Dt)
}

func (p *playScene) restart() {
	p.seed = time.Now().UnixNano()
	p.sess = session.New(p.cfg, p.seed)
	p.st = state.StatePlaying
	p.frame = 0

	if p.recordFilename != "" {
		p.recorder = replay.NewRecorder(p.seed)
		logrus.WithField("seed", p.seed).Info("recording restarted")
	}
}

func (p *playScene) saveRecording() {
	if p.recorder == nil || p.recorder.FrameCount() == 0 {
		return
	}
	filename := p.recordFilename
	if filename == "" {
		filename = replay.GenerateFilename()
	}
	if err := p.recorder.Save(filename); err != nil {
		logrus.WithError(err).Error("failed to save recording")
		return
	}
	logrus.WithFields(logrus.Fields{
		"file":   filename,
		"frames": p.recorder.FrameCount(),
	}).Info("recording saved")
}

func (p *playScene) worldToScreen(wx, wy float64) (float64, float64) {
	half := p.cfg.Sim.World.HalfWidth
	return (wx + half) * worldScale, floorBase - wy*worldScale
}

func (p *playScene) screenToWorld(sx, sy int) (float64, float64) {
	half := p.cfg.Sim.World.HalfWidth
	return float64(sx)/worldScale - half, (floorBase - float64(sy)) / worldScale
}

// Draw renders the playfield, the HUD and state overlays.
func (p *playScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	ebitenutil.DrawRect(screen, 0, floorBase, screenW, screenH-floorBase, colorFloor)

	snap := p.sess.Snapshot()

	for _, e := range p.sess.Entities() {
		p.drawEntity(screen, e)
	}

	if snap.InDanger {
		ebitenutil.DrawRect(screen, 0, 0, screenW, screenH, colorDanger)
	}

	p.drawHUD(screen, snap)

	switch p.st {
	case state.StatePaused:
		p.drawPauseOverlay(screen)
	case state.StateGameOver:
		p.drawGameOverOverlay(screen, snap)
	case state.StateReplay:
		ebitenutil.DebugPrintAt(screen, "REPLAY", screenW-60, 10)
	}
}

func (p *playScene) drawEntity(screen *ebiten.Image, e session.EntityView) {
	sx, sy := p.worldToScreen(e.X, e.Y)

	switch e.Type {
	case "player":
		w := 1.4 * worldScale
		h := 0.8 * worldScale
		ebitenutil.DrawRect(screen, sx-w/2, sy-h, w, h, colorPlayer)
		return
	case "powerup":
		if e.Subtype == "magnet_probe" {
			ebitenutil.DrawRect(screen, sx-3, sy-3, 6, 6, colorProbe)
		}
		// Loadout carriers are invisible.
		return
	}

	size := e.Scale * 0.8 * worldScale
	c := entityColor(e)
	ebitenutil.DrawRect(screen, sx-size/2, sy-size, size, size, c)

	if e.Confused {
		ebitenutil.DebugPrintAt(screen, "?", int(sx)-3, int(sy-size)-14)
	}
	if e.BossHP > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", e.BossHP), int(sx)-4, int(sy-size)-14)
	}
}

func entityColor(e session.EntityView) color.RGBA {
	if strings.HasPrefix(e.Subtype, "boss_") {
		if e.Phasing {
			return colorPhasing
		}
		return colorBoss
	}
	if c, ok := animalColors[e.Subtype]; ok {
		if e.State == "scattering" {
			c.A = 140
		}
		return c
	}
	return colorDefault
}

func (p *playScene) drawHUD(screen *ebiten.Image, snap session.Snapshot) {
	hud := fmt.Sprintf("Score: %.0f  Wave: %d  Lives: %d\nStack: %d  Combo: %d (x%.1f)  Banked: %d",
		snap.Score, snap.Wave, snap.Lives, snap.StackHeight, snap.Combo, snap.Multiplier, snap.Banked)
	ebitenutil.DebugPrint(screen, hud)

	keys := "1:magnet 2:slow 3:freeze 4:stabilize 5:boop  SPACE:bank  CLICK:poke"
	ebitenutil.DebugPrintAt(screen, keys, 10, screenH-16)
}

func (p *playScene) drawPauseOverlay(screen *ebiten.Image) {
	overlay := color.RGBA{0, 0, 0, 128}
	ebitenutil.DrawRect(screen, 0, 0, screenW, screenH, overlay)

	text := "PAUSED\n\nPress ESC to resume"
	ebitenutil.DebugPrintAt(screen, text, screenW/2-50, screenH/2-20)
}

func (p *playScene) drawGameOverOverlay(screen *ebiten.Image, snap session.Snapshot) {
	overlay := color.RGBA{100, 0, 0, 180}
	ebitenutil.DrawRect(screen, 0, 0, screenW, screenH, overlay)

	text := fmt.Sprintf("GAME OVER\n\nScore: %.0f  Wave: %d\n\nPress Z to restart", snap.Score, snap.Wave)
	ebitenutil.DebugPrintAt(screen, text, screenW/2-60, screenH/2-30)
}

func main() {
	recordFlag := flag.String("record", "", "record input to file (e.g. -record replay.json)")
	replayFlag := flag.String("replay", "", "play back a recorded session")
	seedFlag := flag.Int64("seed", 0, "simulation seed (0 = time-based)")
	configsFlag := flag.String("configs", "", "load config tables from a directory instead of the embedded defaults")
	profileFlag := flag.String("profile", "", "write a CPU profile to the given directory")
	debugAddr := flag.String("debug-addr", "", "serve the debug/test-control API on this address")
	flag.Parse()

	logger.Init()

	if *profileFlag != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileFlag)).Stop()
	}

	loader := config.NewDefaultLoader()
	if *configsFlag != "" {
		loader = config.NewLoader(*configsFlag)
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var replayer *replay.Replayer
	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			logrus.WithError(err).Fatal("failed to load replay")
		}
		replayer = replay.NewReplayer(*data)
		seed = data.Seed
	}

	var srv *server.Server
	if *debugAddr != "" {
		srv = server.New(*debugAddr)
		go func() {
			if err := srv.Run(); err != nil {
				logrus.WithError(err).Error("debug server stopped")
			}
		}()
	}

	play := newPlayScene(cfg, seed, *recordFlag, replayer, srv)
	g := game.New(play, screenW, screenH, 1.0/60.0)

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Farm Stack")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil {
		logrus.WithError(err).Fatal("game exited")
	}
}
