package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Geometry is the placement of a presentation surface.
type Geometry struct {
	Width, Height int
	Left, Top     int
}

// FitScreen sizes a window to 85% of the available screen, centered.
func FitScreen(screenW, screenH int) Geometry {
	w := screenW * 85 / 100
	h := screenH * 85 / 100
	return Geometry{
		Width:  w,
		Height: h,
		Left:   (screenW - w) / 2,
		Top:    (screenH - h) / 2,
	}
}

// Features renders the minimal-chrome popup feature string. Hosts that refuse
// popups degrade to a plain tab; callers must not assume popup semantics.
func (g Geometry) Features() string {
	return fmt.Sprintf(
		"width=%d,height=%d,left=%d,top=%d,toolbar=no,location=no,status=no,menubar=no,scrollbars=yes,resizable=yes",
		g.Width, g.Height, g.Left, g.Top)
}

// Opener acquires a new presentation surface for a URL. Failure to acquire
// one is non-fatal to the launch.
type Opener interface {
	Open(ctx context.Context, url string, geo Geometry) error
	ScreenSize() (w, h int)
}

// BrowserOpener shells out to the platform's default browser. Popup geometry
// is advisory: most platform openers accept only the URL, so the geometry is
// carried in the viewer query for hosts that honor it.
type BrowserOpener struct {
	// FallbackW/H are used when the screen cannot be probed.
	FallbackW, FallbackH int
}

func (b *BrowserOpener) Open(ctx context.Context, url string, geo Geometry) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return errors.New("unsupported platform: " + runtime.GOOS)
	}
	return cmd.Start()
}

// ScreenSize probes the primary display dimensions, falling back to the
// configured defaults when the platform tools are unavailable.
func (b *BrowserOpener) ScreenSize() (int, int) {
	w, h := b.FallbackW, b.FallbackH
	if w <= 0 || h <= 0 {
		w, h = 1920, 1080
	}
	switch runtime.GOOS {
	case "linux":
		if pw, ph, ok := probeXrandr(); ok {
			return pw, ph
		}
	case "darwin":
		if pw, ph, ok := probeSystemProfiler(); ok {
			return pw, ph
		}
	}
	return w, h
}

var xrandrRe = regexp.MustCompile(`current (\d+) x (\d+)`)

func probeXrandr() (int, int, bool) {
	out, err := exec.Command("xrandr", "--query").Output()
	if err != nil {
		return 0, 0, false
	}
	m := xrandrRe.FindStringSubmatch(string(out))
	if m == nil {
		return 0, 0, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, w > 0 && h > 0
}

var resolutionRe = regexp.MustCompile(`Resolution: (\d+) x (\d+)`)

func probeSystemProfiler() (int, int, bool) {
	out, err := exec.Command("system_profiler", "SPDisplaysDataType").Output()
	if err != nil {
		return 0, 0, false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if m := resolutionRe.FindStringSubmatch(line); m != nil {
			w, _ := strconv.Atoi(m[1])
			h, _ := strconv.Atoi(m[2])
			if w > 0 && h > 0 {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}
