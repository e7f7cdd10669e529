package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"slices"
	"strconv"
	"strings"

	"github.com/anastasop/iview/views"
	xdraw "golang.org/x/image/draw"
)

const (
	progName = "iview"

	upArrowKey    = 61454
	downArrowKey  = 128
	leftArrowKey  = 61457
	rightArrowKey = 61458
	escKey        = 27
	delKey        = 127
)

var (
	windowSizeFlag = flag.String("w", "1300x1000", "set window size")
	iconSizeFlag   = flag.String("i", "320x240", "set icon size")
	outputMarked   = flag.Bool("o", false, "output the paths of marked images")
	startSingle    = flag.Bool("s", false, "start with the darkroom view on the first image")
	startView      = flag.String("view", "lighttable", "start with `view`")
	pluginsDir     = flag.String("plugins", "", "load the view plugins (*.so) of `dir`")
	silent         = flag.Bool("q", false, "silent mode, do not log anything")
	verbose        = flag.Bool("v", false, "verbose mode, log view switches and statistics for cache")
	fast           = flag.Bool("f", false, "choose fast over best algorithms for scaling")
	pageSize       = flag.Int("p", 0, "set page size. Default is 1 grid page")
	setMemoryLimit = flag.Bool("m", false, "run with 1G soft memory limit. Overrides GOMEMLIMIT")
	configFile     = flag.String("config", "", "read default settings from `file` instead of "+defaultConfigFile)
)

var (
	enableProfiler = flag.Bool("profile", false, "run with the profiler enabled")
	cpuprofile     = flag.String("cpuprofile", "cpu.prof", "write cpu profile to `file`")
	memprofile     = flag.String("memprofile", "mem.prof", "write memory profile to `file`")
)

var (
	padding         = 4
	acceptedFormats = []string{".gif", ".jpg", ".jpeg", ".png", ".webp"}

	// builtinViews are the view modules compiled in, in slot order.
	builtinViews = []string{"lighttable", "marked", "darkroom"}
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [-f|-o|-q|-v|-s|-m] [-config file] [-view name] [-plugins dir] [file|dir]..

%s is an image viewer.

Flags:
`, progName, progName)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	cfg := *configFile
	if cfg == "" {
		cfg = defaultConfigFile
	}
	if err := loadConfig(flag.CommandLine, cfg, *configFile != ""); err != nil {
		log.Fatal(err)
	}

	if *enableProfiler {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	windowSize, ok := stringToPoint(*windowSizeFlag)
	if !ok {
		log.Fatalf("cannot compute window size from %s", *windowSizeFlag)
	}

	iconSize, ok := stringToPoint(*iconSizeFlag)
	if !ok {
		log.Fatalf("cannot compute icon size from %s", *iconSizeFlag)
	}

	if *setMemoryLimit {
		debug.SetMemoryLimit(1 * 1024 * 1024 * 1024) // or GOMEMLIMIT=1GiB
	}

	if *silent {
		log.SetOutput(io.Discard)
	}

	if *fast {
		fastScaler = xdraw.NearestNeighbor
		bestScaler = xdraw.BiLinear
	}

	var icons []*Icon
	for _, p := range flag.Args() {
		icons = append(icons, addImagesOfPath(p)...)
	}
	if len(icons) == 0 {
		os.Exit(0)
	}

	session := NewSession(icons)
	session.area = image.Rectangle{Max: windowSize}
	session.iconSize = iconSize
	session.padding = padding
	session.pageSize = *pageSize
	if *verbose {
		session.stats = log.Default()
	}
	session.connectToPlumber()

	vm := newViewManager(session, *pluginsDir)
	if *verbose {
		vm.SetLogger(log.Default())
	}

	dctl := connectToDisplay(windowSize)
	sh := NewShell(vm, session)
	sh.resize(dctl.bounds().Size())

	view := *startView
	if *startSingle {
		view = "darkroom"
		session.Select(0)
	}
	if !startIn(sh, view) {
		log.Fatalf("no view can start")
	}
	sh.run(dctl)
	vm.Cleanup()

	if *enableProfiler {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}

	if *outputMarked {
		for _, icon := range icons {
			if icon.marked {
				fmt.Println(icon.path)
			}
		}
	}
}

// newViewManager returns a view manager with the builtin views and the
// plugins of dir loaded. Views that fail to load are logged and skipped.
func newViewManager(session *Session, dir string) *views.Manager {
	reg := views.NewRegistry()
	reg.Register("lighttable", func() views.Module { return newLightTable(session) })
	reg.Register("marked", func() views.Module { return newMarkedView(session) })
	reg.Register("darkroom", func() views.Module { return newDarkroom(session) })

	ids := slices.Clone(builtinViews)
	var opener views.Opener = reg
	if dir != "" {
		plugins := views.PluginDir{Dir: dir}
		opener = views.Chain(reg, plugins)
		ids = append(ids, pluginIDs(dir)...)
	}

	vm := views.NewManager(opener, progName)
	for _, id := range ids {
		if _, err := vm.LoadModule(id); err != nil {
			log.Printf("views: %v", err)
		}
	}
	return vm
}

// pluginIDs returns the ids of the view plugins in dir.
func pluginIDs(dir string) []string {
	paths, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		log.Printf("plugins: %s: %v", dir, err)
		return nil
	}
	var ids []string
	for _, p := range paths {
		ids = append(ids, strings.TrimSuffix(filepath.Base(p), ".so"))
	}
	return ids
}

// startIn activates the view id. If it refuses, the first view that
// accepts is activated.
func startIn(sh *Shell, id string) bool {
	if slot, ok := sh.vm.Lookup(id); ok && sh.switchTo(slot) {
		return true
	}
	for slot := 0; slot < sh.vm.NumViews(); slot++ {
		if sh.switchTo(slot) {
			return true
		}
	}
	return false
}

// isImageFile checks the file suffix to check if it is an image.
func isImageFile(name string) bool {
	return slices.Contains(acceptedFormats, strings.ToLower(filepath.Ext(name)))
}

// addImagesOfPath adds the image at path, descending it if a directory.
func addImagesOfPath(name string) []*Icon {
	info, err := os.Stat(name)
	if err != nil {
		log.Printf("addImagesOfPath: cannot stat file: %v", err)
		return nil
	}
	if info.IsDir() {
		return scanForImages(name)
	}
	if !info.Mode().IsRegular() {
		log.Printf("addImagesOfPath: ignoring special file %s", name)
		return nil
	}
	if !isImageFile(name) {
		return nil
	}
	return []*Icon{NewIcon(name)}
}

// scanForImages walks dir and adds the images found.
func scanForImages(dir string) []*Icon {
	var icons []*Icon

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			log.Printf("scanForImages: ignoring special file %s", path)
			return nil
		}
		if !isImageFile(path) {
			return nil
		}
		icons = append(icons, NewIcon(path))
		return nil
	}

	if err := filepath.WalkDir(dir, walkFn); err != nil {
		log.Printf("scanForImages: %s: %v", dir, err)
	}

	return icons
}

func stringToPoint(s string) (image.Point, bool) {
	fields := strings.Split(s, "x")
	if len(fields) != 2 {
		return image.Point{}, false
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return image.Point{}, false
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return image.Point{}, false
	}
	return image.Pt(x, y), true
}
