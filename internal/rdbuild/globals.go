package rdbuild

import (
	"runtime"
	"sync/atomic"

	"github.com/gookit/color"
)

// GLOBAL STATE
// 1 while a critical phase is in flight (install, global link), 0 otherwise.
var isCriticalAtomic atomic.Int32

// Global variables
var (
	projectRoot  string
	npmBin       string
	globalPkg    = "@rdmind/rdmind"
	ConfigFile   = "rdbuild.conf"
	LockFileName = ".rdbuild.lock"
	Debug        bool
	ArchiveWant  bool
	CompressWant string
	version      = "dev" // default version; overridden at build time
	arch         = runtime.GOARCH
	buildDate    = "unknown" // overridden at build time
	// Global executors (declared, to be assigned in main via InitExecutors)
	UserExec *Executor
	RootExec *Executor
)

// Artifacts the build is expected to produce, relative to the project root.
var keyArtifacts = []string{
	"bundle/rdmind.js",
	"packages/core/dist/index.js",
	"packages/cli/dist/index.js",
}

// Build output directories, relative to the project root.
var outputDirs = []string{
	"bundle",
	"packages/core/dist",
	"packages/cli/dist",
	"dist",
}

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)

func setCritical(on bool) {
	if on {
		isCriticalAtomic.Store(1)
	} else {
		isCriticalAtomic.Store(0)
	}
}

// InCriticalPhase reports whether an interrupt right now would leave npm
// state half-mutated. The signal handler in main consults this.
func InCriticalPhase() bool {
	return isCriticalAtomic.Load() == 1
}
