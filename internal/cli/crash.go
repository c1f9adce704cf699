package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/features"
	"github.com/xonecas/gtatools/internal/styles"
)

// RecoverPanic is deferred by main. A panic is written to the crash log
// before the process exits with status 1.
func RecoverPanic(dataDir string) {
	rec := recover()
	if rec == nil {
		return
	}
	ReportPanic(dataDir, rec, debug.Stack())
	os.Exit(1)
}

// ReportPanic writes a crash report and tells the user where to find it.
func ReportPanic(dataDir string, value any, stack []byte) {
	log.Error().Interface("panic", value).Msg("Unrecovered panic")

	path, err := features.WriteCrashLog(dataDir, time.Now(), value, stack)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("panic: %v", value)))
		fmt.Fprintf(os.Stderr, "%s\n", stack)
		return
	}

	fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("%s crashed: %v", constants.AppName, value)))
	fmt.Fprintln(os.Stderr, styles.Muted.Render("Details were written to "+path))
}
