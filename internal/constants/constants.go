// Package constants provides application-wide constants.
package constants

import "time"

const (
	// AppName is the application name.
	AppName = "gtatools"

	// StorageDirName is the per-user directory holding config, logs and the journal.
	StorageDirName = "GTA Tools"

	// CodebergRepo is the repository checked for new releases.
	CodebergRepo = "futile/gta-tools"

	// CodebergURL is the Gitea instance hosting the repository.
	CodebergURL = "https://codeberg.org/"
)

// Game identification
const (
	// ExeEnhanced is the process name of the Enhanced edition.
	ExeEnhanced = "GTA5_Enhanced.exe"

	// ExeLegacy is the process name of the Legacy edition.
	ExeLegacy = "GTA5.exe"

	// WindowTitle is the title of the game window when it has focus.
	WindowTitle = "Grand Theft Auto V"
)

// GameExecutables lists every process name that counts as the game.
var GameExecutables = []string{ExeEnhanced, ExeLegacy}

// Timing constants
const (
	// FrameInterval is the redraw cadence that drives every gate.
	FrameInterval = 100 * time.Millisecond

	// CountdownTick is the period of one countdown decrement.
	CountdownTick = time.Second

	// ConfirmWindow is how long a force close stays armed waiting for the second press.
	ConfirmWindow = 3 * time.Second

	// EmptySessionInterval is how long the game stays suspended or blocked
	// before the reversal fires on its own.
	EmptySessionInterval = 10 * time.Second

	// AntiAFKInterval is the time between two anti-idle key sends.
	AntiAFKInterval = 60 * time.Second

	// IndicatorDelay is how long a failed indicator stays visible.
	IndicatorDelay = 3 * time.Second

	// UpdateCheckTimeout bounds the startup release lookup.
	UpdateCheckTimeout = 10 * time.Second

	// ShutdownTimeout bounds the cleanup run when the program exits.
	ShutdownTimeout = 10 * time.Second
)

// Firewall rule names
const (
	// RuleEntireGame blocks all game traffic in both directions.
	RuleEntireGame = "[GTA Tools] Block all traffic for GTA V"

	// RuleSaveServer blocks outbound traffic to the Rockstar save server.
	RuleSaveServer = "[GTA Tools] Block Rockstar save server"

	// RuleEmptySession is the temporary rule used to empty a session.
	RuleEmptySession = "[GTA Tools] Empty session"

	// DefaultSaveServerIP is the Rockstar cloud save server.
	DefaultSaveServerIP = "192.81.241.171"
)
