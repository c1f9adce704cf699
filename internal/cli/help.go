package cli

import (
	"fmt"

	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/styles"
)

// PrintVersion displays the version information.
func PrintVersion(version string) {
	fmt.Printf("%s %s\n", constants.AppName, version)
}

// PrintHelp displays usage information with CLI styling.
func PrintHelp(version string) {
	fmt.Println(styles.Brand.Render("╔══════════════════════════════════════╗"))
	fmt.Println(styles.Brand.Render("║") + "  " + styles.BrandBold.Render(constants.AppName) + " - GTA V session helpers    " + styles.Brand.Render("║"))
	fmt.Println(styles.Brand.Render("╚══════════════════════════════════════╝"))
	fmt.Println(styles.Muted.Render("  " + version))
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("USAGE:"))
	fmt.Println("  gtatools [flags]")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("FLAGS:"))
	fmt.Println("  " + styles.Secondary.Render("-h, --help") + "              Show this help message")
	fmt.Println("  " + styles.Secondary.Render("-v, --version") + "           Show version information")
	fmt.Println("  " + styles.Secondary.Render("-c, --config") + " PATH       Path to settings file")
	fmt.Println("  " + styles.Secondary.Render("-d, --debug") + "             Enable debug logging")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("COMMANDS:"))
	fmt.Println("  " + styles.Secondary.Render("-k, --kill") + "              Kill every game process")
	fmt.Println("  " + styles.Secondary.Render("-L, --launch") + "            Launch the game with the saved launcher")
	fmt.Println("  " + styles.Secondary.Render("-b, --block") + "             Block game network access (administrator)")
	fmt.Println("  " + styles.Secondary.Render("-u, --unblock") + "           Remove the network block (administrator)")
	fmt.Println("  " + styles.Secondary.Render("-H, --history") + "           Print the action journal")
	fmt.Println("  " + styles.Secondary.Render("-U, --check-update") + "      Check for a newer release")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("EXAMPLES:"))
	fmt.Println("  # Open the interface")
	fmt.Println("  gtatools")
	fmt.Println()
	fmt.Println("  # Kill a frozen game from a shortcut")
	fmt.Println("  gtatools -k")
	fmt.Println()
	fmt.Println("  # Use a settings file next to the executable")
	fmt.Println("  gtatools -c .\\config.toml")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("KEYS:"))
	fmt.Println("  " + styles.Secondary.Render("f") + "    Force close (press twice)")
	fmt.Println("  " + styles.Secondary.Render("e") + "    Empty session")
	fmt.Println("  " + styles.Secondary.Render("a") + "    Toggle anti AFK")
	fmt.Println("  " + styles.Secondary.Render("q") + "    Quit")
	fmt.Println()
	fmt.Println(styles.Muted.Render("Note: without a command flag the interface starts."))
	fmt.Println()
}
