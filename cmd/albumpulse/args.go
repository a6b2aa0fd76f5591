package main

import (
	"fmt"
	"os"

	"albumpulse/internal/config"
)

// cliArgs is the parsed command line.
type cliArgs struct {
	command    string
	cfg        config.Config
	configPath string
	envPath    string
}

var commands = map[string]bool{
	"tracks": true,
	"videos": true,
	"stats":  true,
	"lyrics": true,
	"load":   true,
	"all":    true,
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs() (cliArgs, error) {
	args := os.Args[1:]

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return cliArgs{}, initConfigFile()
		}
	}

	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	parsed := cliArgs{cfg: cfg, configPath: configPath}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			parsed.cfg.Verbose = true

		case "--force":
			parsed.cfg.ForceSnapshot = true

		case "--album", "-a":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--album requires a name")
			}
			i++
			parsed.cfg.AlbumName = args[i]

		case "--artist":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--artist requires a name")
			}
			i++
			parsed.cfg.ArtistName = args[i]

		case "--channel":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--channel requires a channel id")
			}
			i++
			parsed.cfg.ChannelID = args[i]

		case "--playlist":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--playlist requires a playlist id")
			}
			i++
			parsed.cfg.PlaylistID = args[i]

		case "--data-dir", "-d":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--data-dir requires a path")
			}
			i++
			parsed.cfg.DataDir = config.ExpandHome(args[i])

		case "--env", "-e":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--env requires a path")
			}
			i++
			parsed.envPath = args[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return cliArgs{}, fmt.Errorf("unknown flag: %s", arg)
			}
			if parsed.command != "" {
				return cliArgs{}, fmt.Errorf("unexpected argument: %s", arg)
			}
			if !commands[arg] {
				return cliArgs{}, fmt.Errorf("unknown command %q, expected tracks, videos, stats, lyrics, load, or all", arg)
			}
			parsed.command = arg
		}
	}

	if parsed.command == "" {
		return cliArgs{}, fmt.Errorf("no command given, expected tracks, videos, stats, lyrics, load, or all")
	}

	return parsed, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Required options:")
	fmt.Println("  album_name: the album to track")
	fmt.Println("  artist_name: the album's primary artist")
	fmt.Println("  channel_id or playlist_id: where the release videos live")
	fmt.Println("\nCredentials go in a .env file:")
	fmt.Println("  GENIUS_API_KEY, YOUTUBE_API_KEY")
	fmt.Println("  POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("albumpulse - Build an album engagement dataset from Genius and YouTube")
	fmt.Println()
	fmt.Println("Usage: albumpulse [options] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  tracks                     Scrape the album tracklist into tracks.csv")
	fmt.Println("  videos                     Match tracks to release-playlist videos")
	fmt.Println("  stats                      Append an engagement snapshot (evening UTC window)")
	fmt.Println("  lyrics                     Fetch, clean, and measure lyrics per track")
	fmt.Println("  load                       Bulk-load the CSV dataset into Postgres")
	fmt.Println("  all                        Run tracks, videos, and lyrics in order")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -a, --album <name>         Album name (overrides config)")
	fmt.Println("      --artist <name>        Artist name (overrides config)")
	fmt.Println("      --channel <id>         YouTube channel id to search for the release playlist")
	fmt.Println("      --playlist <id>        Release playlist id (skips the search)")
	fmt.Println("  -d, --data-dir <path>      Directory for the CSV dataset (default: data)")
	fmt.Println("  -e, --env <path>           Path to .env file (default: ./.env)")
	fmt.Println("      --force                Take a stats snapshot outside the UTC window")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./albumpulse.yaml")
	fmt.Println("  ~/.config/albumpulse/config.yaml")
	fmt.Println("  ~/.albumpulse.yaml")
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Println("  Normal mode: progress bar shown, detailed logs saved to:")
	fmt.Println("    ~/.local/share/albumpulse/logs/")
	fmt.Println("  Verbose mode: all output to stdout, no progress bar, no file logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Scrape the tracklist")
	fmt.Println("  albumpulse -a \"Don't Be Dumb\" --artist \"A$AP Rocky\" tracks")
	fmt.Println()
	fmt.Println("  # Match videos using a known release playlist")
	fmt.Println("  albumpulse --playlist OLAK5uy_... videos")
	fmt.Println()
	fmt.Println("  # Take a snapshot right now, ignoring the window")
	fmt.Println("  albumpulse --force stats")
	fmt.Println()
	fmt.Println("  # Full run")
	fmt.Println("  albumpulse all")
}
