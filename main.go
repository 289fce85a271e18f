package main

import (
	"fmt"
	"os"
	"strings"

	"graphchat/internal/api"
	"graphchat/internal/config"
	"graphchat/internal/display"
	"graphchat/internal/history"
	"graphchat/internal/tui"
)

const version = "0.1.0"

var (
	activeProfile string
	serverFlag    string
)

func main() {
	args := os.Args[1:]

	// Parse global flags first (--profile, --server)
	args = parseGlobalFlags(args)

	// No args → launch interactive mode (default)
	if len(args) == 0 {
		if err := tui.Run(version, activeProfile, serverFlag); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	// Explicit -i flag also launches interactive mode
	if args[0] == "-i" || args[0] == "--interactive" || args[0] == "interactive" {
		if err := tui.Run(version, activeProfile, serverFlag); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	var err error

	switch args[0] {
	case "ask":
		err = cmdAsk(args[1:])
	case "thread":
		err = cmdThread(args[1:])
	case "threads":
		err = cmdThreads()
	case "config":
		err = cmdConfig()
	case "profiles":
		err = cmdProfiles()
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("graphchat %s\n", version)
	default:
		display.Error(fmt.Sprintf("Unknown command: %s", args[0]))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

// ─── ask ────────────────────────────────────────────────────────────────────

func cmdAsk(args []string) error {
	var threadID string
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-t", "--thread":
			if i+1 < len(args) {
				i++
				threadID = args[i]
			} else {
				return fmt.Errorf("--thread requires a value")
			}
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		fmt.Println("Usage: graphchat ask <question> [--thread <id>]")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println(`  graphchat ask "What is 2 + 3?"`)
		fmt.Println(`  graphchat ask "Continue from before" --thread <id>`)
		return nil
	}
	prompt := strings.Join(positional, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if threadID == "" {
		threadID, err = cfg.EnsureThreadID()
		if err != nil {
			return err
		}
	}

	client := api.NewClient(cfg.ServerOrDefault())

	fmt.Println()
	fmt.Printf("  %s❯%s %s\n", display.Cyan, display.Reset, prompt)
	fmt.Printf("  %sThread: %s%s\n\n", display.Dim, threadID, display.Reset)

	sd := api.NewStreamDisplay()
	streamErr := client.ChatStream(prompt, threadID, sd.HandleChunk)
	sd.Finish()

	if streamErr != nil {
		return fmt.Errorf("chat failed: %w", streamErr)
	}

	recordExchange(threadID, prompt, sd)
	return nil
}

// recordExchange mirrors a one-shot exchange into thread history so the TUI
// and `threads` see it later. History failures never fail the command.
func recordExchange(threadID, prompt string, sd *api.StreamDisplay) {
	store, err := history.NewStore()
	if err != nil {
		return
	}
	_ = store.Append(threadID, "user", prompt)
	if sd.FinalAnswer != "" {
		_ = store.Append(threadID, "assistant", sd.FinalAnswer)
	}
}

// ─── thread ─────────────────────────────────────────────────────────────────

func cmdThread(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: graphchat thread <new|show|delete>")
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch args[0] {
	case "new":
		id := config.NewThreadID()
		if err := cfg.SetThreadID(id); err != nil {
			return err
		}
		display.Success(fmt.Sprintf("New thread: %s", id))
		return nil

	case "show":
		if cfg.ThreadID == "" {
			display.Warn("No active thread yet. One is created on first chat.")
			return nil
		}
		store, err := history.NewStore()
		if err != nil {
			display.Info("Thread:", cfg.ThreadID)
			return nil
		}
		thread, err := store.Load(cfg.ThreadID)
		if err != nil {
			display.Info("Thread:", cfg.ThreadID)
			display.Info("Messages:", "0 (no saved history)")
			return nil
		}
		display.SubHeader(thread.Title())
		display.Info("Thread:", cfg.ThreadID)
		display.Info("Messages:", fmt.Sprintf("%d", len(thread.Messages)))
		display.Info("Updated:", thread.UpdatedAt.Format("Jan 2 2006 15:04"))
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: graphchat thread delete <id>")
		}
		store, err := history.NewStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		display.Success(fmt.Sprintf("Deleted thread %s", args[1]))
		return nil

	default:
		return fmt.Errorf("unknown thread subcommand: %s", args[0])
	}
}

// ─── threads ────────────────────────────────────────────────────────────────

func cmdThreads() error {
	store, err := history.NewStore()
	if err != nil {
		return err
	}
	threads, err := store.List()
	if err != nil {
		return err
	}
	if len(threads) == 0 {
		display.Warn("No saved threads yet.")
		return nil
	}

	cfg, _ := loadConfig()

	display.Header(fmt.Sprintf("Threads (%d)", len(threads)))
	for _, t := range threads {
		marker := " "
		if cfg != nil && t.ID == cfg.ThreadID {
			marker = display.Green + "*" + display.Reset
		}
		fmt.Printf(" %s %s\n", marker, t.Title)
		fmt.Printf("    %s%s · %d messages · %s%s\n",
			display.Dim, t.ID, t.MessageCount, t.UpdatedAt.Format("Jan 2 15:04"), display.Reset)
	}
	fmt.Println()
	return nil
}

// ─── config ─────────────────────────────────────────────────────────────────

func cmdConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	theme := "light"
	if cfg.DarkMode {
		theme = "dark"
	}
	threadDisplay := cfg.ThreadID
	if threadDisplay == "" {
		threadDisplay = "(none yet)"
	}

	display.Header("Configuration")
	display.Info("Profile:", config.ProfileName(activeProfile))
	display.Info("Server:", cfg.ServerOrDefault())
	display.Info("Thread:", threadDisplay)
	display.Info("Theme:", theme)
	fmt.Println()
	return nil
}

// ─── profiles ───────────────────────────────────────────────────────────────

func cmdProfiles() error {
	profiles, err := config.ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		display.Warn("No profiles found.")
		return nil
	}
	display.Header("Profiles")
	for _, p := range profiles {
		marker := " "
		if p == config.ProfileName(activeProfile) {
			marker = display.Green + "*" + display.Reset
		}
		fmt.Printf(" %s %s\n", marker, p)
	}
	fmt.Println()
	return nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return nil, err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	return cfg, nil
}

func parseGlobalFlags(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--profile":
			if i+1 < len(args) {
				i++
				activeProfile = args[i]
			}
		case "--server":
			if i+1 < len(args) {
				i++
				serverFlag = args[i]
			}
		default:
			remaining = append(remaining, args[i])
		}
	}
	return remaining
}

// ─── usage ──────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`%sgraphchat%s — terminal client for a streaming chat agent (v%s)

%sUsage:%s
  graphchat                                          Launch interactive mode (default)
  graphchat [--profile <name>] [--server <url>] <command> [arguments]

%sChat:%s
  ask "<question>"          Ask one question and stream the answer
    -t, --thread <id>       Use a specific thread instead of the active one

%sThreads:%s
  thread new                Rotate the active thread id
  thread show               Show the active thread
  thread delete <id>        Delete a saved thread
  threads                   List saved threads

%sSettings:%s
  config                    Show current configuration
  profiles                  List all config profiles
  --profile <name>          Use a named config profile (default: unnamed)
  --server <url>            Override the chat server URL for this run

%sExamples:%s
  graphchat                                          %s# Start interactive mode%s
  graphchat ask "What is 2 + 3?"
  graphchat --server http://localhost:8000 ask "hello"
  graphchat thread new
  graphchat --profile staging config

`, display.Bold, display.Reset, version,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Gray, display.Reset)
}
