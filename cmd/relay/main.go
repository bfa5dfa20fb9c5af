// Command relay is a terminal chat client for a managed agent runtime.
//
// Usage:
//
//	RELAY_ACCESS_TOKEN=eyJ... relay [flags]
//	relay -config relay.toml [flags]
//
// Flags:
//
//	-config string      Path to TOML config file (default: ~/.relay/relay.toml if present)
//	-thread string      Path to a local thread file to resume
//	-region string      Runtime region (overrides config)
//	-agent-arn string   Agent runtime ARN (overrides config)
//	-gateway-url string Gateway URL forwarded to the agent (overrides config)
//	-memory-id string   Memory store ID for conversation history (overrides config)
//	-username string    Login username (overrides config)
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/relay-chat/relay"
	"github.com/relay-chat/relay/agentcore"
	bt "github.com/relay-chat/relay/bubbletea"
	"github.com/relay-chat/relay/cognito"
	"github.com/relay-chat/relay/config"
	relayjson "github.com/relay-chat/relay/json"
	"github.com/relay-chat/relay/memory"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to TOML config file")
		threadPath = flag.String("thread", "", "Path to a local thread file to resume")
		region     = flag.String("region", "", "Runtime region (overrides config)")
		agentARN   = flag.String("agent-arn", "", "Agent runtime ARN (overrides config)")
		gatewayURL = flag.String("gateway-url", "", "Gateway URL forwarded to the agent (overrides config)")
		memoryID   = flag.String("memory-id", "", "Memory store ID (overrides config)")
		username   = flag.String("username", "", "Login username (overrides config)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(resolveConfigPath(*configPath))
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg, *region, *agentARN, *gatewayURL, *memoryID, *username)
	if err := cfg.Validate(); err != nil {
		return err
	}

	creds, err := resolveCredentials(ctx, cfg)
	if err != nil {
		return err
	}

	thread, err := loadOrCreateThread(*threadPath)
	if err != nil {
		return err
	}

	// History is best effort: a cold memory store should not block chatting.
	if cfg.MemoryID != "" && *threadPath == "" {
		store := memory.New(cfg.Region, cfg.MemoryID, creds.AccessToken)
		if threads, err := memory.LoadThreads(ctx, store, creds.ActorID); err == nil && len(threads) > 0 {
			printStoredThreads(os.Stderr, threads)
		}
	}

	runtime := agentcore.New(cfg.Region, cfg.AgentARN)
	turn := func(ctx context.Context, prompt string, onEvent func(relay.Event)) (string, error) {
		return runTurn(ctx, runtime, relay.Request{
			Prompt:      prompt,
			AccessToken: creds.AccessToken,
			GatewayURL:  cfg.GatewayURL,
			SessionID:   thread.ID,
			ActorID:     creds.ActorID,
		}, onEvent)
	}

	final, err := bt.Run(ctx, bt.New(turn, &thread, relay.DefaultTheme()))
	if err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Save the transcript on exit.
	if *threadPath != "" {
		if err := relayjson.Save(*threadPath, final); err != nil {
			return fmt.Errorf("save thread: %w", err)
		}
	} else if len(final.Messages) > 0 {
		savePath := defaultThreadPath(final.ID)
		if err := relayjson.Save(savePath, final); err != nil {
			return fmt.Errorf("auto-save thread: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Thread saved to %s\n", savePath)
	}

	return nil
}

// runTurn drives one invocation to completion, forwarding events.
func runTurn(ctx context.Context, rt relay.Runtime, req relay.Request, onEvent func(relay.Event)) (string, error) {
	stream, err := rt.Invoke(ctx, req)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		onEvent(evt)
	}
	return stream.Reply()
}

// resolveCredentials prefers a token from the environment; otherwise it
// performs an interactive login.
func resolveCredentials(ctx context.Context, cfg config.Config) (relay.Credentials, error) {
	if cfg.AccessToken != "" {
		actorID := cognito.ActorID(cfg.AccessToken)
		if actorID == "" {
			return relay.Credentials{}, errors.New("RELAY_ACCESS_TOKEN carries no username or sub claim")
		}
		return relay.Credentials{DisplayName: actorID, AccessToken: cfg.AccessToken, ActorID: actorID}, nil
	}

	username := cfg.Username
	if username == "" {
		fmt.Fprint(os.Stderr, "Username: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return relay.Credentials{}, fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return relay.Credentials{}, fmt.Errorf("read password: %w", err)
	}

	identity := cognito.New(cfg.Region, cfg.CognitoClientID, cfg.CognitoClientSecret)
	creds, err := identity.Login(ctx, username, string(password))
	if err != nil {
		return relay.Credentials{}, fmt.Errorf("login: %w", err)
	}
	return creds, nil
}

// loadOrCreateThread resumes a local thread file or starts a fresh thread.
// UUIDs are 36 characters, which satisfies the runtime's minimum session
// ID length.
func loadOrCreateThread(path string) (relay.Thread, error) {
	if path != "" {
		t, err := relayjson.Load(path)
		if err != nil {
			return relay.Thread{}, fmt.Errorf("load thread: %w", err)
		}
		return t, nil
	}
	now := time.Now()
	return relay.Thread{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}, nil
}

// applyFlagOverrides lets flags win over both the file and the environment.
func applyFlagOverrides(cfg *config.Config, region, agentARN, gatewayURL, memoryID, username string) {
	if region != "" {
		cfg.Region = region
	}
	if agentARN != "" {
		cfg.AgentARN = agentARN
	}
	if gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}
	if memoryID != "" {
		cfg.MemoryID = memoryID
	}
	if username != "" {
		cfg.Username = username
	}
}

// resolveConfigPath tolerates a missing default config file; an explicit
// -config path is passed through and missing files surface as errors.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".relay", "relay.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func defaultThreadPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".relay", "threads", id+".json")
}

// printStoredThreads lists remote conversation history, newest first.
func printStoredThreads(w io.Writer, threads []relay.Thread) {
	fmt.Fprintf(w, "%d stored conversation(s):\n", len(threads))
	for i, t := range threads {
		if i == 5 {
			fmt.Fprintf(w, "  ... and %d more\n", len(threads)-i)
			break
		}
		fmt.Fprintf(w, "  %s  %s\n", t.CreatedAt.Format("2006-01-02"), t.Title)
	}
}
