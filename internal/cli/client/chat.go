package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatDelta struct {
	Text string `json:"text"`
}

type chatDone struct {
	Reply   string     `json:"reply"`
	Blocked bool       `json:"blocked"`
	Retried bool       `json:"retried"`
	History []chatTurn `json:"history"`
}

// ChatCmd creates the interactive chat command.
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the career assistant",
		Long: `Chat with the career assistant. With a message argument, sends a single
message and prints the reply. Without arguments, starts an interactive
session (exit with Ctrl-D or "exit").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)
			if len(args) == 1 {
				_, err := sendChatMessage(api, args[0], nil)
				return err
			}
			return runInteractiveChat(api)
		},
	}

	return cmd
}

func runInteractiveChat(api *APIClient) error {
	fmt.Println("Connected. Ask about career, skills, or experience (\"exit\" to quit).")

	var history []chatTurn
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			return nil
		}

		done, err := sendChatMessage(api, message, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		history = done.History
	}
}

// sendChatMessage posts one turn and renders the event stream as it
// arrives. Delta events carry the cumulative reply so far; only the
// unseen tail is printed. A shrinking partial means the server discarded
// the draft and started over, which is rendered as a fresh line.
func sendChatMessage(api *APIClient, message string, history []chatTurn) (*chatDone, error) {
	body, err := api.PostStream("/chat", chatRequest{Message: message, History: history})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var (
		done    *chatDone
		printed int
	)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 256*1024), 256*1024)

	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			switch event {
			case "delta":
				var delta chatDelta
				if err := json.Unmarshal([]byte(data), &delta); err != nil {
					continue
				}
				if len(delta.Text) < printed {
					fmt.Println()
					printed = 0
				}
				fmt.Print(delta.Text[printed:])
				printed = len(delta.Text)
			case "error":
				var delta chatDelta
				if err := json.Unmarshal([]byte(data), &delta); err != nil {
					continue
				}
				if printed > 0 {
					fmt.Println()
				}
				return nil, fmt.Errorf("%s", delta.Text)
			case "done":
				var d chatDone
				if err := json.Unmarshal([]byte(data), &d); err != nil {
					return nil, fmt.Errorf("failed to parse final event: %w", err)
				}
				done = &d
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read failed: %w", err)
	}
	if done == nil {
		return nil, fmt.Errorf("stream ended without a final event")
	}

	if printed == 0 {
		// Blocked turns stream no deltas; the reply arrives whole.
		fmt.Print(done.Reply)
	}
	fmt.Println()

	return done, nil
}
