package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/bertml/pipeline"
)

// sender is one side of a conversation.
type sender interface {
	Send(message string) (string, error)
}

func newChatCmd(e *env) *cobra.Command {
	var (
		loop  string
		turns int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the conversation model",
		Long: "Chat with the conversation model configured under llama.model_path.\n" +
			"With --loop, two conversations answer each other starting from the given text.",
		Example: "  bertml chat -c bertml.yaml\n  bertml chat -c bertml.yaml --loop \"Hello there\" --turns 5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.newAdapters()
			if err != nil {
				return err
			}
			defer a.Bridge.Close()

			client := pipeline.NewClient(a)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Loading conversation model...")
			model, err := client.CreateConversationModel()
			if err != nil {
				return err
			}
			mgr, err := client.CreateConversationManager()
			if err != nil {
				return err
			}

			if loop != "" {
				left, err := client.OpenChat(model, mgr)
				if err != nil {
					return err
				}
				right, err := client.OpenChat(model, mgr)
				if err != nil {
					return err
				}
				return chatLoop(out, left, right, loop, turns)
			}

			convo, err := client.OpenChat(model, mgr, pipeline.WithHistory())
			if err != nil {
				return err
			}
			if !plain && isInteractive() {
				return runChatTUI(convo)
			}
			return chatLines(cmd.InOrStdin(), out, convo)
		},
	}

	cmd.Flags().StringVar(&loop, "loop", "", "Let two conversations talk, starting from this text")
	cmd.Flags().IntVar(&turns, "turns", 10, "Exchanges to run in --loop mode (0 runs until interrupted)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Read lines from stdin instead of starting the terminal UI")
	return cmd
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// chatLines reads one message per line until EOF or "exit".
func chatLines(in io.Reader, out io.Writer, convo sender) error {
	fmt.Fprintln(out, "Chat started! Type 'exit' to exit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n > ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		reply, err := convo.Send(line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, " < %s\n", reply)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nAlright, bye! Thanks for chatting!")
	return nil
}

// chatLoop feeds each conversation's reply to the other, starting with
// initial sent to right.
func chatLoop(out io.Writer, left, right sender, initial string, turns int) error {
	fmt.Fprintf(out, "> %s\n", initial)
	msg := initial
	for i := 0; turns <= 0 || i < turns; i++ {
		reply, err := right.Send(msg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "< %s\n\n", reply)

		msg, err = left.Send(reply)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "> %s\n", msg)
	}
	return nil
}
