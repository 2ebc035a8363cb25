package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	"github.com/tanpawarit/Chative-Customer-Service/api"
	"golang.org/x/term"
)

func askCmd() *cobra.Command {
	var customerID string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question, or start an interactive session",
		Long: `Runs an inquiry through the classifier and the selected agent, streaming
the answer to stdout. Without arguments on a terminal it starts an
interactive session; without a terminal the question is read from stdin.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			orch, err := buildOrchestrator(ctx, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return askOnce(ctx, orch, out, contractx.Inquiry{Message: strings.Join(args, " "), CustomerID: customerID})
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return askInteractive(ctx, orch, os.Stdin, out, customerID)
			}

			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return askOnce(ctx, orch, out, contractx.Inquiry{Message: string(raw), CustomerID: customerID})
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id attached to the inquiry")
	return cmd
}

func askOnce(ctx context.Context, orch api.InquiryService, out io.Writer, inq contractx.Inquiry) error {
	sr, err := orch.ProcessStream(ctx, inq)
	if err != nil {
		return err
	}
	defer sr.Close()

	for {
		fragment, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintln(out)
			return err
		}
		fmt.Fprint(out, fragment)
	}
	fmt.Fprintln(out)
	return nil
}

func askInteractive(ctx context.Context, orch api.InquiryService, in io.Reader, out io.Writer, customerID string) error {
	fmt.Fprintln(out, "Customer service assistant. Type 'exit' to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		fmt.Fprint(out, "Agent: ")
		if err := askOnce(ctx, orch, out, contractx.Inquiry{Message: line, CustomerID: customerID}); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
