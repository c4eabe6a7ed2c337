package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/simbridge/internal/bridge/client"
)

const (
	defaultPipe   = "/tmp/fallout-cli-in"
	defaultOutput = "/tmp/fallout-cli-out.txt"

	pipeFlagName    = "pipe"
	outFlagName     = "out"
	timeoutFlagName = "timeout"

	replPrompt = "sim> "
)

// options holds the persistent flags.
type options struct {
	pipe    string
	out     string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return &client.Client{InputPipe: o.pipe, OutputPath: o.out, Timeout: o.timeout}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bridgectl [command...]",
		Short: "Send commands to a simbridge host",
		Long: `bridgectl writes one command line to the bridge pipe and prints the
response envelope once the host has rewritten the response file.
With no subcommand the arguments are joined and sent as one command.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return sendAndPrint(cmd.Context(), opts.client(), cmd.OutOrStdout(), args)
		},
	}
	root.PersistentFlags().StringVar(&opts.pipe, pipeFlagName, defaultPipe, "command pipe path")
	root.PersistentFlags().StringVar(&opts.out, outFlagName, defaultOutput, "response file path")
	root.PersistentFlags().DurationVar(&opts.timeout, timeoutFlagName, client.DefaultTimeout, "timeout for the pipe and for the response")

	root.AddCommand(newSendCommand(opts), newReplCommand(opts))
	return root
}

func newSendCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "send <command...>",
		Short:   "Send one command and print the response",
		Example: "  bridgectl send goto 100\n  bridgectl send say 1",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(cmd.Context(), opts.client(), cmd.OutOrStdout(), args)
		},
	}
}

func newReplCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read commands interactively and print each response body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				InterruptPrompt: "^C",
				EOFPrompt:       "",
			})
			if err != nil {
				return fmt.Errorf("create readline config: %w", err)
			}
			defer rl.Close()
			return repl(cmd.Context(), opts.client(), rl, cmd.OutOrStdout())
		},
	}
}

// lineReader is the part of readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
}

// repl sends every non-blank line until end of input or an interrupt.
// Failures are printed and the loop continues.
func repl(ctx context.Context, cl *client.Client, in lineReader, out io.Writer) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, err := cl.Send(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		status := "ok"
		if !resp.OK {
			status = "error"
		}
		fmt.Fprintf(out, "[%s]\n%s\n", status, resp.Body)
	}
}

// sendAndPrint joins args into one command, sends it and prints the raw
// response text.
func sendAndPrint(ctx context.Context, cl *client.Client, out io.Writer, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := cl.Send(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprint(out, resp.Raw)
	if !strings.HasSuffix(resp.Raw, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}
