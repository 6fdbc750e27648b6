package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"goconpty"
)

func newRunCmd() *cobra.Command {
	var (
		width      int
		height     int
		stripInput bool
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Launch a console program in a pseudo-console and drive it interactively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			s := conpty.NewSize(width, height)
			if !s.IsInitialized() {
				return fmt.Errorf("pseudo-console init failed: %v", s.LastError())
			}

			if !s.Run(command, stripInput, -1, 0, 0, 0) {
				return fmt.Errorf("run failed: %v", s.LastError())
			}
			defer s.Close()

			return replLoop(s, raw)
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "pseudo-console width")
	cmd.Flags().IntVar(&height, "height", 24, "pseudo-console height")
	cmd.Flags().BoolVar(&stripInput, "stripinput", false, "suppress echoed input from read output")
	cmd.Flags().BoolVar(&raw, "raw", false, "print read output without filtering stray ESC bytes on a non-terminal stdout (read output is still VT-stripped and trimmed)")
	return cmd
}

// replLoop drives one session from stdin using a tiny line-oriented
// command set: "read", "write <text>", "resize <w> <h>", "kill", "exit".
// Captured output is printed unfiltered when this process's own stdout is
// a terminal (per go-isatty) or --raw was given; this governs
// display of captured bytes, not the pseudo-console's own mode.
func replLoop(s *conpty.Session, raw bool) error {
	ansiOK := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("goconpty interactive session; commands: read, write <text>, resize <w> <h>, kill, exit")
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "read":
			out, ok := s.GetOutput()
			if !ok {
				fmt.Fprintf(os.Stderr, "read failed: %v\n", s.LastError())
				continue
			}
			if ansiOK || raw {
				fmt.Println(out)
			} else {
				fmt.Println(stripForPlainTerminal(out))
			}
		case "write":
			text := strings.TrimPrefix(line, "write ")
			if !s.WriteLine(text, -1, 0, true) {
				fmt.Fprintf(os.Stderr, "write failed: %v\n", s.LastError())
			}
		case "resize":
			if len(fields) != 3 {
				fmt.Fprintln(os.Stderr, "usage: resize <width> <height>")
				continue
			}
			w, errW := strconv.Atoi(fields[1])
			h, errH := strconv.Atoi(fields[2])
			if errW != nil || errH != nil {
				fmt.Fprintln(os.Stderr, "resize: width/height must be integers")
				continue
			}
			if !s.Resize(w, h) {
				fmt.Fprintf(os.Stderr, "resize failed: %v\n", s.LastError())
			}
		case "kill":
			s.Kill()
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", fields[0])
		}

		if s.ProcessEnded() {
			fmt.Println("child process has ended")
		}
	}
	return scanner.Err()
}

func stripForPlainTerminal(s string) string {
	// Output already arrives VT-stripped from GetOutput, with or without
	// --raw; this is just a final guard against a stray escape byte
	// reaching a dumb terminal.
	var b strings.Builder
	for _, r := range s {
		if r == '\x1b' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
