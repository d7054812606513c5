package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"qbank/internal/app"
	"qbank/internal/domain"
	"qbank/internal/export"
	"qbank/internal/session"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [document]",
		Short: "Start an interactive session, optionally loading a document first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if key, _ := cmd.Flags().GetString("api-key"); key != "" {
				cfg.LLM.APIKey = key
			}

			components, err := app.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer components.Close()

			s := session.New(uuid.NewString(), components.Deps)
			defer s.Close()
			if cfg.LLM.APIKey != "" {
				if err := s.SetCredential(cfg.LLM.APIKey); err != nil {
					return err
				}
			}

			r := newREPL(s, cmd.InOrStdin(), cmd.OutOrStdout())
			if len(args) == 1 {
				r.load(cmd.Context(), args[0])
			}
			return r.run(cmd.Context())
		},
	}
	cmd.Flags().String("api-key", "", "Model API key for this session (overrides LLM_API_KEY)")
	return cmd
}

const chatHelp = `Commands:
  /load <path>                 load a document
  /key <api key>               set the model API key
  /settings <difficulty> <type>  e.g. /settings hard true-false
  /questions                   list the question bank
  /remove <id>                 remove one question
  /clear                       empty the question bank
  /export [path]               write the bank as JSON
  /quit                        leave
Anything else is sent to the model.`

type repl struct {
	s        *session.Session
	in       *bufio.Scanner
	out      io.Writer
	renderer export.Renderer
	// seen counts transcript entries already printed.
	seen int
}

func newREPL(s *session.Session, in io.Reader, out io.Writer) *repl {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &repl{s: s, in: sc, out: out, renderer: export.JSONRenderer{}}
}

func (r *repl) run(ctx context.Context) error {
	r.printNew()
	fmt.Fprintln(r.out, "Type /help for commands.")
	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			r.send(ctx, line)
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(r.out, chatHelp)
		case "/load":
			r.load(ctx, arg)
		case "/key":
			if r.report(r.s.SetCredential(arg)) {
				fmt.Fprintln(r.out, "API key set.")
			}
		case "/settings":
			r.settings(arg)
		case "/questions":
			r.listQuestions()
		case "/remove":
			removed, err := r.s.RemoveQuestion(arg)
			if r.report(err) && !removed {
				fmt.Fprintf(r.out, "No question %q.\n", arg)
			}
		case "/clear":
			r.report(r.s.ClearQuestions())
		case "/export":
			r.export(arg)
		default:
			fmt.Fprintf(r.out, "Unknown command %s. Type /help.\n", name)
		}
	}
}

// report prints err and returns whether the operation succeeded.
func (r *repl) report(err error) bool {
	if err == nil {
		return true
	}
	fmt.Fprintf(r.out, "! %v\n", err)
	return false
}

// printNew prints transcript entries added since the last call.
func (r *repl) printNew() {
	snap, err := r.s.Snapshot()
	if !r.report(err) {
		return
	}
	for _, m := range snap.Messages[min(r.seen, len(snap.Messages)):] {
		switch m.Role {
		case domain.RoleUser:
			// already on screen
		case domain.RoleModel:
			fmt.Fprintf(r.out, "model: %s\n", m.Content)
		default:
			fmt.Fprintf(r.out, "* %s\n", m.Content)
		}
	}
	r.seen = len(snap.Messages)
}

func (r *repl) load(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(r.out, "Usage: /load <path>")
		return
	}
	data, err := os.ReadFile(path)
	if !r.report(err) {
		return
	}
	fmt.Fprintf(r.out, "Extracting %s...\n", filepath.Base(path))
	results, err := r.s.LoadDocument(ctx, domain.UploadedFile{Name: filepath.Base(path), Data: data})
	if !r.report(err) {
		return
	}
	<-results
	r.printNew()
}

func (r *repl) send(ctx context.Context, utterance string) {
	results, err := r.s.SendTurn(ctx, utterance)
	if !r.report(err) {
		return
	}
	start := time.Now()
	res := <-results
	r.printNew()
	if len(res.Questions) > 0 {
		printQuestions(r.out, res.Questions)
	}
	if res.Err == nil {
		fmt.Fprintf(r.out, "(%s)\n", time.Since(start).Round(100*time.Millisecond))
	}
}

func (r *repl) settings(arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		snap, err := r.s.Snapshot()
		if r.report(err) {
			fmt.Fprintf(r.out, "Current settings: %s\n", snap.Settings)
		}
		fmt.Fprintln(r.out, "Usage: /settings <easy|medium|hard> <mixed|multiple-choice|true-false>")
		return
	}
	settings := domain.GenerationSettings{
		Difficulty:   domain.Difficulty(fields[0]),
		QuestionType: domain.QuestionType(fields[1]),
	}
	if r.report(r.s.UpdateSettings(settings)) {
		fmt.Fprintf(r.out, "Settings: %s\n", settings)
	}
}

func (r *repl) listQuestions() {
	snap, err := r.s.Snapshot()
	if !r.report(err) {
		return
	}
	if len(snap.Questions) == 0 {
		fmt.Fprintln(r.out, "The question bank is empty.")
		return
	}
	printQuestions(r.out, snap.Questions)
}

func (r *repl) export(path string) {
	payload, err := r.s.Export()
	if !r.report(err) {
		return
	}
	if path == "" {
		path = r.renderer.FileName(payload)
	}
	var buf bytes.Buffer
	if !r.report(r.renderer.Render(&buf, payload)) {
		return
	}
	// WriteFile reports the close error too.
	if r.report(os.WriteFile(path, buf.Bytes(), 0o644)) {
		fmt.Fprintf(r.out, "Exported %d questions to %s\n", len(payload.Questions), path)
	}
}

func printQuestions(w io.Writer, qs []domain.Question) {
	for _, q := range qs {
		fmt.Fprintf(w, "[%s] %s\n", q.ID, q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(w, "    %c) %s\n", 'A'+i, opt)
		}
		fmt.Fprintf(w, "    answer: %s\n", q.AnswerKey)
	}
}
