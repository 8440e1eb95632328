// fpstool is a CLI tool to validate first-party set submissions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/mapset"
	"github.com/firstpartysets/list/tools/internal/checks"
	"github.com/firstpartysets/list/tools/internal/fps"
	"github.com/firstpartysets/list/tools/internal/github"
	"github.com/firstpartysets/list/tools/internal/icann"
	"github.com/firstpartysets/list/tools/internal/schema"
	"github.com/firstpartysets/list/tools/internal/webapi"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	root := &command.C{
		Name:  filepath.Base(os.Args[0]),
		Usage: "command [flags] ...\nhelp [command]",
		Help:  "A command-line tool to validate first-party set submissions.",
		Commands: []*command.C{
			{
				Name:  "validate",
				Usage: "<path or git commit hash>",
				Help: `Check a submission list.

Validation covers the submission's shape, set structure and site
format, and optionally the live checks that fetch from the submitted
sites themselves.

The argument can be either a local file, or a git commit hash to fetch
from the canonical list repository.`,
				SetFlags: command.Flags(flax.MustBind, &validateArgs),
				Run:      command.Adapt(runValidate),
			},
			{
				Name:  "check-pr",
				Usage: "<number>",
				Help: `Validate an open PR on GitHub.

The full submission list with the PR's changes applied is validated,
and live checks (if enabled) run only against the sets the PR touches.`,
				SetFlags: command.Flags(flax.MustBind, &checkPRArgs),
				Run:      command.Adapt(runCheckPR),
			},
			{
				Name: "debug",
				Commands: []*command.C{
					{
						Name:  "dump",
						Usage: "<path>",
						Help:  "Print the loaded set model of a submission list.",
						Run:   command.Adapt(runDebugDump),
					},
				},
			},

			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx).MergeFlags(true)
	command.RunOrFail(env, os.Args[1:])
}

var validateArgs struct {
	Owner   string `flag:"gh-owner,default=firstpartysets,Owner of the github repository to fetch hashes from"`
	Repo    string `flag:"gh-repo,default=list,Github repository to fetch hashes from"`
	PSLDat  string `flag:"psl-dat,default=effective_tld_names.dat,Path to the public suffix list dat file providing country-code suffixes"`
	Online  bool   `flag:"online-checks,Run validations that fetch from the submitted sites"`
	Output  string `flag:"o,Also write the findings to this file"`
	Verbose bool   `flag:"v,Enable verbose logging"`
}

func isHex(s string) bool {
	for _, r := range s {
		if !unicode.In(r, unicode.ASCII_Hex_Digit) {
			return false
		}
	}
	return true
}

func runValidate(env *command.Env, pathOrHash string) error {
	setupLogging(validateArgs.Verbose)

	var bs []byte
	var err error
	client := github.Client{
		Owner: validateArgs.Owner,
		Repo:  validateArgs.Repo,
	}
	if _, serr := os.Stat(pathOrHash); serr == nil {
		bs, err = os.ReadFile(pathOrHash)
	} else if isHex(pathOrHash) {
		bs, err = client.SubmissionForHash(env.Context(), pathOrHash)
	} else {
		return fmt.Errorf("failed to read submission %q, not a local file or a git commit hash", pathOrHash)
	}
	if err != nil {
		return fmt.Errorf("failed to read submission %q: %w", pathOrHash, err)
	}

	list, errs, err := loadSubmission(bs, validateArgs.PSLDat)
	if err != nil {
		return err
	}
	if validateArgs.Online {
		ctx, cancel := context.WithTimeout(env.Context(), 1200*time.Second)
		defer cancel()
		liveErrs, err := runOnline(ctx, list, nil)
		if err != nil {
			return err
		}
		errs = append(errs, liveErrs...)
	}
	return report(env, errs, validateArgs.Output, "submission")
}

var checkPRArgs struct {
	Owner   string `flag:"gh-owner,default=firstpartysets,Owner of the github repository to check"`
	Repo    string `flag:"gh-repo,default=list,Github repository to check"`
	PSLDat  string `flag:"psl-dat,default=effective_tld_names.dat,Path to the public suffix list dat file providing country-code suffixes"`
	Online  bool   `flag:"online-checks,Run validations that fetch from the submitted sites"`
	Output  string `flag:"o,Also write the findings to this file"`
	Verbose bool   `flag:"v,Enable verbose logging"`
}

func runCheckPR(env *command.Env, prStr string) error {
	setupLogging(checkPRArgs.Verbose)

	pr, err := strconv.Atoi(prStr)
	if err != nil {
		return fmt.Errorf("invalid PR number %q: %w", prStr, err)
	}

	client := github.Client{
		Owner: checkPRArgs.Owner,
		Repo:  checkPRArgs.Repo,
	}
	withoutPR, withPR, err := client.SubmissionForPullRequest(env.Context(), pr)
	if err != nil {
		return err
	}

	list, errs, err := loadSubmission(withPR, checkPRArgs.PSLDat)
	if err != nil {
		return err
	}

	// The base list is only used to work out which sets the PR
	// touches; its own problems are not this PR's problems.
	var before *fps.List
	if sub, err := fps.ParseSubmission(withoutPR); err == nil {
		before, _ = fps.LoadSets(sub)
	} else {
		before = &fps.List{Sets: map[string]*fps.Set{}}
	}
	changed := fps.ChangedPrimaries(before, list)
	if len(changed) == 0 {
		fmt.Fprintln(env, "No sets changed. This can happen if the PR only edits other files.")
	} else {
		fmt.Fprintln(env, "Checking the following changed sets:")
		for _, p := range changed {
			fmt.Fprintf(env, "  %s\n", p)
		}
	}

	if checkPRArgs.Online {
		ctx, cancel := context.WithTimeout(env.Context(), 300*time.Second)
		defer cancel()
		liveErrs, err := runOnline(ctx, list, mapset.New(changed...))
		if err != nil {
			return err
		}
		errs = append(errs, liveErrs...)
	}
	return report(env, errs, checkPRArgs.Output, "change")
}

func runDebugDump(env *command.Env, path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read submission: %w", err)
	}
	sub, err := fps.ParseSubmission(bs)
	if err != nil {
		return err
	}
	list, errs := fps.LoadSets(sub)
	return dumpModel(env, list, errs)
}

// dumpModel writes the load findings followed by the loaded set model
// in submission order.
func dumpModel(w io.Writer, list *fps.List, errs []error) error {
	for _, err := range errs {
		fmt.Fprintln(w, err)
	}
	out, err := json.MarshalIndent(list.All(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// loadSubmission takes a raw submission through the fail-fast stages
// (schema shape, JSON decoding, country-code data) and returns the
// loaded model together with the findings of the offline checks.
func loadSubmission(bs []byte, pslDat string) (*fps.List, []error, error) {
	if err := schema.Validate(bs); err != nil {
		return nil, nil, err
	}
	sub, err := fps.ParseSubmission(bs)
	if err != nil {
		return nil, nil, err
	}
	countryCodes, err := icann.LoadFile(pslDat)
	if err != nil {
		return nil, nil, fmt.Errorf("loading country-code suffixes: %w", err)
	}
	list, errs := fps.LoadSets(sub)
	errs = append(errs, checks.Offline(list, countryCodes)...)
	return list, errs, nil
}

func runOnline(ctx context.Context, list *fps.List, only mapset.Set[string]) ([]error, error) {
	cfg, err := webapi.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return checks.Online(ctx, webapi.New(cfg), list, only), nil
}

// report prints the findings, optionally writes them to a file, and
// returns the run's final error following the one-line-per-finding,
// error-count exit discipline.
func report(env *command.Env, errs []error, path, what string) error {
	var buf strings.Builder
	for _, err := range errs {
		fmt.Fprintln(env, err)
		fmt.Fprintln(&buf, err)
	}
	if path != "" {
		if err := atomic.WriteFile(path, strings.NewReader(buf.String())); err != nil {
			return fmt.Errorf("failed to write findings report: %w", err)
		}
	}
	if l := len(errs); l == 0 {
		fmt.Fprintf(env, "%s is valid\n", what)
		return nil
	} else if l == 1 {
		return fmt.Errorf("%s has 1 error", what)
	} else {
		return fmt.Errorf("%s has %d errors", what, l)
	}
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
