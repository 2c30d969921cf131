package autocommit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mrz1836/commitkit/internal/errors"
	"github.com/mrz1836/commitkit/internal/git"
	"github.com/mrz1836/commitkit/internal/oracle"
)

// fakeRepo is an in-memory git.Repository that records mutations.
type fakeRepo struct {
	status    string
	numstat   string
	diffs     map[string]string
	diffErr   map[string]error
	statusErr error
	resetErr  error
	addErr    map[int]error // keyed by 1-based Add call
	commitErr map[int]error // keyed by 1-based Commit call

	resets  int
	added   [][]string
	commits []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{diffs: map[string]string{}, diffErr: map[string]error{}, addErr: map[int]error{}, commitErr: map[int]error{}}
}

func (r *fakeRepo) StatusZ(context.Context) (string, error) { return r.status, r.statusErr }

func (r *fakeRepo) NumStat(context.Context, bool) (string, error) { return r.numstat, nil }

func (r *fakeRepo) DiffPath(_ context.Context, _ bool, paths ...string) (string, error) {
	if err := r.diffErr[paths[0]]; err != nil {
		return "", err
	}
	if d, ok := r.diffs[paths[0]]; ok {
		return d, nil
	}
	return "diff --git a/" + paths[0] + " b/" + paths[0] + "\n+change\n", nil
}

func (r *fakeRepo) HasHead(context.Context) (bool, error) { return true, nil }

func (r *fakeRepo) ResetIndex(context.Context) error {
	r.resets++
	return r.resetErr
}

func (r *fakeRepo) Add(_ context.Context, paths []string) error {
	r.added = append(r.added, append([]string(nil), paths...))
	return r.addErr[len(r.added)]
}

func (r *fakeRepo) Commit(_ context.Context, message string) error {
	if err := r.commitErr[len(r.commits)+1]; err != nil {
		r.commits = append(r.commits, "") // keep call count; message not recorded as made
		return err
	}
	r.commits = append(r.commits, message)
	return nil
}

func (r *fakeRepo) HeadShortHash(context.Context) (string, error) {
	return fmt.Sprintf("abc%04d", len(r.madeCommits())), nil
}

func (r *fakeRepo) madeCommits() []string {
	var made []string
	for _, c := range r.commits {
		if c != "" {
			made = append(made, c)
		}
	}
	return made
}

func (r *fakeRepo) mutations() int {
	return r.resets + len(r.added) + len(r.commits)
}

var _ git.Repository = (*fakeRepo)(nil)

// fakeOracle answers prompts from a script. Summary prompts are matched by
// the "File: <path>" line; grouping prompts get the grouping responses in order.
type fakeOracle struct {
	mu          sync.Mutex
	unavailable error
	summaries   map[string][]string // path -> responses per attempt
	summaryErr  map[string]error
	grouping    []string
	groupingErr error

	calls     int
	sessions  int
	prompts   []string
	available int
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{summaries: map[string][]string{}, summaryErr: map[string]error{}}
}

func (o *fakeOracle) Available(context.Context) error {
	o.available++
	return o.unavailable
}

func (o *fakeOracle) NewSession() oracle.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions++
	return &fakeSession{o: o}
}

type fakeSession struct {
	o *fakeOracle
}

func (s *fakeSession) Respond(ctx context.Context, prompt string) (string, error) {
	o := s.o
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.prompts = append(o.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.Contains(prompt, "splitting a set of changed files") {
		if o.groupingErr != nil {
			return "", o.groupingErr
		}
		if len(o.grouping) == 0 {
			return "", fmt.Errorf("%w: no scripted grouping", errors.ErrOracleInvocation)
		}
		resp := o.grouping[0]
		o.grouping = o.grouping[1:]
		return resp, nil
	}

	for p, err := range o.summaryErr {
		if strings.Contains(prompt, "File: "+p+"\n") {
			return "", err
		}
	}
	for p, responses := range o.summaries {
		if !strings.Contains(prompt, "File: "+p+"\n") {
			continue
		}
		if len(responses) == 0 {
			return "", fmt.Errorf("%w: script exhausted for %s", errors.ErrOracleInvocation, p)
		}
		o.summaries[p] = responses[1:]
		return responses[0], nil
	}
	return "", fmt.Errorf("%w: unexpected prompt", errors.ErrOracleInvocation)
}

func summaryJSON(summary, category, scope string) string {
	return fmt.Sprintf(`{"summary":%q,"category":%q,"scope":%q}`, summary, category, scope)
}

// statusZ builds porcelain -z output from "XY path" records.
func statusZ(records ...string) string {
	return strings.Join(records, "\x00") + "\x00"
}
