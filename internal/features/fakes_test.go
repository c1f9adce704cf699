package features

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xonecas/gtatools/internal/firewall"
	"github.com/xonecas/gtatools/internal/sysinfo"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeProcess struct {
	pid       int32
	name      string
	exe       string
	killed    int
	suspended int
	resumed   int
	failKill  error
	failSusp  error
}

func (p *fakeProcess) PID() int32   { return p.pid }
func (p *fakeProcess) Name() string { return p.name }
func (p *fakeProcess) Exe() string  { return p.exe }

func (p *fakeProcess) Kill() error {
	if p.failKill != nil {
		return p.failKill
	}
	p.killed++
	return nil
}

func (p *fakeProcess) Suspend() error {
	if p.failSusp != nil {
		return p.failSusp
	}
	p.suspended++
	return nil
}

func (p *fakeProcess) Resume() error {
	p.resumed++
	return nil
}

type fakeTable struct {
	procs []*fakeProcess
	err   error
}

func gameTable() (*fakeTable, *fakeProcess) {
	p := &fakeProcess{pid: 42, name: "GTA5_Enhanced.exe", exe: `C:\Games\GTA5_Enhanced.exe`}
	return &fakeTable{procs: []*fakeProcess{p}}, p
}

func (t *fakeTable) Find(ctx context.Context, names ...string) (sysinfo.Process, error) {
	all, err := t.FindAll(ctx, names...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (t *fakeTable) FindAll(_ context.Context, names ...string) ([]sysinfo.Process, error) {
	if t.err != nil {
		return nil, t.err
	}
	var found []sysinfo.Process
	for _, p := range t.procs {
		for _, n := range names {
			if strings.EqualFold(p.name, n) {
				found = append(found, p)
				break
			}
		}
	}
	return found, nil
}

type fakeFirewall struct {
	rules   []firewall.Rule
	failAdd error
	adds    int
	removes int
}

func (f *fakeFirewall) Add(_ context.Context, r firewall.Rule) error {
	f.adds++
	if f.failAdd != nil {
		return f.failAdd
	}
	f.rules = append(f.rules, r)
	return nil
}

func (f *fakeFirewall) Remove(_ context.Context, name string) error {
	f.removes++
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	f.rules = kept
	return nil
}

func (f *fakeFirewall) Exists(_ context.Context, name string) (bool, error) {
	return f.count(name) > 0, nil
}

func (f *fakeFirewall) count(name string) int {
	n := 0
	for _, r := range f.rules {
		if r.Name == name {
			n++
		}
	}
	return n
}

type fakeDesktop struct {
	focused bool
	cursor  bool
	held    bool
	sent    int
	sendErr error
}

func (d *fakeDesktop) IsWindowFocused(string) bool   { return d.focused }
func (d *fakeDesktop) IsCursorVisible() bool         { return d.cursor }
func (d *fakeDesktop) IsAnyKeyPressed(...uint8) bool { return d.held }

func (d *fakeDesktop) SendKeys(...uint8) error {
	if d.sendErr != nil {
		return d.sendErr
	}
	d.sent++
	return nil
}

type record struct {
	name   string
	target string
	ok     bool
}

type fakeJournal struct {
	records []record
}

func (j *fakeJournal) Record(name, target string, err error) {
	j.records = append(j.records, record{name: name, target: target, ok: err == nil})
}

func (j *fakeJournal) names() []string {
	out := make([]string, len(j.records))
	for i, r := range j.records {
		out[i] = r.name
	}
	return out
}

var errBoom = errors.New("boom")
