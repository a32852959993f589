package reqsifttest

import (
	"time"

	"github.com/reqsift/reqsift"
)

type RunOption func(*reqsift.Run)

func WithRunStatus(status reqsift.RunStatus) RunOption {
	return func(r *reqsift.Run) {
		r.Status = status
	}
}

func WithRunSource(source string) RunOption {
	return func(r *reqsift.Run) {
		r.Source = source
	}
}

func WithRunOutput(output string) RunOption {
	return func(r *reqsift.Run) {
		r.Output = output
	}
}

func WithRunCreated(created time.Time) RunOption {
	return func(r *reqsift.Run) {
		r.Created = created
	}
}

func WithRunPages(total, done int) RunOption {
	return func(r *reqsift.Run) {
		r.PagesTotal = total
		r.PagesDone = done
	}
}

func (g *DataGen) Run(options ...RunOption) *reqsift.Run {
	aRun := reqsift.Run{
		ID:      reqsift.NewRunID(),
		Source:  "/var/reqsift/storage/" + g.UUID() + ".pdf",
		Output:  "/var/reqsift/output/" + g.UUID() + ".pdf",
		Status:  reqsift.RunStatusRunning,
		Created: g.now,
		Updated: g.now,
	}

	for _, o := range options {
		o(&aRun)
	}

	return &aRun
}
