package reqsifttest

import (
	"strings"
	"time"

	"github.com/reqsift/reqsift"
)

type RequirementOption func(*reqsift.Requirement)

func WithRequirementRunID(id reqsift.RunID) RequirementOption {
	return func(r *reqsift.Requirement) {
		r.RunID = id
	}
}

func WithRequirementPage(page int) RequirementOption {
	return func(r *reqsift.Requirement) {
		r.Page = page
	}
}

func WithRequirementContent(content string) RequirementOption {
	return func(r *reqsift.Requirement) {
		r.Content = content
		r.WordCount = len(strings.Fields(content))
	}
}

func WithRequirementKeywords(keywords ...string) RequirementOption {
	return func(r *reqsift.Requirement) {
		r.Keywords = keywords
	}
}

func WithRequirementCreated(created time.Time) RequirementOption {
	return func(r *reqsift.Requirement) {
		r.Created = created
	}
}

func (g *DataGen) Requirement(options ...RequirementOption) *reqsift.Requirement {
	content := "The " + g.Noun() + " shall " + g.VerbAction() + " the " + g.Noun() + " within " + g.Word() + " seconds."

	r := reqsift.Requirement{
		ID:        reqsift.NewRequirementID(),
		RunID:     reqsift.NewRunID(),
		Page:      g.Number(0, 50),
		Content:   content,
		Keywords:  []string{"shall"},
		WordCount: len(strings.Fields(content)),
		Created:   g.now,
	}

	for _, o := range options {
		o(&r)
	}

	return &r
}

type EventOption func(*reqsift.Event)

func WithEventRunID(id reqsift.RunID) EventOption {
	return func(e *reqsift.Event) {
		e.RunID = id
	}
}

func WithEventReason(reason reqsift.EventReason) EventOption {
	return func(e *reqsift.Event) {
		e.Reason = reason
	}
}

func WithEventPage(page int) EventOption {
	return func(e *reqsift.Event) {
		e.Page = page
	}
}

func WithEventCreated(created time.Time) EventOption {
	return func(e *reqsift.Event) {
		e.Created = created
	}
}

var eventReasons = []reqsift.EventReason{
	reqsift.ReasonTooLong,
	reqsift.ReasonOversizedHighlight,
	reqsift.ReasonUnlocatableText,
}

func (g *DataGen) Event(options ...EventOption) reqsift.Event {
	g.ShuffleAnySlice(eventReasons)

	e := reqsift.Event{
		RunID:   reqsift.NewRunID(),
		Page:    g.Number(0, 50),
		Reason:  eventReasons[0],
		Detail:  g.Sentence(8),
		Created: g.now,
	}

	for _, o := range options {
		o(&e)
	}

	return e
}
