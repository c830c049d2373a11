package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/vehicle-permit/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	submitted := func() events.Event {
		return events.NewPermitRequestSubmittedEvent(10, 3, "Ann", "Ops", "car")
	}

	It("delivers an event to every subscriber in order", func() {
		var calls []string
		bus.Subscribe(events.EventTypePermitRequestSubmitted, func(_ context.Context, e events.Event) error {
			calls = append(calls, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypePermitRequestSubmitted, func(_ context.Context, _ events.Event) error {
			calls = append(calls, "second")
			return nil
		})

		Expect(bus.Publish(context.Background(), submitted())).To(Succeed())
		Expect(calls).To(Equal([]string{"first:" + events.EventTypePermitRequestSubmitted, "second"}))
		Expect(bus.HandlerCount(events.EventTypePermitRequestSubmitted)).To(Equal(2))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), submitted())).To(Succeed())
	})

	It("keeps running handlers after one fails and joins the errors", func() {
		errA := errors.New("a failed")
		errB := errors.New("b failed")
		ran := 0
		for _, err := range []error{errA, nil, errB} {
			err := err
			bus.Subscribe(events.EventTypePermitRequestSubmitted, func(context.Context, events.Event) error {
				ran++
				return err
			})
		}

		err := bus.Publish(context.Background(), submitted())
		Expect(ran).To(Equal(3))
		Expect(err).To(MatchError(errA))
		Expect(err).To(MatchError(errB))
	})

	It("does not route events to other types", func() {
		called := false
		bus.Subscribe(events.EventTypePermitRequestReviewed, func(context.Context, events.Event) error {
			called = true
			return nil
		})
		Expect(bus.Publish(context.Background(), submitted())).To(Succeed())
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("permit request events", func() {
	It("carries the submission fields in the payload", func() {
		e := events.NewPermitRequestSubmittedEvent(10, 3, "Ann", "Ops", "car")
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).NotTo(BeZero())
		Expect(e.Payload()).To(HaveKeyWithValue("permit_request_id", int64(10)))
		Expect(e.Payload()).To(HaveKeyWithValue("employee_name", "Ann"))
	})

	It("carries the decision on review", func() {
		notes := "ok"
		e := events.NewPermitRequestReviewedEvent(10, 3, "approved", &notes, 7)
		Expect(e.EventType()).To(Equal(events.EventTypePermitRequestReviewed))
		Expect(*e.Notes).To(Equal("ok"))
		Expect(e.Payload()).To(HaveKeyWithValue("reviewed_by", int64(7)))
	})
})
