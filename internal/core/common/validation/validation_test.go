package validation_test

import (
	"strings"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fieldErrors(appErr *internal.AppError) []internal.ValidationError {
	Expect(appErr).NotTo(BeNil())
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("collects every failing field", func() {
		v := validation.NewValidator()
		v.Field("title", "").Required()
		v.Field("type", strings.Repeat("x", 51)).MaxLength(50)
		v.Field("user_id", int64(7)).Required()

		errs := fieldErrors(v.Validate())
		Expect(errs).To(HaveLen(2))
		Expect(errs[0].Field).To(Equal("title"))
		Expect(errs[1].Field).To(Equal("type"))
	})

	It("returns nil when every field passes", func() {
		v := validation.NewValidator()
		v.Field("title", "hello").Required().MaxLength(10)
		Expect(v.Validate()).To(BeNil())
	})

	It("treats nil and zero values as missing", func() {
		var missing *string
		v := validation.NewValidator()
		v.Field("notes", missing).Required()
		v.Field("at", time.Time{}).Required()
		v.Field("id", int64(0)).Required()
		Expect(fieldErrors(v.Validate())).To(HaveLen(3))
	})
})

var _ = Describe("ValidatePermitRequestFields", func() {
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	It("accepts a complete request", func() {
		Expect(validation.ValidatePermitRequestFields("E-001", start, start.Add(time.Hour), "car", "B 1234 CD")).To(BeNil())
	})

	It("reports each missing field", func() {
		errs := fieldErrors(validation.ValidatePermitRequestFields("", time.Time{}, time.Time{}, "", ""))
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		Expect(fields).To(ConsistOf("employee_id", "start_datetime", "end_datetime", "vehicle_type", "license_plate"))
	})

	It("limits the license plate length", func() {
		errs := fieldErrors(validation.ValidatePermitRequestFields("E-001", start, start, "car", strings.Repeat("9", 21)))
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("license_plate"))
	})
})

var _ = Describe("ValidatePermitPeriod", func() {
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	It("allows an end equal to the start", func() {
		Expect(validation.ValidatePermitPeriod(start, start)).To(BeNil())
	})

	It("rejects an end before the start with INVALID_DATE", func() {
		errs := fieldErrors(validation.ValidatePermitPeriod(start, start.Add(-time.Minute)))
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("end_datetime"))
		Expect(errs[0].Code).To(Equal(string(internal.ErrCodeInvalidDate)))
	})
})

var _ = Describe("ValidateDecision", func() {
	It("accepts an allowed status", func() {
		Expect(validation.ValidateDecision("approved", "approved", "rejected")).To(BeNil())
	})

	It("rejects other statuses with INVALID_DECISION", func() {
		appErr := validation.ValidateDecision("pending", "approved", "rejected")
		Expect(appErr.StatusCode).To(Equal(400))
		errs := fieldErrors(appErr)
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Code).To(Equal(string(internal.ErrCodeInvalidDecision)))
	})
})
