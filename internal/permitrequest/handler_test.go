package permitrequest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	"github.com/frahmantamala/vehicle-permit/internal/permitrequest"
	"github.com/go-chi/chi"
)

type stubService struct {
	listFilter permitrequest.ListFilter
	listPage   pagination.Params
	created    *permitrequest.CreatePermitRequestDTO
	decidedBy  *internal.User
	decision   permitrequest.ReviewPermitRequestDTO
	deletedID  int64
	err        error
}

func (s *stubService) List(ctx context.Context, filter permitrequest.ListFilter, page pagination.Params) (*permitrequest.ListResult, error) {
	s.listFilter = filter
	s.listPage = page
	if s.err != nil {
		return nil, s.err
	}
	return &permitrequest.ListResult{
		Requests:    pagination.NewPage([]*permitrequest.PermitRequest{}, pagination.New(page.Page, page.PerPage, 15), 0),
		Departments: []string{"Ops"},
		Filters:     filter,
	}, nil
}

func (s *stubService) Create(ctx context.Context, dto permitrequest.CreatePermitRequestDTO) (*permitrequest.PermitRequest, error) {
	s.created = &dto
	if s.err != nil {
		return nil, s.err
	}
	return &permitrequest.PermitRequest{ID: 1, Status: permitrequest.StatusPending, VehicleType: dto.VehicleType}, nil
}

func (s *stubService) Show(ctx context.Context, id int64) (*permitrequest.PermitRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &permitrequest.PermitRequest{ID: id}, nil
}

func (s *stubService) Decide(ctx context.Context, id int64, dto permitrequest.ReviewPermitRequestDTO, reviewer *internal.User) (*permitrequest.PermitRequest, error) {
	s.decidedBy = reviewer
	s.decision = dto
	if s.err != nil {
		return nil, s.err
	}
	return &permitrequest.PermitRequest{ID: id, Status: dto.Status}, nil
}

func (s *stubService) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

var _ = Describe("Permit request handler", func() {
	var (
		stub   *stubService
		router *chi.Mux
		hr     *internal.User
	)

	BeforeEach(func() {
		stub = &stubService{}
		handler := permitrequest.NewHandler(stub)
		hr = &internal.User{ID: 7, Permissions: []string{internal.PermissionHR}}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), hr)))
			})
		})
		router.Get("/permit-requests", handler.ListPermitRequests)
		router.Post("/permit-requests", handler.CreatePermitRequest)
		router.Get("/permit-requests/{id}", handler.GetPermitRequest)
		router.Patch("/permit-requests/{id}/status", handler.ReviewPermitRequest)
		router.Delete("/permit-requests/{id}", handler.DeletePermitRequest)
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Details struct {
					Errors []internal.ValidationError `json:"errors"`
				} `json:"details"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		if len(body.Error.Details.Errors) > 0 {
			return body.Error.Details.Errors[0].Code
		}
		return body.Error.Code
	}

	Describe("GET /permit-requests", func() {
		It("should pass filters and paging through", func() {
			rec := do(http.MethodGet, "/permit-requests?search=ann&department=Ops&status=pending&date_from=2025-03-01&page=2&per_page=5", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.listFilter.Search).To(Equal("ann"))
			Expect(stub.listFilter.Department).To(Equal("Ops"))
			Expect(stub.listFilter.Status).To(Equal("pending"))
			Expect(stub.listFilter.DateFrom).NotTo(BeNil())
			Expect(stub.listFilter.DateTo).To(BeNil())
			Expect(stub.listPage).To(Equal(pagination.Params{Page: 2, PerPage: 5}))

			var body map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKey("requests"))
			Expect(body["departments"]).To(ConsistOf("Ops"))
		})

		It("should reject a malformed date filter", func() {
			rec := do(http.MethodGet, "/permit-requests?date_to=yesterday", "")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidDate)))
		})
	})

	Describe("POST /permit-requests", func() {
		It("should create a request", func() {
			rec := do(http.MethodPost, "/permit-requests", `{
				"employee_id": "E-001",
				"start_datetime": "2025-03-01T08:00:00Z",
				"end_datetime": "2025-03-01T12:00:00Z",
				"vehicle_type": "Car",
				"license_plate": "B 1234 XYZ"
			}`)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(stub.created.EmployeeID).To(Equal("E-001"))
		})

		It("should reject an end before the start before calling the service", func() {
			rec := do(http.MethodPost, "/permit-requests", `{
				"employee_id": "E-001",
				"start_datetime": "2025-03-01T12:00:00Z",
				"end_datetime": "2025-03-01T08:00:00Z",
				"vehicle_type": "Car",
				"license_plate": "B 1234 XYZ"
			}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidDate)))
			Expect(stub.created).To(BeNil())
		})

		It("should reject a malformed body", func() {
			rec := do(http.MethodPost, "/permit-requests", `{"employee_id":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map not found from the service", func() {
			stub.err = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)

			rec := do(http.MethodPost, "/permit-requests", `{
				"employee_id": "E-404",
				"start_datetime": "2025-03-01T08:00:00Z",
				"end_datetime": "2025-03-01T12:00:00Z",
				"vehicle_type": "Car",
				"license_plate": "B 1"
			}`)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeEmployeeNotFound)))
		})
	})

	Describe("GET /permit-requests/{id}", func() {
		It("should reject a non-numeric id", func() {
			rec := do(http.MethodGet, "/permit-requests/abc", "")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidID)))
		})

		It("should return 404 when the request is missing", func() {
			stub.err = permitrequest.ErrPermitRequestNotFound

			rec := do(http.MethodGet, "/permit-requests/9", "")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodePermitRequestNotFound)))
		})
	})

	Describe("PATCH /permit-requests/{id}/status", func() {
		It("should pass the authenticated reviewer explicitly", func() {
			rec := do(http.MethodPatch, "/permit-requests/3/status", `{"status":"approved","notes":"ok"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.decidedBy).To(Equal(hr))
			Expect(stub.decision.Status).To(Equal("approved"))
			Expect(*stub.decision.Notes).To(Equal("ok"))
		})

		It("should render a forbidden decision", func() {
			stub.err = permitrequest.ErrReviewerNotAuthorized

			rec := do(http.MethodPatch, "/permit-requests/3/status", `{"status":"approved"}`)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("DELETE /permit-requests/{id}", func() {
		It("should respond with no content", func() {
			rec := do(http.MethodDelete, "/permit-requests/4", "")

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(stub.deletedID).To(Equal(int64(4)))
		})
	})
})
