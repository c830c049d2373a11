package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/notification"
	"github.com/go-chi/chi"
)

var _ = Describe("Notification handler", func() {
	var (
		repo    *mockNotificationRepository
		service *notification.Service
		router  *chi.Mux
		current *internal.User
	)

	BeforeEach(func() {
		repo = newMockNotificationRepository()
		service = notification.NewService(repo, discardLogger(), 0)
		handler := notification.NewHandler(service)
		current = &internal.User{ID: 1}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if current != nil {
					r = r.WithContext(internal.ContextWithUser(r.Context(), current))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/notifications", handler.ListNotifications)
		router.Get("/notifications/unread-count", handler.UnreadCount)
		router.Get("/notifications/{id}", handler.GetNotification)
		router.Patch("/notifications/{id}/read", handler.MarkRead)
		router.Post("/notifications/read-all", handler.MarkAllRead)
	})

	seed := func(userID int64) *notification.Notification {
		n, err := service.Create(context.Background(), notification.CreateNotificationDTO{
			UserID: userID,
			Title:  "New Vehicle Permit Request",
			Type:   notification.TypePermitRequest,
		})
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	do := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("should list the current user's notifications with paging metadata", func() {
		seed(1)
		seed(2)

		rec := do(http.MethodGet, "/notifications?per_page=10")

		Expect(rec.Code).To(Equal(http.StatusOK))
		body := decode(rec)
		Expect(body["data"]).To(HaveLen(1))
		Expect(body["meta"]).To(HaveKeyWithValue("per_page", BeNumerically("==", 10)))
	})

	It("should report the unread count", func() {
		seed(1)
		seed(1)

		rec := do(http.MethodGet, "/notifications/unread-count")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)).To(HaveKeyWithValue("count", BeNumerically("==", 2)))
	})

	It("should return 404 for another user's notification", func() {
		n := seed(2)

		rec := do(http.MethodGet, "/notifications/"+itoa(n.ID))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should return 403 when marking another user's notification", func() {
		n := seed(2)

		rec := do(http.MethodPatch, "/notifications/"+itoa(n.ID)+"/read")

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		errBody := decode(rec)["error"].(map[string]interface{})
		Expect(errBody["code"]).To(Equal(string(internal.ErrCodeNotificationAccessDenied)))
	})

	It("should mark one and then all notifications read", func() {
		first := seed(1)
		seed(1)
		seed(1)

		rec := do(http.MethodPatch, "/notifications/"+itoa(first.ID)+"/read")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)).To(HaveKeyWithValue("read", true))

		rec = do(http.MethodPost, "/notifications/read-all")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)).To(HaveKeyWithValue("updated", BeNumerically("==", 2)))
	})

	It("should require authentication", func() {
		current = nil

		rec := do(http.MethodGet, "/notifications")

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
