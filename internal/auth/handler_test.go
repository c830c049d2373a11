package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Handler", func() {
	var (
		handler  *Handler
		rbac     *RBACAuthorization
		tokenGen *JWTTokenGenerator
		svc      *Service
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("access-secret", "refresh-secret", time.Minute, time.Hour)
		svc = NewService(newMockUserRepository(), tokenGen, bcrypt.MinCost)
		handler = NewHandler(svc)
		rbac = NewRBACAuthorization(NewPermissionChecker(), nil)
	})

	bearer := func(userID, email string) string {
		token, err := tokenGen.GenerateAccessToken(userID, email)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return "Bearer " + token
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body.Error.Code
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens for valid credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"hr@example.com","password":"correct_password"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var tokens AuthTokens
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 for a wrong password", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"hr@example.com","password":"nope"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(string(internal.ErrCodeInvalidCredentials)))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var seen *internal.User

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = internal.UserFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		ginkgo.BeforeEach(func() {
			seen = nil
		})

		ginkgo.It("should put the identity into the request context", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", bearer("3", "hr@example.com"))
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.ID).To(gomega.Equal(int64(3)))
			gomega.Expect(seen.IsHR()).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a missing token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("should reject a token for an unknown user", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", bearer("42", "ghost@example.com"))
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RBAC guards", func() {
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		serve := func(guard func(http.Handler) http.Handler, user *internal.User) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/permit-requests", nil)
			if user != nil {
				req = req.WithContext(internal.ContextWithUser(req.Context(), user))
			}
			rec := httptest.NewRecorder()
			guard(ok).ServeHTTP(rec, req)
			return rec
		}

		ginkgo.It("should let viewers list but not review", func() {
			viewer := &internal.User{ID: 5, Permissions: []string{internal.PermissionViewPermitRequests}}

			gomega.Expect(serve(rbac.RequireViewPermitRequests(), viewer).Code).To(gomega.Equal(http.StatusOK))

			rec := serve(rbac.RequireReviewPermitRequests(), viewer)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(errorCode(rec)).To(gomega.Equal(string(internal.ErrCodeUnauthorizedAccess)))
		})

		ginkgo.It("should reserve deletion for admins", func() {
			hr := &internal.User{ID: 3, Permissions: []string{internal.PermissionHR}}
			admin := &internal.User{ID: 2, Permissions: []string{internal.PermissionAdmin}}

			gomega.Expect(serve(rbac.RequireAdmin(), hr).Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(serve(rbac.RequireAdmin(), admin).Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should require an exact permission grant", func() {
			hr := &internal.User{ID: 3, Permissions: []string{internal.PermissionHR}}
			viewer := &internal.User{ID: 5, Permissions: []string{internal.PermissionViewPermitRequests}}
			guard := rbac.Middleware(internal.PermissionViewPermitRequests)

			gomega.Expect(serve(guard, viewer).Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(guard, hr).Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should return 401 without an identity", func() {
			gomega.Expect(serve(rbac.RequireViewPermitRequests(), nil).Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
