package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func testConfig(env string) *internal.Config {
	cfg := &internal.Config{}
	cfg.App.Env = env
	cfg.Security.BCryptCost = 4
	cfg.Security.JWTSecret = "test-secret-that-is-long-enough-for-prod"
	cfg.Observability.Metrics.Enabled = true
	cfg.ApplyDefaults()
	return cfg
}

func newTestDependencies(env string) *Dependencies {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := openStore(internal.StoreConfig{Driver: "memory"}, lg)
	Expect(err).NotTo(HaveOccurred())

	deps, err := buildDependencies(testConfig(env), store, lg)
	Expect(err).NotTo(HaveOccurred())

	s := &seeder{
		employees: deps.Store.Employees,
		accounts:  deps.Auth,
		rng:       rand.New(rand.NewPCG(1, 2)),
		now:       time.Now,
		logger:    lg,
	}
	Expect(s.run(context.Background())).To(Succeed())
	return deps
}

func doGraphQL(router http.Handler, token, query string, variables map[string]interface{}) gqlResponse {
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	Expect(rec.Code).To(Equal(http.StatusOK))

	var resp gqlResponse
	Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

const loginMutation = `mutation($email: String!, $password: String!) {
  login(input: {email: $email, password: $password}) { token user { email role employeeId } }
}`

func login(router http.Handler, email, password string) string {
	resp := doGraphQL(router, "", loginMutation, map[string]interface{}{"email": email, "password": password})
	Expect(resp.Errors).To(BeEmpty())

	var payload struct {
		Login struct {
			Token string `json:"token"`
		} `json:"login"`
	}
	raw, _ := json.Marshal(resp.Data)
	Expect(json.Unmarshal(raw, &payload)).To(Succeed())
	Expect(payload.Login.Token).NotTo(BeEmpty())
	return payload.Login.Token
}

func errorCode(resp gqlResponse) string {
	Expect(resp.Errors).NotTo(BeEmpty())
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

var _ = Describe("Seeder", func() {
	It("should seed ten employees with linked logins", func() {
		deps := newTestDependencies(internal.EnvDevelopment)
		ctx := context.Background()

		employees, err := deps.Store.Employees.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(employees).To(HaveLen(10))
		Expect(employees[0].EmployeeID).To(Equal("EMP0001"))
		Expect(employees[9].EmployeeID).To(Equal("EMP0010"))

		for _, e := range employees {
			Expect(e.AttendancePercent()).To(BeNumerically(">=", 80))
			Expect(e.AttendancePercent()).To(BeNumerically("<", 100))
			Expect(e.HireDate).To(BeTemporally(">", time.Now().AddDate(-3, 0, -1)))
			Expect(e.IsActive).To(BeTrue())
		}

		users, err := deps.Store.Users.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(11))
		Expect(users[0].Email).To(Equal(seedAdminEmail))
		Expect(users[0].EmployeeID).To(BeNil())
		Expect(*users[1].EmployeeID).To(Equal(employees[0].ID))
	})

	It("should produce the same sample data on every run", func() {
		attendance := func() []string {
			lg := slog.New(slog.NewTextHandler(io.Discard, nil))
			store, err := openStore(internal.StoreConfig{Driver: "memory"}, lg)
			Expect(err).NotTo(HaveOccurred())
			deps, err := buildDependencies(testConfig(internal.EnvDevelopment), store, lg)
			Expect(err).NotTo(HaveOccurred())
			Expect(seedDirectory(context.Background(), deps, lg)).To(Succeed())

			employees, err := deps.Store.Employees.List(context.Background())
			Expect(err).NotTo(HaveOccurred())
			values := make([]string, 0, len(employees))
			for _, e := range employees {
				values = append(values, e.EmployeeID+"="+e.Attendance)
			}
			return values
		}

		first := attendance()
		Expect(first).To(HaveLen(10))
		Expect(attendance()).To(Equal(first))
	})

	It("should leave existing records alone when run again", func() {
		deps := newTestDependencies(internal.EnvDevelopment)
		Expect(seedDirectory(context.Background(), deps, deps.Logger)).To(Succeed())

		employees, _ := deps.Store.Employees.List(context.Background())
		users, _ := deps.Store.Users.List(context.Background())
		Expect(employees).To(HaveLen(10))
		Expect(users).To(HaveLen(11))
	})
})

var _ = Describe("HTTP server", func() {
	var deps *Dependencies

	BeforeEach(func() {
		deps = newTestDependencies(internal.EnvDevelopment)
	})

	AfterEach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(deps.Bus.Wait(ctx)).To(Succeed())
	})

	Describe("authentication", func() {
		It("should log the admin in", func() {
			resp := doGraphQL(deps.Router, "", loginMutation, map[string]interface{}{
				"email": seedAdminEmail, "password": seedAdminPassword,
			})
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["login"])).To(ContainSubstring(`"role":"ADMIN"`))
			Expect(string(resp.Data["login"])).NotTo(ContainSubstring("password"))
		})

		It("should give the same error for a wrong password and an unknown email", func() {
			wrong := doGraphQL(deps.Router, "", loginMutation, map[string]interface{}{
				"email": seedAdminEmail, "password": "wrong-password",
			})
			unknown := doGraphQL(deps.Router, "", loginMutation, map[string]interface{}{
				"email": "nobody@company.com", "password": "wrong-password",
			})

			Expect(errorCode(wrong)).To(Equal("UNAUTHENTICATED"))
			Expect(errorCode(unknown)).To(Equal("UNAUTHENTICATED"))
			Expect(wrong.Errors[0].Message).To(Equal(unknown.Errors[0].Message))
		})

		It("should return null for me when anonymous", func() {
			resp := doGraphQL(deps.Router, "", `{ me { id } }`, nil)
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["me"])).To(Equal("null"))
		})

		It("should resolve the linked employee on me", func() {
			token := login(deps.Router, "john.smith@company.com", seedEmployeePassword)
			resp := doGraphQL(deps.Router, token, `{ me { email role employee { employeeId name } } }`, nil)
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["me"])).To(ContainSubstring(`"employeeId":"EMP0001"`))
			Expect(string(resp.Data["me"])).To(ContainSubstring(`"role":"EMPLOYEE"`))
		})

		It("should treat a garbage token as anonymous", func() {
			resp := doGraphQL(deps.Router, "not-a-token", `{ employees { totalCount } }`, nil)
			Expect(errorCode(resp)).To(Equal("UNAUTHENTICATED"))
		})
	})

	Describe("queries", func() {
		It("should require a login to list employees", func() {
			resp := doGraphQL(deps.Router, "", `{ employees { totalCount } }`, nil)
			Expect(errorCode(resp)).To(Equal("UNAUTHENTICATED"))
		})

		It("should paginate, filter and sort for any logged in user", func() {
			token := login(deps.Router, "sarah.johnson@company.com", seedEmployeePassword)
			resp := doGraphQL(deps.Router, token, `{
  employees(
    filter: {department: "engineering"}
    sort: {field: AGE, direction: DESC}
    pagination: {first: 2}
  ) {
    totalCount
    edges { cursor node { employeeId age } }
    pageInfo { hasNextPage hasPreviousPage endCursor }
  }
}`, nil)
			Expect(resp.Errors).To(BeEmpty())

			var data struct {
				TotalCount int `json:"totalCount"`
				Edges      []struct {
					Cursor string `json:"cursor"`
					Node   struct {
						EmployeeID string `json:"employeeId"`
						Age        int    `json:"age"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage     bool    `json:"hasNextPage"`
					HasPreviousPage bool    `json:"hasPreviousPage"`
					EndCursor       *string `json:"endCursor"`
				} `json:"pageInfo"`
			}
			Expect(json.Unmarshal(resp.Data["employees"], &data)).To(Succeed())

			Expect(data.TotalCount).To(Equal(4))
			Expect(data.Edges).To(HaveLen(2))
			Expect(data.Edges[0].Node.EmployeeID).To(Equal("EMP0001"))
			Expect(data.Edges[1].Node.EmployeeID).To(Equal("EMP0002"))
			Expect(data.PageInfo.HasNextPage).To(BeTrue())
			Expect(data.PageInfo.HasPreviousPage).To(BeFalse())
			Expect(*data.PageInfo.EndCursor).To(Equal(employee.EncodeCursor(1)))
		})

		It("should reject a malformed cursor", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)
			resp := doGraphQL(deps.Router, token, `{ employees(pagination: {after: "%%%"}) { totalCount } }`, nil)
			Expect(errorCode(resp)).To(Equal("BAD_USER_INPUT"))
			Expect(resp.Errors[0].Extensions["reason"]).To(Equal("INVALID_CURSOR"))
		})

		It("should return null for an unknown employee", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)
			resp := doGraphQL(deps.Router, token, `{ employeeByEmployeeId(employeeId: "EMP9999") { id } }`, nil)
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["employeeByEmployeeId"])).To(Equal("null"))
		})

		It("should restrict stats and users to admins", func() {
			employeeToken := login(deps.Router, "john.smith@company.com", seedEmployeePassword)
			Expect(errorCode(doGraphQL(deps.Router, employeeToken, `{ employeeStats { totalEmployees } }`, nil))).To(Equal("FORBIDDEN"))
			Expect(errorCode(doGraphQL(deps.Router, employeeToken, `{ users { id } }`, nil))).To(Equal("FORBIDDEN"))

			adminToken := login(deps.Router, seedAdminEmail, seedAdminPassword)
			resp := doGraphQL(deps.Router, adminToken, `{ employeeStats { totalEmployees activeEmployees departmentBreakdown { department count } } }`, nil)
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["employeeStats"])).To(ContainSubstring(`"totalEmployees":10`))
			Expect(string(resp.Data["employeeStats"])).To(ContainSubstring(`{"department":"Engineering","count":4}`))
		})
	})

	Describe("mutations", func() {
		const createMutation = `mutation($input: EmployeeInput!) {
  createEmployee(input: $input) { id employeeId attendance isActive }
}`
		input := map[string]interface{}{
			"employeeId": "EMP0099",
			"name":       "Test User",
			"age":        30,
			"class":      "Mid Level",
			"subjects":   []string{"Go"},
			"email":      "test.user@company.com",
			"department": "Engineering",
			"position":   "Engineer",
		}

		It("should let an admin create an employee and refuse a duplicate code", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)

			resp := doGraphQL(deps.Router, token, createMutation, map[string]interface{}{"input": input})
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["createEmployee"])).To(ContainSubstring(`"attendance":"100%"`))
			Expect(string(resp.Data["createEmployee"])).To(ContainSubstring(`"isActive":true`))

			dup := doGraphQL(deps.Router, token, createMutation, map[string]interface{}{"input": input})
			Expect(errorCode(dup)).To(Equal("CONFLICT"))

			employees, _ := deps.Store.Employees.List(context.Background())
			Expect(employees).To(HaveLen(11))
		})

		It("should refuse create for a non-admin", func() {
			token := login(deps.Router, "john.smith@company.com", seedEmployeePassword)
			resp := doGraphQL(deps.Router, token, createMutation, map[string]interface{}{"input": input})
			Expect(errorCode(resp)).To(Equal("FORBIDDEN"))
		})

		It("should report validation failures with details", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)
			bad := map[string]interface{}{}
			for k, v := range input {
				bad[k] = v
			}
			bad["age"] = 12
			resp := doGraphQL(deps.Router, token, createMutation, map[string]interface{}{"input": bad})
			Expect(errorCode(resp)).To(Equal("BAD_USER_INPUT"))
			Expect(resp.Errors[0].Extensions).To(HaveKey("details"))
		})

		It("should update and delete by id", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)
			target, err := deps.Store.Employees.GetByEmployeeID(context.Background(), "EMP0005")
			Expect(err).NotTo(HaveOccurred())

			resp := doGraphQL(deps.Router, token, `mutation($id: ID!) {
  updateEmployee(id: $id, input: {position: "Staff Engineer", attendance: "91%"}) { position attendance name }
}`, map[string]interface{}{"id": target.ID})
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["updateEmployee"])).To(ContainSubstring(`"position":"Staff Engineer"`))
			Expect(string(resp.Data["updateEmployee"])).To(ContainSubstring(`"name":"David Wilson"`))

			del := doGraphQL(deps.Router, token, `mutation($id: ID!) { deleteEmployee(id: $id) }`, map[string]interface{}{"id": target.ID})
			Expect(del.Errors).To(BeEmpty())
			Expect(string(del.Data["deleteEmployee"])).To(Equal("true"))

			again := doGraphQL(deps.Router, token, `mutation($id: ID!) { deleteEmployee(id: $id) }`, map[string]interface{}{"id": target.ID})
			Expect(string(again.Data["deleteEmployee"])).To(Equal("false"))
		})

		It("should let an employee edit only their own profile", func() {
			token := login(deps.Router, "emily.davis@company.com", seedEmployeePassword)
			resp := doGraphQL(deps.Router, token, `mutation {
  updateMyProfile(input: {subjects: ["Figma", "Prototyping"]}) { employeeId subjects email }
}`, nil)
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["updateMyProfile"])).To(ContainSubstring(`"employeeId":"EMP0004"`))
			Expect(string(resp.Data["updateMyProfile"])).To(ContainSubstring(`"subjects":["Figma","Prototyping"]`))

			adminToken := login(deps.Router, seedAdminEmail, seedAdminPassword)
			admin := doGraphQL(deps.Router, adminToken, `mutation { updateMyProfile(input: {email: "x@company.com"}) { id } }`, nil)
			Expect(errorCode(admin)).To(Equal("FORBIDDEN"))
		})

		It("should let an admin register a linked employee account", func() {
			token := login(deps.Router, seedAdminEmail, seedAdminPassword)
			target, _ := deps.Store.Employees.GetByEmployeeID(context.Background(), "EMP0003")

			resp := doGraphQL(deps.Router, token, `mutation($input: RegisterInput!) {
  register(input: $input) { token user { role employee { employeeId } } }
}`, map[string]interface{}{"input": map[string]interface{}{
				"email": "michael.alt@company.com", "password": "longenough", "role": "EMPLOYEE", "employeeId": target.ID,
			}})
			Expect(resp.Errors).To(BeEmpty())
			Expect(string(resp.Data["register"])).To(ContainSubstring(`"employeeId":"EMP0003"`))

			login(deps.Router, "michael.alt@company.com", "longenough")
		})
	})

	Describe("REST helpers", func() {
		It("should log in and describe the current user", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				strings.NewReader(`{"email":"admin@company.com","password":"admin123"}`))
			rec := httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var payload struct {
				Token string `json:"token"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &payload)).To(Succeed())

			req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+payload.Token)
			rec = httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(seedAdminEmail))
			Expect(rec.Body.String()).NotTo(ContainSubstring("$2a$"))
		})

		It("should refuse /users/me without a token", func() {
			rec := httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should serve health and metrics", func() {
			rec := httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"status":"OK"`))

			login(deps.Router, seedAdminEmail, seedAdminPassword)

			rec = httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`directory_operations_total{operation="login",outcome="ok"}`))
		})

		It("should echo a request id", func() {
			rec := httptest.NewRecorder()
			deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			Expect(rec.Header().Get("X-Request-ID")).NotTo(BeEmpty())
		})
	})
})

var _ = Describe("HTTP server in production", func() {
	It("should disable introspection", func() {
		deps := newTestDependencies(internal.EnvProduction)
		resp := doGraphQL(deps.Router, "", `{ __schema { queryType { name } } }`, nil)
		Expect(resp.Data).NotTo(HaveKey("__schema"))
	})
})
