package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/middleware"
	"github.com/mbriand/comptoir-backend/internal/service"
	"github.com/mbriand/comptoir-backend/internal/testutil"
)

// fixture wires mock repositories into real services with one organization
// and one owner user seeded
type fixture struct {
	echo *echo.Echo

	userRepo        *testutil.MockUserRepository
	orgRepo         *testutil.MockOrganizationRepository
	memberRepo      *testutil.MockMemberRepository
	transactionRepo *testutil.MockTransactionRepository
	categoryRepo    *testutil.MockCategoryRepository
	subCategoryRepo *testutil.MockSubCategoryRepository
	refundRepo      *testutil.MockRefundRepository
	noteRepo        *testutil.MockNoteRepository
	taskRepo        *testutil.MockTaskRepository
	eventRepo       *testutil.MockEventRepository
	preferenceRepo  *testutil.MockFilterPreferenceRepository

	organizationService *service.OrganizationService
	accountingService   *service.AccountingService
	categoryService     *service.CategoryService
	reportService       *service.ReportService
	noteService         *service.NoteService
	taskService         *service.TaskService
	eventService        *service.EventService
	preferenceService   *service.PreferenceService

	organizationID uuid.UUID
	userID         uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		echo:            echo.New(),
		userRepo:        testutil.NewMockUserRepository(),
		orgRepo:         testutil.NewMockOrganizationRepository(),
		memberRepo:      testutil.NewMockMemberRepository(),
		transactionRepo: testutil.NewMockTransactionRepository(),
		categoryRepo:    testutil.NewMockCategoryRepository(),
		subCategoryRepo: testutil.NewMockSubCategoryRepository(),
		refundRepo:      testutil.NewMockRefundRepository(),
		noteRepo:        testutil.NewMockNoteRepository(),
		taskRepo:        testutil.NewMockTaskRepository(),
		eventRepo:       testutil.NewMockEventRepository(),
		preferenceRepo:  testutil.NewMockFilterPreferenceRepository(),
	}
	f.orgRepo.Members = f.memberRepo
	f.subCategoryRepo.Categories = f.categoryRepo

	f.categoryService = service.NewCategoryService(f.categoryRepo, f.subCategoryRepo, f.transactionRepo)
	f.organizationService = service.NewOrganizationService(f.orgRepo, f.memberRepo, f.userRepo, f.categoryService)
	f.accountingService = service.NewAccountingService(f.transactionRepo, f.categoryRepo, f.subCategoryRepo, f.refundRepo)
	f.reportService = service.NewReportService(f.transactionRepo, f.categoryRepo, f.subCategoryRepo)
	f.noteService = service.NewNoteService(f.noteRepo, f.memberRepo, nil)
	f.taskService = service.NewTaskService(f.taskRepo)
	f.eventService = service.NewEventService(f.eventRepo)
	f.preferenceService = service.NewPreferenceService(f.preferenceRepo)

	f.organizationID = uuid.New()
	f.userID = uuid.New()

	f.userRepo.AddUser(&domain.User{
		ID:      f.userID,
		Auth0ID: "auth0|owner",
		Email:   "owner@example.com",
	})
	f.orgRepo.AddOrganization(&domain.Organization{
		ID:      f.organizationID,
		Name:    "Test Org",
		OwnerID: f.userID,
	})
	f.memberRepo.AddMember(&domain.Member{
		OrganizationID: f.organizationID,
		UserID:         f.userID,
		Role:           domain.MemberRoleOwner,
		JoinedAt:       time.Now(),
	})

	return f
}

// request builds an authenticated echo context with the fixture user and the
// fixture organization bound to the :orgId path parameter
func (f *fixture) request(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), middleware.UserKey, &domain.User{
		ID:    f.userID,
		Email: "owner@example.com",
	})
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("orgId")
	c.SetParamValues(f.organizationID.String())
	return c, rec
}

// requestAs builds an authenticated context for a specific user
func (f *fixture) requestAs(userID uuid.UUID, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), middleware.UserKey, &domain.User{ID: userID})
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("orgId")
	c.SetParamValues(f.organizationID.String())
	return c, rec
}

// anonymousRequest builds a context without an authenticated user
func (f *fixture) anonymousRequest(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("orgId")
	c.SetParamValues(f.organizationID.String())
	return c, rec
}

// addParams appends extra path parameters to a context built by request
func addParams(c echo.Context, names []string, values []string) {
	allNames := append([]string{"orgId"}, names...)
	allValues := append([]string{c.Param("orgId")}, values...)
	c.SetParamNames(allNames...)
	c.SetParamValues(allValues...)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}

// seedCategory adds a category to the fixture organization
func (f *fixture) seedCategory(name string, typ domain.CategoryType) *domain.Category {
	category := &domain.Category{
		ID:             uuid.New(),
		OrganizationID: f.organizationID,
		Name:           name,
		Type:           typ,
	}
	f.categoryRepo.AddCategory(category)
	return category
}
