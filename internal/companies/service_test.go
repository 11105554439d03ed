package companies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/totalawareness/backend/internal/memberships"
	"github.com/totalawareness/backend/internal/policy"
	"github.com/totalawareness/backend/pkg/db"
	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/pagination"
)

type companyEnv struct {
	conn        *gorm.DB
	client      *db.Client
	memberships *memberships.Repository
	service     Service
}

func newCompanyEnv(t *testing.T) *companyEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(
		&models.User{}, &models.Role{}, &models.Company{}, &models.Membership{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalog := []models.Role{
		{ID: policy.RoleOwner, Name: "OWNER", Level: 1},
		{ID: policy.RoleAdmin, Name: "ADMIN", Level: 2},
		{ID: policy.RoleMember, Name: "MEMBER", Level: 3},
		{ID: policy.RoleViewer, Name: "VIEWER", Level: 4},
	}
	for _, role := range catalog {
		if err := conn.Create(&role).Error; err != nil {
			t.Fatalf("seed role %s: %v", role.Name, err)
		}
	}

	client := db.NewWithConn(conn)
	membershipRepo := memberships.NewRepository(conn)
	svc, err := NewService(client, NewRepository(conn), membershipRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &companyEnv{conn: conn, client: client, memberships: membershipRepo, service: svc}
}

func (e *companyEnv) seedUser(t *testing.T, name string) uuid.UUID {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
	}
	if err := e.conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user.ID
}

func (e *companyEnv) seedMember(t *testing.T, userID, companyID uuid.UUID, roleID int16, approved bool) {
	t.Helper()
	m := models.Membership{
		ID:        uuid.New(),
		UserID:    userID,
		CompanyID: companyID,
		RoleID:    roleID,
		Approved:  approved,
	}
	if err := e.conn.Create(&m).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%s)", code, typed.Code(), typed.Message())
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateGrantsOwnerMembership(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")

	company, err := env.service.Create(ctx, owner, CreateCompanyInput{
		Name:        "acme",
		Description: strPtr("widgets"),
		Public:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if company.OwnerID != owner {
		t.Fatalf("unexpected owner %s", company.OwnerID)
	}

	m, err := env.memberships.FindByUserAndCompany(ctx, owner, company.ID)
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if m.RoleID != policy.RoleOwner {
		t.Fatalf("expected OWNER role, got %d", m.RoleID)
	}
	if !m.Approved {
		t.Fatal("expected approved owner membership")
	}
}

func TestCreateDuplicateNamePerOwner(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")
	other := env.seedUser(t, "other")

	if _, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "acme"})
	wantCode(t, err, pkgerrors.CodeConflict)

	// The name is only unique per owner.
	if _, err := env.service.Create(ctx, other, CreateCompanyInput{Name: "acme"}); err != nil {
		t.Fatalf("same name, different owner: %v", err)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	env := newCompanyEnv(t)
	owner := env.seedUser(t, "owner")

	_, err := env.service.Create(context.Background(), owner, CreateCompanyInput{Name: "   "})
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateVisibilityIsOwnerOnly(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")
	admin := env.seedUser(t, "admin")

	company, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.seedMember(t, admin, company.ID, policy.RoleAdmin, true)

	// Admins may edit descriptive fields.
	updated, err := env.service.Update(ctx, admin, company.ID, UpdateCompanyInput{
		Description: strPtr("widgets"),
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Description == nil || *updated.Description != "widgets" {
		t.Fatal("expected description update")
	}

	_, err = env.service.Update(ctx, admin, company.ID, UpdateCompanyInput{Public: boolPtr(true)})
	wantCode(t, err, pkgerrors.CodeForbidden)

	updated, err = env.service.Update(ctx, owner, company.ID, UpdateCompanyInput{Public: boolPtr(true)})
	if err != nil {
		t.Fatalf("owner visibility update: %v", err)
	}
	if !updated.Public {
		t.Fatal("expected company to be public")
	}
}

func TestUpdateRequiresManager(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")
	member := env.seedUser(t, "member")

	company, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.seedMember(t, member, company.ID, policy.RoleMember, true)

	_, err = env.service.Update(ctx, member, company.ID, UpdateCompanyInput{Name: strPtr("renamed")})
	wantCode(t, err, pkgerrors.CodeForbidden)
}

func TestDeleteIsOwnerOnlyAndCascades(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")
	admin := env.seedUser(t, "admin")

	company, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.seedMember(t, admin, company.ID, policy.RoleAdmin, true)

	err = env.service.Delete(ctx, admin, company.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	if err := env.service.Delete(ctx, owner, company.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	count, err := env.memberships.CountByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 memberships after delete, got %d", count)
	}

	_, err = env.service.Detail(ctx, nil, company.ID)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestDetailVisibility(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")
	pending := env.seedUser(t, "pending")
	outsider := env.seedUser(t, "outsider")

	private, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "private-co"})
	if err != nil {
		t.Fatalf("create private: %v", err)
	}
	public, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "public-co", Public: true})
	if err != nil {
		t.Fatalf("create public: %v", err)
	}
	env.seedMember(t, pending, private.ID, policy.RoleMember, false)

	// Anonymous requests see public companies only.
	if _, err := env.service.Detail(ctx, nil, public.ID); err != nil {
		t.Fatalf("anonymous public detail: %v", err)
	}
	_, err = env.service.Detail(ctx, nil, private.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	_, err = env.service.Detail(ctx, &outsider, private.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	// A pending request is enough to view the detail page.
	detail, err := env.service.Detail(ctx, &pending, private.ID)
	if err != nil {
		t.Fatalf("pending member detail: %v", err)
	}
	if detail.Viewer == nil || detail.Viewer.Approved {
		t.Fatal("expected unapproved viewer membership")
	}

	detail, err = env.service.Detail(ctx, &owner, private.ID)
	if err != nil {
		t.Fatalf("owner detail: %v", err)
	}
	if !detail.IsOwner {
		t.Fatal("expected is_owner flag")
	}
}

func TestListPublicPagination(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"first", "second", "third"}
	for i, name := range names {
		company, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: name, Public: true})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		// Spread creation times so the cursor ordering is deterministic.
		err = env.conn.Exec(
			"UPDATE companies SET created_at = ? WHERE id = ?",
			base.Add(time.Duration(i)*time.Minute), company.ID,
		).Error
		if err != nil {
			t.Fatalf("backdate %s: %v", name, err)
		}
	}

	page, err := env.service.ListPublic(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(page.Companies))
	}
	if page.Companies[0].Name != "third" || page.Companies[1].Name != "second" {
		t.Fatalf("unexpected order: %s, %s", page.Companies[0].Name, page.Companies[1].Name)
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	second, err := env.service.ListPublic(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(second.Companies))
	}
	if second.Companies[0].Name != "first" {
		t.Fatalf("unexpected company %s", second.Companies[0].Name)
	}
	if second.NextCursor != "" {
		t.Fatal("expected empty cursor on last page")
	}
}

func TestListPublicHidesPrivateCompanies(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")

	if _, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "hidden"}); err != nil {
		t.Fatalf("create private: %v", err)
	}
	if _, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "visible", Public: true}); err != nil {
		t.Fatalf("create public: %v", err)
	}

	page, err := env.service.ListPublic(ctx, pagination.Params{})
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(page.Companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(page.Companies))
	}
	if page.Companies[0].Name != "visible" {
		t.Fatalf("unexpected company %s", page.Companies[0].Name)
	}
	if page.Companies[0].OwnerName != "owner" {
		t.Fatalf("unexpected owner name %s", page.Companies[0].OwnerName)
	}
	if page.Companies[0].MemberCount != 1 {
		t.Fatalf("expected 1 approved member, got %d", page.Companies[0].MemberCount)
	}
}

func TestExploreListsEverythingPublicFirst(t *testing.T) {
	env := newCompanyEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner")

	if _, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "hidden"}); err != nil {
		t.Fatalf("create private: %v", err)
	}
	if _, err := env.service.Create(ctx, owner, CreateCompanyInput{Name: "visible", Public: true}); err != nil {
		t.Fatalf("create public: %v", err)
	}

	rows, err := env.service.Explore(ctx, 0)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(rows))
	}
	if !rows[0].Public {
		t.Fatal("expected public company first")
	}
}
