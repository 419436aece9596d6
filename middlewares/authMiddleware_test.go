package middlewares

import (
	"context"
	"testing"

	"bitbucket.org/artplim/erp_backend/utils"
)

func TestClaimsContextCarriesIdentity(t *testing.T) {
	claims := &utils.JwtCustomClaim{ID: 42, CompanyId: "company-1", RoleId: 3}
	ctx := claimsContext(context.Background(), "token-abc", claims)

	if token, _ := utils.GetTokenFromContext(ctx); token != "token-abc" {
		t.Fatalf("expected token in context; got %q", token)
	}
	if userId, _ := utils.GetUserIdFromContext(ctx); userId != 42 {
		t.Fatalf("expected user id 42; got %d", userId)
	}
	if companyId, _ := utils.GetCompanyIdFromContext(ctx); companyId != "company-1" {
		t.Fatalf("expected company-1; got %q", companyId)
	}
	if roleId, _ := utils.GetRoleIdFromContext(ctx); roleId != 3 {
		t.Fatalf("expected role id 3; got %d", roleId)
	}
}

func TestCompanyAdminTokenKeepsTenantScope(t *testing.T) {
	// Role 0 means company admin. The token must never grant the
	// platform-level flags that disable tenant scoping in queries.
	claims := &utils.JwtCustomClaim{ID: 1, CompanyId: "company-1", RoleId: 0}
	ctx := claimsContext(context.Background(), "token-abc", claims)

	if isAdmin, ok := utils.GetIsAdminFromContext(ctx); ok && isAdmin {
		t.Fatal("company admin token must not set the platform-admin flag")
	}
	if skip, ok := utils.GetSkipTenantScopeFromContext(ctx); ok && skip {
		t.Fatal("company admin token must not disable tenant scoping")
	}
	if roleId, ok := utils.GetRoleIdFromContext(ctx); !ok || roleId != 0 {
		t.Fatalf("role id 0 must still be carried for the role check; got %d ok=%v", roleId, ok)
	}
}
