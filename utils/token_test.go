package utils

import (
	"testing"
)

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "company-1", 3)
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	validated, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !validated.Valid {
		t.Fatal("token should be valid")
	}
	claims, ok := validated.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if claims.ID != 42 || claims.CompanyId != "company-1" || claims.RoleId != 3 {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestJwtRefreshRoundTrip(t *testing.T) {
	token, jti, err := JwtGenerateRefresh(42, "company-1")
	if err != nil {
		t.Fatalf("JwtGenerateRefresh: %v", err)
	}
	if jti == "" {
		t.Fatal("refresh token must carry a jti")
	}

	validated, err := JwtValidateRefresh(token)
	if err != nil {
		t.Fatalf("JwtValidateRefresh: %v", err)
	}
	claims, ok := validated.Claims.(*JwtRefreshClaim)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if claims.Id != jti {
		t.Errorf("jti mismatch: token=%s returned=%s", claims.Id, jti)
	}
	if claims.ID != 42 || claims.CompanyId != "company-1" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestJwtValidateRejectsTampered(t *testing.T) {
	token, err := JwtGenerate(1, "c", 0)
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	validated, err := JwtValidate(tampered)
	if err == nil && validated.Valid {
		t.Error("tampered token must not validate")
	}
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	token, err := JwtGenerate(1, "c", 0)
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}
	validated, err := JwtValidateRefresh(token)
	if err != nil || !validated.Valid {
		// signature matches either way; the distinguishing claim is the jti
		return
	}
	claims := validated.Claims.(*JwtRefreshClaim)
	if claims.Id != "" {
		t.Error("access token should carry no jti")
	}
}
