package helpers

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("joe@example.com", "Joe", "user-1", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "joe@example.com" || claims.Name != "Joe" || claims.Uid != "user-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.IsAnonymous {
		t.Error("expected non-anonymous claims")
	}
}

func TestAnonymousTokenCarriesFlag(t *testing.T) {
	token, err := GenerateToken("", "", "anon-1", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !claims.IsAnonymous {
		t.Error("expected anonymous flag set")
	}
	if claims.Uid != "anon-1" {
		t.Errorf("expected uid anon-1, got %q", claims.Uid)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
