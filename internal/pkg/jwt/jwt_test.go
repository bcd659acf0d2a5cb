package jwt

import (
	"testing"
)

const testSecret = "test-secret"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "Ana Cruz", "ana@xu.edu.ph", "CSO", testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user_id = %d", claims.UserID)
	}
	if claims.Email != "ana@xu.edu.ph" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "CSO" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	token, _ := GenerateAccessToken(7, "Ana Cruz", "ana@xu.edu.ph", "CSO", testSecret, 60)

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	token, _ := GenerateAccessToken(7, "Ana Cruz", "ana@xu.edu.ph", "CSO", testSecret, -1)

	if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenExpired {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not.a.token", testSecret); err != ErrTokenInvalid {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}
